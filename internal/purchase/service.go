package purchase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/magnova/magnova-procure/internal/shared"
)

// AuditPort records audit entries as a best-effort side effect.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the PO ledger and its approval state machine.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs the ledger service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// CreateInput describes a new purchase order.
type CreateInput struct {
	Date           time.Time
	PurchaseOffice string
	Organization   string
	Notes          string
	Items          []LineItemInput
}

// LineItemInput is a single requested line.
type LineItemInput struct {
	Vendor   string
	Location string
	Brand    string
	Model    string
	Storage  string
	Colour   string
	IMEI     string
	Qty      int
	Rate     float64
}

const createAttempts = 5

// Create validates the items, recomputes totals and persists the PO with a
// fresh generated number, retrying on number collision.
func (s *Service) Create(ctx context.Context, input CreateInput, actor shared.Identity) (PurchaseOrder, error) {
	if len(input.Items) == 0 {
		return PurchaseOrder{}, fmt.Errorf("at least one line item required: %w", ErrValidation)
	}
	items := make([]LineItem, 0, len(input.Items))
	totalQty := 0
	totalValue := 0.0
	for i, line := range input.Items {
		if line.Qty <= 0 || line.Rate <= 0 {
			return PurchaseOrder{}, fmt.Errorf("line %d: qty and rate must be positive: %w", i+1, ErrValidation)
		}
		value := float64(line.Qty) * line.Rate
		items = append(items, LineItem{
			SlNo:     i + 1,
			Vendor:   line.Vendor,
			Location: line.Location,
			Brand:    line.Brand,
			Model:    line.Model,
			Storage:  line.Storage,
			Colour:   line.Colour,
			IMEI:     line.IMEI,
			Qty:      line.Qty,
			Rate:     line.Rate,
			POValue:  value,
		})
		totalQty += line.Qty
		totalValue += value
	}
	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}
	po := PurchaseOrder{
		ID:             uuid.NewString(),
		Date:           date,
		PurchaseOffice: input.PurchaseOffice,
		CreatedBy:      actor.UserID,
		CreatedByName:  actor.Name,
		Organization:   firstNonEmpty(input.Organization, actor.Organization),
		Status:         StatusPendingApproval,
		TotalQuantity:  totalQty,
		TotalValue:     totalValue,
		Items:          items,
		Notes:          input.Notes,
		ApprovalStatus: ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		po.Number = generateNumber()
		if err = s.repo.Create(ctx, po); !errors.Is(err, ErrDuplicateNumber) {
			break
		}
	}
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.recordAudit(ctx, actor, "create", po.Number, map[string]any{
		"total_quantity": po.TotalQuantity,
		"total_value":    po.TotalValue,
	})
	return po, nil
}

// Get returns the PO by its number.
func (s *Service) Get(ctx context.Context, number string) (PurchaseOrder, error) {
	return s.repo.GetByNumber(ctx, number)
}

// List returns POs, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]PurchaseOrder, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// ApproveInput carries the decision.
type ApproveInput struct {
	Action          string
	RejectionReason string
}

// Approve applies the approve/reject decision. Only a pending PO can be
// decided; a second decision fails with invalid state.
func (s *Service) Approve(ctx context.Context, number string, input ApproveInput, actor shared.Identity) (PurchaseOrder, error) {
	po, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return PurchaseOrder{}, err
	}
	var approvalStatus, status, reason string
	switch input.Action {
	case "approve":
		approvalStatus, status = ApprovalApproved, StatusApproved
	case "reject":
		if input.RejectionReason == "" {
			return PurchaseOrder{}, fmt.Errorf("rejection requires a reason: %w", ErrValidation)
		}
		approvalStatus, status, reason = ApprovalRejected, StatusRejected, input.RejectionReason
	default:
		return PurchaseOrder{}, fmt.Errorf("action must be approve or reject: %w", ErrValidation)
	}
	now := time.Now().UTC()
	changed, err := s.repo.SetApproval(ctx, number, approvalStatus, status, actor.UserID, reason, now)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if !changed {
		return PurchaseOrder{}, ErrAlreadyDecided
	}
	s.recordAudit(ctx, actor, input.Action, number, map[string]any{
		"previous_status":  po.ApprovalStatus,
		"new_status":       approvalStatus,
		"rejection_reason": reason,
	})
	return s.repo.GetByNumber(ctx, number)
}

// Delete hard-deletes the PO. Admin only.
func (s *Service) Delete(ctx context.Context, number string, actor shared.Identity) error {
	if !shared.CanDelete(actor) {
		return ErrForbidden
	}
	deleted, err := s.repo.Delete(ctx, number)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.recordAudit(ctx, actor, "delete", number, nil)
	return nil
}

// Exists reports whether a PO with the number is on the ledger. Used by the
// payment engine before accepting money against a number.
func (s *Service) Exists(ctx context.Context, number string) (bool, error) {
	return s.repo.Exists(ctx, number)
}

func (s *Service) recordAudit(ctx context.Context, actor shared.Identity, action, number string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:     action,
		EntityType: "purchase_order",
		EntityID:   number,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	})
}

func generateNumber() string {
	return fmt.Sprintf("PO-%04d-%03d", 1000+rand.IntN(9000), 100+rand.IntN(900))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
