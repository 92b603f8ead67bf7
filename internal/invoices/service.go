package invoices

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/magnova/magnova-procure/internal/shared"
)

// AuditPort records audit entries as a best-effort side effect.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns GST invoices.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs the invoice service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// CreateInput describes a new invoice. Amount is the GST-exclusive base
// price; GSTAmount is the tax on top of it.
type CreateInput struct {
	Type            string
	PONumber        string
	FromOrg         string
	ToOrg           string
	Amount          float64
	GSTAmount       float64
	GSTPercentage   float64
	IMEIList        []string
	InvoiceDate     time.Time
	Description     string
	BillingAddress  string
	ShippingAddress string
}

const createAttempts = 5

// Create validates the amounts and persists the invoice with
// total_amount = amount + gst_amount.
func (s *Service) Create(ctx context.Context, input CreateInput, actor shared.Identity) (Invoice, error) {
	if input.Amount < 0 || input.GSTAmount < 0 {
		return Invoice{}, fmt.Errorf("amount and gst_amount must not be negative: %w", ErrValidation)
	}
	if input.GSTPercentage < 0 || input.GSTPercentage > 100 {
		return Invoice{}, fmt.Errorf("gst_percentage must be between 0 and 100: %w", ErrValidation)
	}
	if input.FromOrg == "" || input.ToOrg == "" {
		return Invoice{}, fmt.Errorf("from_organization and to_organization required: %w", ErrValidation)
	}
	gst := input.GSTAmount
	if gst == 0 && input.GSTPercentage > 0 {
		gst = math.Round(input.Amount*input.GSTPercentage) / 100
	}
	now := time.Now().UTC()
	date := input.InvoiceDate
	if date.IsZero() {
		date = now
	}
	inv := Invoice{
		ID:              uuid.NewString(),
		Type:            input.Type,
		PONumber:        input.PONumber,
		FromOrg:         input.FromOrg,
		ToOrg:           input.ToOrg,
		Amount:          input.Amount,
		GSTAmount:       gst,
		GSTPercentage:   input.GSTPercentage,
		TotalAmount:     input.Amount + gst,
		IMEIList:        input.IMEIList,
		InvoiceDate:     date,
		PaymentStatus:   "pending",
		Description:     input.Description,
		BillingAddress:  input.BillingAddress,
		ShippingAddress: input.ShippingAddress,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
	}
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		inv.Number = generateNumber()
		if err = s.repo.Create(ctx, inv); !errors.Is(err, ErrDuplicateNumber) {
			break
		}
	}
	if err != nil {
		return Invoice{}, err
	}
	s.recordAudit(ctx, actor, "create", inv.ID, map[string]any{
		"invoice_number": inv.Number,
		"total_amount":   inv.TotalAmount,
	})
	return inv, nil
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	return s.repo.Get(ctx, id)
}

// List returns invoices, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Invoice, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Delete hard-deletes the invoice. Admin only.
func (s *Service) Delete(ctx context.Context, id string, actor shared.Identity) error {
	if !shared.CanDelete(actor) {
		return ErrForbidden
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.recordAudit(ctx, actor, "delete", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor shared.Identity, action, id string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:     action,
		EntityType: "invoice",
		EntityID:   id,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	})
}

func generateNumber() string {
	return fmt.Sprintf("INV-%05d", 10000+rand.IntN(90000))
}
