package sales

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

// Service owns sales orders.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs the sales service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// CreateInput describes a new sales order.
type CreateInput struct {
	CustomerName string
	CustomerType string
	TotalAmount  float64
	IMEIList     []string
}

const createAttempts = 5

// Create persists the order. Quantity is derived from the IMEI list.
func (s *Service) Create(ctx context.Context, input CreateInput, actor shared.Identity) (SalesOrder, error) {
	if input.CustomerName == "" {
		return SalesOrder{}, fmt.Errorf("customer_name required: %w", ErrValidation)
	}
	if len(input.IMEIList) == 0 {
		return SalesOrder{}, fmt.Errorf("at least one imei required: %w", ErrValidation)
	}
	if input.TotalAmount < 0 {
		return SalesOrder{}, fmt.Errorf("total_amount must not be negative: %w", ErrValidation)
	}
	now := time.Now().UTC()
	so := SalesOrder{
		ID:            uuid.NewString(),
		CustomerName:  input.CustomerName,
		CustomerType:  input.CustomerType,
		TotalQuantity: len(input.IMEIList),
		TotalAmount:   input.TotalAmount,
		Status:        "completed",
		IMEIList:      input.IMEIList,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		so.Number = generateNumber()
		if err = s.repo.Create(ctx, so); !errors.Is(err, ErrDuplicateNumber) {
			break
		}
	}
	if err != nil {
		return SalesOrder{}, err
	}
	s.recordAudit(ctx, actor, "create", so.ID, map[string]any{
		"so_number":      so.Number,
		"total_quantity": so.TotalQuantity,
	})
	return so, nil
}

// Get returns one sales order.
func (s *Service) Get(ctx context.Context, id string) (SalesOrder, error) {
	return s.repo.Get(ctx, id)
}

// List returns sales orders, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]SalesOrder, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Delete hard-deletes the order. Admin only.
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
		EntityType: "sales_order",
		EntityID:   id,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	})
}

func generateNumber() string {
	return fmt.Sprintf("SO-%04d", 1000+rand.IntN(9000))
}
