package logistics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magnova/magnova-procure/internal/shared"
)

// AuditPort records audit entries as a best-effort side effect.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns shipment tracking.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs the logistics service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// CreateInput describes a new shipment.
type CreateInput struct {
	PONumber         string
	TransporterName  string
	VehicleNumber    string
	EwayBillNumber   string
	FromLocation     string
	ToLocation       string
	PickupDate       time.Time
	ExpectedDelivery time.Time
	IMEIList         []string
}

// Create registers a shipment in pending status.
func (s *Service) Create(ctx context.Context, input CreateInput, actor shared.Identity) (Shipment, error) {
	if input.TransporterName == "" || input.FromLocation == "" || input.ToLocation == "" {
		return Shipment{}, fmt.Errorf("transporter_name, from_location and to_location required: %w", ErrValidation)
	}
	now := time.Now().UTC()
	pickup := input.PickupDate
	if pickup.IsZero() {
		pickup = now
	}
	shipment := Shipment{
		ID:               uuid.NewString(),
		PONumber:         input.PONumber,
		TransporterName:  input.TransporterName,
		VehicleNumber:    input.VehicleNumber,
		EwayBillNumber:   input.EwayBillNumber,
		FromLocation:     input.FromLocation,
		ToLocation:       input.ToLocation,
		PickupDate:       pickup,
		ExpectedDelivery: input.ExpectedDelivery,
		Status:           StatusPending,
		IMEIList:         input.IMEIList,
		PickupQuantity:   len(input.IMEIList),
		CreatedBy:        actor.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, shipment); err != nil {
		return Shipment{}, err
	}
	s.recordAudit(ctx, actor, "create", shipment.ID, map[string]any{
		"po_number": shipment.PONumber,
		"quantity":  shipment.PickupQuantity,
	})
	return shipment, nil
}

// Get returns one shipment.
func (s *Service) Get(ctx context.Context, id string) (Shipment, error) {
	return s.repo.Get(ctx, id)
}

// List returns shipments, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]Shipment, error) {
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, status, limit, offset)
}

// UpdateStatus moves the shipment. Delivery stamps actual_delivery.
func (s *Service) UpdateStatus(ctx context.Context, id, status string, actor shared.Identity) (Shipment, error) {
	if !ValidStatus(status) {
		return Shipment{}, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	shipment, err := s.repo.Get(ctx, id)
	if err != nil {
		return Shipment{}, err
	}
	previous := shipment.Status
	now := time.Now().UTC()
	shipment.Status = status
	shipment.UpdatedAt = now
	if status == StatusDelivered && shipment.ActualDelivery == nil {
		shipment.ActualDelivery = &now
	}
	updated, err := s.repo.UpdateStatus(ctx, shipment)
	if err != nil {
		return Shipment{}, err
	}
	if !updated {
		return Shipment{}, ErrNotFound
	}
	s.recordAudit(ctx, actor, "update_status", id, map[string]any{
		"previous_status": previous,
		"new_status":      status,
	})
	return shipment, nil
}

// Delete hard-deletes the shipment. Admin only.
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
		EntityType: "logistics_shipment",
		EntityID:   id,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	})
}
