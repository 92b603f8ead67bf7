package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magnova/magnova-procure/internal/inventory"
	"github.com/magnova/magnova-procure/internal/shared"
)

// InventoryPort registers received devices into the IMEI registry.
type InventoryPort interface {
	Register(ctx context.Context, input inventory.RegisterInput, actor shared.Identity) (inventory.Device, error)
}

// AuditPort records audit entries as a best-effort side effect.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles device intake.
type Service struct {
	repo      RepositoryPort
	inventory InventoryPort
	audit     AuditPort
}

// NewService constructs the intake service.
func NewService(repo RepositoryPort, inv InventoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, inventory: inv, audit: audit}
}

// CreateInput describes a received device.
type CreateInput struct {
	PONumber      string
	VendorName    string
	StoreLocation string
	IMEI          string
	DeviceModel   string
	Quantity      int
	PurchasePrice float64
}

// Create records the intake and registers the device into inventory.
func (s *Service) Create(ctx context.Context, input CreateInput, actor shared.Identity) (Procurement, error) {
	if input.IMEI == "" || input.DeviceModel == "" {
		return Procurement{}, fmt.Errorf("imei and device_model required: %w", ErrValidation)
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if input.PurchasePrice < 0 {
		return Procurement{}, fmt.Errorf("purchase_price must not be negative: %w", ErrValidation)
	}
	p := Procurement{
		ID:            uuid.NewString(),
		PONumber:      input.PONumber,
		VendorName:    input.VendorName,
		StoreLocation: input.StoreLocation,
		IMEI:          input.IMEI,
		DeviceModel:   input.DeviceModel,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		CreatedBy:     actor.UserID,
		CreatedAt:     time.Now().UTC(),
	}
	if s.inventory != nil {
		brand := input.VendorName
		if brand == "" {
			brand = input.DeviceModel
		}
		_, err := s.inventory.Register(ctx, inventory.RegisterInput{
			IMEI:            input.IMEI,
			ProcurementID:   p.ID,
			Brand:           brand,
			Model:           input.DeviceModel,
			DeviceModel:     input.DeviceModel,
			Vendor:          input.VendorName,
			CurrentLocation: input.StoreLocation,
			PONumber:        input.PONumber,
			PurchasePrice:   input.PurchasePrice,
		}, actor)
		if err != nil {
			return Procurement{}, err
		}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Procurement{}, err
	}
	s.recordAudit(ctx, actor, "create", p.ID, map[string]any{
		"imei":      p.IMEI,
		"po_number": p.PONumber,
	})
	return p, nil
}

// Get returns one intake record.
func (s *Service) Get(ctx context.Context, id string) (Procurement, error) {
	return s.repo.Get(ctx, id)
}

// List returns intake records, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Procurement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Delete hard-deletes the record. Admin only.
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
		EntityType: "procurement",
		EntityID:   id,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	})
}
