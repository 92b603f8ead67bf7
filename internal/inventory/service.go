package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// AuditPort records audit entries as a best-effort side effect.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns the IMEI registry.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs the registry service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// RegisterInput describes a device entering the registry.
type RegisterInput struct {
	IMEI            string
	ProcurementID   string
	Brand           string
	Model           string
	DeviceModel     string
	Colour          string
	Storage         string
	Vendor          string
	Status          string
	CurrentLocation string
	Organization    string
	PONumber        string
	PurchasePrice   float64
}

// Register adds a device. A fresh device lands at Nova unless told otherwise.
func (s *Service) Register(ctx context.Context, input RegisterInput, actor shared.Identity) (Device, error) {
	if input.IMEI == "" {
		return Device{}, fmt.Errorf("imei required: %w", ErrValidation)
	}
	if input.Brand == "" || input.Model == "" {
		return Device{}, fmt.Errorf("brand and model required: %w", ErrValidation)
	}
	if input.Status == "" {
		input.Status = StatusAtNova
	}
	if !ValidStatus(input.Status) {
		return Device{}, fmt.Errorf("unknown status %q: %w", input.Status, ErrValidation)
	}
	now := time.Now().UTC()
	d := Device{
		IMEI:            input.IMEI,
		ProcurementID:   input.ProcurementID,
		Brand:           input.Brand,
		Model:           input.Model,
		DeviceModel:     input.DeviceModel,
		Colour:          input.Colour,
		Storage:         input.Storage,
		Vendor:          input.Vendor,
		Status:          input.Status,
		CurrentLocation: input.CurrentLocation,
		Organization:    input.Organization,
		PONumber:        input.PONumber,
		PurchasePrice:   input.PurchasePrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	stampStatusDate(&d, input.Status, now)
	if err := s.repo.Create(ctx, d); err != nil {
		return Device{}, err
	}
	s.recordAudit(ctx, actor, "create", d.IMEI, map[string]any{"status": d.Status})
	return d, nil
}

// Get returns the device by IMEI.
func (s *Service) Get(ctx context.Context, imei string) (Device, error) {
	return s.repo.GetByIMEI(ctx, imei)
}

// List returns devices, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]Device, error) {
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

// UpdateStatusInput moves a device along the pipeline.
type UpdateStatusInput struct {
	Status          string
	CurrentLocation string
	Organization    string
}

// UpdateStatus transitions the device and stamps the matching date field.
func (s *Service) UpdateStatus(ctx context.Context, imei string, input UpdateStatusInput, actor shared.Identity) (Device, error) {
	if !ValidStatus(input.Status) {
		return Device{}, fmt.Errorf("unknown status %q: %w", input.Status, ErrValidation)
	}
	d, err := s.repo.GetByIMEI(ctx, imei)
	if err != nil {
		return Device{}, err
	}
	previous := d.Status
	now := time.Now().UTC()
	d.Status = input.Status
	if input.CurrentLocation != "" {
		d.CurrentLocation = input.CurrentLocation
	}
	if input.Organization != "" {
		d.Organization = input.Organization
	}
	d.UpdatedAt = now
	stampStatusDate(&d, input.Status, now)
	updated, err := s.repo.Update(ctx, d)
	if err != nil {
		return Device{}, err
	}
	if !updated {
		return Device{}, ErrNotFound
	}
	s.recordAudit(ctx, actor, "update_status", imei, map[string]any{
		"previous_status": previous,
		"new_status":      input.Status,
	})
	return d, nil
}

// Delete hard-deletes the device. Admin only.
func (s *Service) Delete(ctx context.Context, imei string, actor shared.Identity) error {
	if !shared.CanDelete(actor) {
		return ErrForbidden
	}
	deleted, err := s.repo.Delete(ctx, imei)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.recordAudit(ctx, actor, "delete", imei, nil)
	return nil
}

func stampStatusDate(d *Device, status string, now time.Time) {
	switch status {
	case StatusAtNova:
		d.InwardNovaDate = &now
	case StatusAtMagnova:
		d.InwardMagnovaDate = &now
	case StatusDispatched:
		d.DispatchedDate = &now
	case StatusSold:
		d.SoldDate = &now
	}
}

func (s *Service) recordAudit(ctx context.Context, actor shared.Identity, action, imei string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:     action,
		EntityType: "imei_inventory",
		EntityID:   imei,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	})
}
