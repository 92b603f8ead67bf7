package inventory

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// Device statuses in transit order.
const (
	StatusAtNova     = "at_nova"
	StatusInTransit  = "in_transit_to_magnova"
	StatusAtMagnova  = "at_magnova"
	StatusDispatched = "dispatched"
	StatusSold       = "sold"
)

// Device is one IMEI-keyed unit of inventory.
type Device struct {
	IMEI              string     `json:"imei"`
	ProcurementID     string     `json:"procurement_id,omitempty"`
	Brand             string     `json:"brand"`
	Model             string     `json:"model"`
	DeviceModel       string     `json:"device_model,omitempty"`
	Colour            string     `json:"colour,omitempty"`
	Storage           string     `json:"storage,omitempty"`
	Vendor            string     `json:"vendor,omitempty"`
	Status            string     `json:"status"`
	CurrentLocation   string     `json:"current_location,omitempty"`
	Organization      string     `json:"organization,omitempty"`
	PONumber          string     `json:"po_number,omitempty"`
	PurchasePrice     float64    `json:"purchase_price"`
	InwardNovaDate    *time.Time `json:"inward_nova_date,omitempty"`
	InwardMagnovaDate *time.Time `json:"inward_magnova_date,omitempty"`
	DispatchedDate    *time.Time `json:"dispatched_date,omitempty"`
	SoldDate          *time.Time `json:"sold_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

var (
	ErrNotFound      = fmt.Errorf("inventory: device: %w", shared.ErrNotFound)
	ErrDuplicateIMEI = fmt.Errorf("inventory: imei already registered: %w", shared.ErrDuplicate)
	ErrValidation    = fmt.Errorf("inventory: invalid device: %w", shared.ErrValidation)
	ErrForbidden     = fmt.Errorf("inventory: delete requires admin role: %w", shared.ErrForbidden)
)

// ValidStatus reports whether s is a known device status.
func ValidStatus(s string) bool {
	switch s {
	case StatusAtNova, StatusInTransit, StatusAtMagnova, StatusDispatched, StatusSold:
		return true
	}
	return false
}
