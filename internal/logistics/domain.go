package logistics

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// Shipment statuses.
const (
	StatusPending   = "pending"
	StatusInTransit = "in_transit"
	StatusDelivered = "delivered"
	StatusDelayed   = "delayed"
)

// Shipment tracks a device movement between locations.
type Shipment struct {
	ID               string     `json:"shipment_id"`
	PONumber         string     `json:"po_number,omitempty"`
	TransporterName  string     `json:"transporter_name"`
	VehicleNumber    string     `json:"vehicle_number,omitempty"`
	EwayBillNumber   string     `json:"eway_bill_number,omitempty"`
	FromLocation     string     `json:"from_location"`
	ToLocation       string     `json:"to_location"`
	PickupDate       time.Time  `json:"pickup_date"`
	ExpectedDelivery time.Time  `json:"expected_delivery"`
	ActualDelivery   *time.Time `json:"actual_delivery,omitempty"`
	Status           string     `json:"status"`
	IMEIList         []string   `json:"imei_list"`
	PickupQuantity   int        `json:"pickup_quantity"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

var (
	ErrNotFound   = fmt.Errorf("logistics: shipment: %w", shared.ErrNotFound)
	ErrValidation = fmt.Errorf("logistics: invalid shipment: %w", shared.ErrValidation)
	ErrForbidden  = fmt.Errorf("logistics: delete requires admin role: %w", shared.ErrForbidden)
)

// ValidStatus reports whether s is a known shipment status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusDelayed:
		return true
	}
	return false
}
