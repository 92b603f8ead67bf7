package procurement

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// Procurement is one intake record: a device received from a vendor against
// a purchase order.
type Procurement struct {
	ID            string    `json:"procurement_id"`
	PONumber      string    `json:"po_number"`
	VendorName    string    `json:"vendor_name"`
	StoreLocation string    `json:"store_location,omitempty"`
	IMEI          string    `json:"imei"`
	DeviceModel   string    `json:"device_model"`
	Quantity      int       `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

var (
	ErrNotFound   = fmt.Errorf("procurement: record: %w", shared.ErrNotFound)
	ErrValidation = fmt.Errorf("procurement: invalid record: %w", shared.ErrValidation)
	ErrForbidden  = fmt.Errorf("procurement: delete requires admin role: %w", shared.ErrForbidden)
)
