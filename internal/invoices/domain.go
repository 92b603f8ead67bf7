package invoices

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// Invoice is a GST bill between the two organizations or toward a customer.
// TotalAmount is always Amount + GSTAmount.
type Invoice struct {
	ID              string    `json:"invoice_id"`
	Number          string    `json:"invoice_number"`
	Type            string    `json:"invoice_type,omitempty"`
	PONumber        string    `json:"po_number,omitempty"`
	FromOrg         string    `json:"from_organization"`
	ToOrg           string    `json:"to_organization"`
	Amount          float64   `json:"amount"`
	GSTAmount       float64   `json:"gst_amount"`
	GSTPercentage   float64   `json:"gst_percentage"`
	TotalAmount     float64   `json:"total_amount"`
	IMEIList        []string  `json:"imei_list"`
	InvoiceDate     time.Time `json:"invoice_date"`
	PaymentStatus   string    `json:"payment_status"`
	Description     string    `json:"description,omitempty"`
	BillingAddress  string    `json:"billing_address,omitempty"`
	ShippingAddress string    `json:"shipping_address,omitempty"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

var (
	ErrNotFound        = fmt.Errorf("invoices: invoice: %w", shared.ErrNotFound)
	ErrDuplicateNumber = fmt.Errorf("invoices: invoice number taken: %w", shared.ErrDuplicate)
	ErrValidation      = fmt.Errorf("invoices: invalid invoice: %w", shared.ErrValidation)
	ErrForbidden       = fmt.Errorf("invoices: delete requires admin role: %w", shared.ErrForbidden)
)
