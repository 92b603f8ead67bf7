package purchase

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// PO lifecycle statuses.
const (
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusCompleted       = "completed"
)

// Approval decision states. The approval action moves a PO out of
// ApprovalPending exactly once.
const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// LineItem is a single row on a purchase order. POValue is always qty*rate,
// recomputed server-side.
type LineItem struct {
	SlNo     int     `json:"sl_no"`
	Vendor   string  `json:"vendor"`
	Location string  `json:"location"`
	Brand    string  `json:"brand"`
	Model    string  `json:"model"`
	Storage  string  `json:"storage,omitempty"`
	Colour   string  `json:"colour,omitempty"`
	IMEI     string  `json:"imei,omitempty"`
	Qty      int     `json:"qty"`
	Rate     float64 `json:"rate"`
	POValue  float64 `json:"po_value"`
}

// PurchaseOrder is the ledger record. TotalQuantity and TotalValue are sums
// over Items and are never mutated independently.
type PurchaseOrder struct {
	ID              string     `json:"po_id"`
	Number          string     `json:"po_number"`
	Date            time.Time  `json:"po_date"`
	PurchaseOffice  string     `json:"purchase_office"`
	CreatedBy       string     `json:"created_by"`
	CreatedByName   string     `json:"created_by_name"`
	Organization    string     `json:"organization"`
	Status          string     `json:"status"`
	TotalQuantity   int        `json:"total_quantity"`
	TotalValue      float64    `json:"total_value"`
	Items           []LineItem `json:"items"`
	Notes           string     `json:"notes,omitempty"`
	ApprovalStatus  string     `json:"approval_status"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

var (
	ErrNotFound        = fmt.Errorf("purchase: purchase order: %w", shared.ErrNotFound)
	ErrDuplicateNumber = fmt.Errorf("purchase: po number taken: %w", shared.ErrDuplicate)
	ErrValidation      = fmt.Errorf("purchase: invalid purchase order: %w", shared.ErrValidation)
	ErrAlreadyDecided  = fmt.Errorf("purchase: purchase order already approved or rejected: %w", shared.ErrInvalidState)
	ErrForbidden       = fmt.Errorf("purchase: delete requires admin role: %w", shared.ErrForbidden)
)
