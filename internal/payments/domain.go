package payments

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// Payment direction. Legacy rows carry an empty type; they only appear in
// unfiltered listings.
const (
	TypeInternal = "internal"
	TypeExternal = "external"
)

// External payee kinds.
const (
	PayeeVendor = "vendor"
	PayeeCC     = "cc"
)

// StatusCompleted is the default status stamped on new payments.
const StatusCompleted = "Completed"

// Payment is a fund movement against a purchase order. Internal rows move
// money between the two organizations; external rows disburse it onward.
type Payment struct {
	ID             string    `json:"payment_id"`
	PONumber       string    `json:"po_number"`
	Type           string    `json:"payment_type"`
	PayeeName      string    `json:"payee_name,omitempty"`
	PayeeAccount   string    `json:"payee_account,omitempty"`
	PayeeBank      string    `json:"payee_bank,omitempty"`
	PayeeType      string    `json:"payee_type,omitempty"`
	PayeePhone     string    `json:"payee_phone,omitempty"`
	AccountNumber  string    `json:"account_number,omitempty"`
	IFSCCode       string    `json:"ifsc_code,omitempty"`
	Location       string    `json:"location,omitempty"`
	PaymentMode    string    `json:"payment_mode,omitempty"`
	Amount         float64   `json:"amount"`
	TransactionRef string    `json:"transaction_ref,omitempty"`
	UTRNumber      string    `json:"utr_number,omitempty"`
	PaymentDate    time.Time `json:"payment_date"`
	Status         string    `json:"status"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary is the derived reconciliation view for one PO. Never stored,
// always recomputed.
type Summary struct {
	PONumber          string  `json:"po_number"`
	InternalPaid      float64 `json:"internal_paid"`
	ExternalPaid      float64 `json:"external_paid"`
	ExternalRemaining float64 `json:"external_remaining"`
}

var (
	ErrNotFound    = fmt.Errorf("payments: payment: %w", shared.ErrNotFound)
	ErrUnknownPO   = fmt.Errorf("payments: purchase order not found: %w", shared.ErrNotFound)
	ErrValidation  = fmt.Errorf("payments: invalid payment: %w", shared.ErrValidation)
	ErrCapExceeded = fmt.Errorf("payments: external payments cannot exceed internal payments for this purchase order: %w", shared.ErrLimitExceeded)
	ErrForbidden   = fmt.Errorf("payments: delete requires admin role: %w", shared.ErrForbidden)
)
