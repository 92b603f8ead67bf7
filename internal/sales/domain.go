package sales

import (
	"fmt"
	"time"

	"github.com/magnova/magnova-procure/internal/shared"
)

// SalesOrder records devices sold to a customer. TotalQuantity always equals
// the number of IMEIs on the order.
type SalesOrder struct {
	ID            string    `json:"sales_order_id"`
	Number        string    `json:"so_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerType  string    `json:"customer_type,omitempty"`
	TotalQuantity int       `json:"total_quantity"`
	TotalAmount   float64   `json:"total_amount"`
	Status        string    `json:"status"`
	IMEIList      []string  `json:"imei_list"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrNotFound        = fmt.Errorf("sales: sales order: %w", shared.ErrNotFound)
	ErrDuplicateNumber = fmt.Errorf("sales: so number taken: %w", shared.ErrDuplicate)
	ErrValidation      = fmt.Errorf("sales: invalid sales order: %w", shared.ErrValidation)
	ErrForbidden       = fmt.Errorf("sales: delete requires admin role: %w", shared.ErrForbidden)
)
