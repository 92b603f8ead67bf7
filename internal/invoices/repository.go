package invoices

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, inv Invoice) error
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, limit, offset int) ([]Invoice, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Repository implements RepositoryPort on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invoiceColumns = `id, invoice_number, invoice_type, po_number, from_organization, to_organization,
amount, gst_amount, gst_percentage, total_amount, imei_list, invoice_date, payment_status,
description, billing_address, shipping_address, created_by, created_at`

func (r *Repository) Create(ctx context.Context, inv Invoice) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO invoices (`+invoiceColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		inv.ID, inv.Number, inv.Type, inv.PONumber, inv.FromOrg, inv.ToOrg,
		inv.Amount, inv.GSTAmount, inv.GSTPercentage, inv.TotalAmount, inv.IMEIList, inv.InvoiceDate,
		inv.PaymentStatus, inv.Description, inv.BillingAddress, inv.ShippingAddress, inv.CreatedBy, inv.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateNumber
	}
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	return inv, err
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.Type, &inv.PONumber, &inv.FromOrg, &inv.ToOrg,
		&inv.Amount, &inv.GSTAmount, &inv.GSTPercentage, &inv.TotalAmount, &inv.IMEIList,
		&inv.InvoiceDate, &inv.PaymentStatus, &inv.Description, &inv.BillingAddress,
		&inv.ShippingAddress, &inv.CreatedBy, &inv.CreatedAt)
	return inv, err
}
