package procurement

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, p Procurement) error
	Get(ctx context.Context, id string) (Procurement, error)
	List(ctx context.Context, limit, offset int) ([]Procurement, error)
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

const procurementColumns = `id, po_number, vendor_name, store_location, imei, device_model, quantity,
purchase_price, created_by, created_at`

func (r *Repository) Create(ctx context.Context, p Procurement) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO procurements (`+procurementColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.PONumber, p.VendorName, p.StoreLocation, p.IMEI, p.DeviceModel, p.Quantity,
		p.PurchasePrice, p.CreatedBy, p.CreatedAt)
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (Procurement, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+procurementColumns+` FROM procurements WHERE id = $1`, id)
	p, err := scanProcurement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Procurement{}, ErrNotFound
	}
	return p, err
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Procurement, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+procurementColumns+` FROM procurements
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []Procurement
	for rows.Next() {
		p, err := scanProcurement(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM procurements WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanProcurement(row pgx.Row) (Procurement, error) {
	var p Procurement
	err := row.Scan(&p.ID, &p.PONumber, &p.VendorName, &p.StoreLocation, &p.IMEI, &p.DeviceModel,
		&p.Quantity, &p.PurchasePrice, &p.CreatedBy, &p.CreatedAt)
	return p, err
}
