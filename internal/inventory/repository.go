package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, d Device) error
	GetByIMEI(ctx context.Context, imei string) (Device, error)
	List(ctx context.Context, status string, limit, offset int) ([]Device, error)
	Update(ctx context.Context, d Device) (bool, error)
	Delete(ctx context.Context, imei string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// Repository implements RepositoryPort on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const deviceColumns = `imei, procurement_id, brand, model, device_model, colour, storage, vendor,
status, current_location, organization, po_number, purchase_price, inward_nova_date,
inward_magnova_date, dispatched_date, sold_date, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, d Device) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO imei_inventory (`+deviceColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		d.IMEI, d.ProcurementID, d.Brand, d.Model, d.DeviceModel, d.Colour, d.Storage, d.Vendor,
		d.Status, d.CurrentLocation, d.Organization, d.PONumber, d.PurchasePrice, d.InwardNovaDate,
		d.InwardMagnovaDate, d.DispatchedDate, d.SoldDate, d.CreatedAt, d.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateIMEI
	}
	return err
}

func (r *Repository) GetByIMEI(ctx context.Context, imei string) (Device, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+deviceColumns+` FROM imei_inventory WHERE imei = $1`, imei)
	d, err := scanDevice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Device{}, ErrNotFound
	}
	return d, err
}

func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM imei_inventory ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	args := []any{limit, offset}
	if status != "" {
		query = `SELECT ` + deviceColumns + ` FROM imei_inventory WHERE status = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, status)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *Repository) Update(ctx context.Context, d Device) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE imei_inventory SET
status = $2, current_location = $3, organization = $4, inward_nova_date = $5,
inward_magnova_date = $6, dispatched_date = $7, sold_date = $8, updated_at = $9
WHERE imei = $1`,
		d.IMEI, d.Status, d.CurrentLocation, d.Organization, d.InwardNovaDate,
		d.InwardMagnovaDate, d.DispatchedDate, d.SoldDate, d.UpdatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Delete(ctx context.Context, imei string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM imei_inventory WHERE imei = $1`, imei)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountByStatus returns device counts keyed by status for the dashboard.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM imei_inventory GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanDevice(row pgx.Row) (Device, error) {
	var d Device
	err := row.Scan(&d.IMEI, &d.ProcurementID, &d.Brand, &d.Model, &d.DeviceModel, &d.Colour,
		&d.Storage, &d.Vendor, &d.Status, &d.CurrentLocation, &d.Organization, &d.PONumber,
		&d.PurchasePrice, &d.InwardNovaDate, &d.InwardMagnovaDate, &d.DispatchedDate, &d.SoldDate,
		&d.CreatedAt, &d.UpdatedAt)
	return d, err
}
