package logistics

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, s Shipment) error
	Get(ctx context.Context, id string) (Shipment, error)
	List(ctx context.Context, status string, limit, offset int) ([]Shipment, error)
	UpdateStatus(ctx context.Context, s Shipment) (bool, error)
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

const shipmentColumns = `id, po_number, transporter_name, vehicle_number, eway_bill_number,
from_location, to_location, pickup_date, expected_delivery, actual_delivery, status, imei_list,
pickup_quantity, created_by, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, s Shipment) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO logistics_shipments (`+shipmentColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		s.ID, s.PONumber, s.TransporterName, s.VehicleNumber, s.EwayBillNumber,
		s.FromLocation, s.ToLocation, s.PickupDate, s.ExpectedDelivery, s.ActualDelivery, s.Status,
		s.IMEIList, s.PickupQuantity, s.CreatedBy, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (Shipment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM logistics_shipments WHERE id = $1`, id)
	s, err := scanShipment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shipment{}, ErrNotFound
	}
	return s, err
}

func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM logistics_shipments ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	args := []any{limit, offset}
	if status != "" {
		query = `SELECT ` + shipmentColumns + ` FROM logistics_shipments WHERE status = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, status)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var shipments []Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}
	return shipments, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, s Shipment) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE logistics_shipments
SET status = $2, actual_delivery = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.Status, s.ActualDelivery, s.UpdatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM logistics_shipments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanShipment(row pgx.Row) (Shipment, error) {
	var s Shipment
	err := row.Scan(&s.ID, &s.PONumber, &s.TransporterName, &s.VehicleNumber, &s.EwayBillNumber,
		&s.FromLocation, &s.ToLocation, &s.PickupDate, &s.ExpectedDelivery, &s.ActualDelivery,
		&s.Status, &s.IMEIList, &s.PickupQuantity, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
