package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, so SalesOrder) error
	Get(ctx context.Context, id string) (SalesOrder, error)
	List(ctx context.Context, limit, offset int) ([]SalesOrder, error)
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

const salesColumns = `id, so_number, customer_name, customer_type, total_quantity, total_amount,
status, imei_list, created_by, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, so SalesOrder) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sales_orders (`+salesColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		so.ID, so.Number, so.CustomerName, so.CustomerType, so.TotalQuantity, so.TotalAmount,
		so.Status, so.IMEIList, so.CreatedBy, so.CreatedAt, so.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateNumber
	}
	return err
}

func (r *Repository) Get(ctx context.Context, id string) (SalesOrder, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+salesColumns+` FROM sales_orders WHERE id = $1`, id)
	so, err := scanSalesOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SalesOrder{}, ErrNotFound
	}
	return so, err
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]SalesOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+salesColumns+` FROM sales_orders
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []SalesOrder
	for rows.Next() {
		so, err := scanSalesOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, so)
	}
	return orders, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales_orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanSalesOrder(row pgx.Row) (SalesOrder, error) {
	var so SalesOrder
	err := row.Scan(&so.ID, &so.Number, &so.CustomerName, &so.CustomerType, &so.TotalQuantity,
		&so.TotalAmount, &so.Status, &so.IMEIList, &so.CreatedBy, &so.CreatedAt, &so.UpdatedAt)
	return so, err
}
