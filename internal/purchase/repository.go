package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, po PurchaseOrder) error
	GetByNumber(ctx context.Context, number string) (PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]PurchaseOrder, error)
	SetApproval(ctx context.Context, number, approvalStatus, status, approvedBy, reason string, decidedAt time.Time) (bool, error)
	Delete(ctx context.Context, number string) (bool, error)
	Exists(ctx context.Context, number string) (bool, error)
}

// Repository implements RepositoryPort on PostgreSQL. Line items live in a
// jsonb column alongside the header.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const poColumns = `id, po_number, po_date, purchase_office, created_by, created_by_name, organization,
status, total_quantity, total_value, items, notes, approval_status, approved_by, approved_at,
rejection_reason, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, po PurchaseOrder) error {
	items, err := json.Marshal(po.Items)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO purchase_orders (`+poColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		po.ID, po.Number, po.Date, po.PurchaseOffice, po.CreatedBy, po.CreatedByName, po.Organization,
		po.Status, po.TotalQuantity, po.TotalValue, items, po.Notes, po.ApprovalStatus, po.ApprovedBy,
		po.ApprovedAt, po.RejectionReason, po.CreatedAt, po.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateNumber
	}
	return err
}

func (r *Repository) GetByNumber(ctx context.Context, number string) (PurchaseOrder, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE po_number = $1`, number)
	po, err := scanPO(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, ErrNotFound
	}
	return po, err
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]PurchaseOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+poColumns+` FROM purchase_orders
ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pos []PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, err
		}
		pos = append(pos, po)
	}
	return pos, rows.Err()
}

// SetApproval flips the decision only when the PO is still pending. The bool
// reports whether a row changed.
func (r *Repository) SetApproval(ctx context.Context, number, approvalStatus, status, approvedBy, reason string, decidedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE purchase_orders
SET approval_status = $2, status = $3, approved_by = $4, rejection_reason = $5, approved_at = $6, updated_at = $6
WHERE po_number = $1 AND approval_status = $7`,
		number, approvalStatus, status, approvedBy, reason, decidedAt, ApprovalPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Delete(ctx context.Context, number string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM purchase_orders WHERE po_number = $1`, number)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) Exists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE po_number = $1)`, number).Scan(&exists)
	return exists, err
}

func scanPO(row pgx.Row) (PurchaseOrder, error) {
	var po PurchaseOrder
	var items []byte
	err := row.Scan(&po.ID, &po.Number, &po.Date, &po.PurchaseOffice, &po.CreatedBy, &po.CreatedByName,
		&po.Organization, &po.Status, &po.TotalQuantity, &po.TotalValue, &items, &po.Notes,
		&po.ApprovalStatus, &po.ApprovedBy, &po.ApprovedAt, &po.RejectionReason, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &po.Items); err != nil {
			return PurchaseOrder{}, err
		}
	}
	return po, nil
}
