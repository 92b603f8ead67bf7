package payments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRepository is the slice of the repository visible inside a transaction.
type TxRepository interface {
	Insert(ctx context.Context, p Payment) error
	SumByType(ctx context.Context, poNumber string) (internal, external float64, err error)
}

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Insert(ctx context.Context, p Payment) error
	Get(ctx context.Context, id string) (Payment, error)
	List(ctx context.Context, paymentType string) ([]Payment, error)
	SumByType(ctx context.Context, poNumber string) (internal, external float64, err error)
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

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const paymentColumns = `id, po_number, payment_type, payee_name, payee_account, payee_bank, payee_type,
payee_phone, account_number, ifsc_code, location, payment_mode, amount, transaction_ref, utr_number,
payment_date, status, created_by, created_at`

// WithTx runs fn inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) Insert(ctx context.Context, p Payment) error {
	return insertPayment(ctx, r.pool, p)
}

func (r *Repository) Get(ctx context.Context, id string) (Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, ErrNotFound
	}
	return p, err
}

// List returns payments newest first. An empty paymentType returns every row,
// including legacy rows with no type tag.
func (r *Repository) List(ctx context.Context, paymentType string) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`
	args := []any{}
	if paymentType != "" {
		query = `SELECT ` + paymentColumns + ` FROM payments WHERE payment_type = $1 ORDER BY created_at DESC`
		args = append(args, paymentType)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *Repository) SumByType(ctx context.Context, poNumber string) (float64, float64, error) {
	return sumByType(ctx, r.pool, poNumber)
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) Insert(ctx context.Context, p Payment) error {
	return insertPayment(ctx, t.tx, p)
}

func (t *txRepository) SumByType(ctx context.Context, poNumber string) (float64, float64, error) {
	return sumByType(ctx, t.tx, poNumber)
}

func insertPayment(ctx context.Context, q querier, p Payment) error {
	_, err := q.Exec(ctx, `INSERT INTO payments (`+paymentColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		p.ID, p.PONumber, p.Type, p.PayeeName, p.PayeeAccount, p.PayeeBank, p.PayeeType,
		p.PayeePhone, p.AccountNumber, p.IFSCCode, p.Location, p.PaymentMode, p.Amount,
		p.TransactionRef, p.UTRNumber, p.PaymentDate, p.Status, p.CreatedBy, p.CreatedAt)
	return err
}

func sumByType(ctx context.Context, q querier, poNumber string) (float64, float64, error) {
	var internal, external float64
	err := q.QueryRow(ctx, `SELECT
COALESCE(SUM(amount) FILTER (WHERE payment_type = $2), 0),
COALESCE(SUM(amount) FILTER (WHERE payment_type = $3), 0)
FROM payments WHERE po_number = $1`, poNumber, TypeInternal, TypeExternal).Scan(&internal, &external)
	return internal, external, err
}

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.PONumber, &p.Type, &p.PayeeName, &p.PayeeAccount, &p.PayeeBank,
		&p.PayeeType, &p.PayeePhone, &p.AccountNumber, &p.IFSCCode, &p.Location, &p.PaymentMode,
		&p.Amount, &p.TransactionRef, &p.UTRNumber, &p.PaymentDate, &p.Status, &p.CreatedBy, &p.CreatedAt)
	return p, err
}
