package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort describes storage operations used by Service.
type RepositoryPort interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

// Repository implements RepositoryPort on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, email, name, organization, role, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.Name, user.Organization, user.Role, user.PasswordHash, user.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT id, email, name, organization, role, password_hash, created_at
FROM users WHERE email = $1`, email))
}

func (r *Repository) GetByID(ctx context.Context, id string) (User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT id, email, name, organization, role, password_hash, created_at
FROM users WHERE id = $1`, id))
}

func (r *Repository) scanOne(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Organization, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
