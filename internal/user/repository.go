package user

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// FindByPhone returns the oldest account whose stored phone normalizes
	// to the canonical phone.
	FindByPhone(ctx context.Context, phone string) (*User, error)
}

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, phone, display_name, created_at
		FROM public.users
		WHERE id = $1
	`

	var u User
	if err := r.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Phone, &u.DisplayName, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "GetByID query failed")
	}
	return &u, nil
}

func (r *pgxUserRepository) FindByPhone(ctx context.Context, phone string) (*User, error) {
	const query = `
		SELECT id, phone, display_name, created_at
		FROM public.users
		WHERE public.normalize_phone(phone) = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var u User
	if err := r.pool.QueryRow(ctx, query, phone).Scan(&u.ID, &u.Phone, &u.DisplayName, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "FindByPhone query failed")
	}
	return &u, nil
}
