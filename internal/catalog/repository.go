package catalog

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads the seller catalog. Catalog CRUD lives elsewhere; the
// booking core only needs lookups and the seller block list.
type Repository interface {
	GetService(ctx context.Context, id string) (*Service, error)
	GetSeller(ctx context.Context, id string) (*Seller, error)
	// IsBlocked reports whether the seller blocked the account userID or the
	// canonical phone. Empty arguments are not checked.
	IsBlocked(ctx context.Context, sellerID, userID, phone string) (bool, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetService(ctx context.Context, id string) (*Service, error) {
	const query = `
		SELECT id, seller_id, title, created_at
		FROM public.services
		WHERE id = $1
	`
	var s Service
	if err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.SellerID, &s.Title, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, errors.Wrap(err, "get service failed")
	}
	return &s, nil
}

func (r *pgxRepository) GetSeller(ctx context.Context, id string) (*Seller, error) {
	const query = `
		SELECT id, name, created_at
		FROM public.sellers
		WHERE id = $1
	`
	var s Seller
	if err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSellerNotFound
		}
		return nil, errors.Wrap(err, "get seller failed")
	}
	return &s, nil
}

func (r *pgxRepository) IsBlocked(ctx context.Context, sellerID, userID, phone string) (bool, error) {
	who := squirrel.Or{}
	if userID != "" {
		who = append(who, squirrel.Eq{"user_id": userID})
	}
	if phone != "" {
		who = append(who, squirrel.Expr("public.normalize_phone(phone) = ?", phone))
	}
	if len(who) == 0 {
		return false, nil
	}

	sub, args, err := psql.Select("1").
		From("public.seller_blocks").
		Where(squirrel.Eq{"seller_id": sellerID}).
		Where(who).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "build block check query failed")
	}

	var blocked bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&blocked); err != nil {
		return false, errors.Wrap(err, "check seller block failed")
	}
	return blocked, nil
}
