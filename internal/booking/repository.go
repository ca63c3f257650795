package booking

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/pkg/apperror"
)

// SlotConstraint is the partial unique index over active (seller_id, date, time).
const SlotConstraint = "bookings_active_slot_key"

type Repository interface {
	// Create inserts b and fills its ID and timestamps. A collision on the
	// active-slot index is reported as ErrSlotTaken.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// List returns matching bookings, newest first.
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	Exists(ctx context.Context, filter Filter) (bool, error)
	// Latest returns the most recently created match, or ErrNotFound.
	Latest(ctx context.Context, filter Filter) (*Booking, error)
	// UpdateStatus writes status unless the stored booking is terminal.
	// An empty sellerID skips the ownership filter.
	UpdateStatus(ctx context.Context, id, sellerID string, status Status) (*Booking, error)
	// Delete removes the booking. An empty sellerID skips the ownership filter.
	Delete(ctx context.Context, id, sellerID string) error
}

var bookingColumns = []string{
	"id", "seller_id", "service_id", "service_label", "customer_name", "customer_phone",
	"date", "time", "status", "user_id", "created_at", "updated_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("seller_id", "service_id", "service_label", "customer_name", "customer_phone",
			"date", "time", "status", "user_id").
		Values(b.SellerID, b.ServiceID, b.ServiceLabel, b.CustomerName, b.CustomerPhone,
			b.Date, b.Time, b.Status, b.UserID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build create booking query failed")
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == SlotConstraint {
			return apperror.Wrap(ErrSlotTaken, err)
		}
		return errors.Wrap(err, "create booking failed")
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get booking query failed")
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get booking failed")
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	query, args, err := applyFilter(psql.Select(bookingColumns...).From("public.bookings"), filter).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list bookings query failed")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings failed")
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan booking failed")
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate bookings failed")
	}
	return bookings, nil
}

func (r *pgxRepository) Exists(ctx context.Context, filter Filter) (bool, error) {
	sub, args, err := applyFilter(psql.Select("1").From("public.bookings"), filter).ToSql()
	if err != nil {
		return false, errors.Wrap(err, "build exists query failed")
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check booking exists failed")
	}
	return exists, nil
}

func (r *pgxRepository) Latest(ctx context.Context, filter Filter) (*Booking, error) {
	query, args, err := applyFilter(psql.Select(bookingColumns...).From("public.bookings"), filter).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build latest booking query failed")
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get latest booking failed")
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id, sellerID string, status Status) (*Booking, error) {
	q := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": TerminalStatuses})
	if sellerID != "" {
		q = q.Where(squirrel.Eq{"seller_id": sellerID})
	}
	query, args, err := q.Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build update booking status query failed")
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == SlotConstraint {
			return nil, apperror.Wrap(ErrSlotTaken, err)
		}
		return nil, errors.Wrap(err, "update booking status failed")
	}

	// Nothing matched: tell "missing or not yours" apart from "already finalized".
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sellerID != "" && current.SellerID != sellerID {
		return nil, ErrNotFound
	}
	if current.Status.Terminal() {
		return nil, ErrFinalized
	}
	return nil, ErrNotFound
}

func (r *pgxRepository) Delete(ctx context.Context, id, sellerID string) error {
	q := psql.Delete("public.bookings").Where(squirrel.Eq{"id": id})
	if sellerID != "" {
		q = q.Where(squirrel.Eq{"seller_id": sellerID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete booking query failed")
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete booking failed")
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func applyFilter(q squirrel.SelectBuilder, filter Filter) squirrel.SelectBuilder {
	if filter.SellerID != "" {
		q = q.Where(squirrel.Eq{"seller_id": filter.SellerID})
	}
	if filter.PhonePattern != "" {
		// Stored phones may use any digit script, so match instead of comparing.
		q = q.Where(squirrel.Expr("customer_phone ~ ?", filter.PhonePattern))
	}
	if filter.Date != "" {
		q = q.Where(squirrel.Eq{"date": filter.Date})
	}
	if filter.Time != "" {
		q = q.Where(squirrel.Eq{"time": filter.Time})
	}
	if len(filter.Statuses) > 0 {
		q = q.Where(squirrel.Eq{"status": filter.Statuses})
	}
	return q
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.SellerID, &b.ServiceID, &b.ServiceLabel, &b.CustomerName, &b.CustomerPhone,
		&b.Date, &b.Time, &b.Status, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
