//go:build integration

package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/catalog"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/db/dbtest"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/logger"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/notification"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/phone"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/user"
)

func seedDirectory(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO public.sellers (id, name) VALUES ($1, 'A'), ($2, 'B')`, sellerA, sellerB)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO public.services (id, seller_id, title) VALUES ($1, $2, 'Haircut')`, serviceA, sellerA)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO public.users (id, phone, display_name) VALUES ($1, $2, 'Sara')`, customerU, "+98 912 345 6789")
	require.NoError(t, err)
}

func pendingAt(clock, customerPhone string) *Booking {
	return &Booking{
		SellerID:      sellerA,
		ServiceLabel:  "Haircut",
		CustomerName:  "Sara",
		CustomerPhone: customerPhone,
		Date:          "2024-03-10",
		Time:          clock,
		Status:        StatusPending,
	}
}

func TestPgxRepositorySlotExclusivity(t *testing.T) {
	pool := dbtest.NewPool(t)
	seedDirectory(t, pool)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	const attempts = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []*Booking
		taken   int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := pendingAt("10:00", phoneOther)
			err := repo.Create(ctx, b)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, b)
			case assert.ErrorIs(t, err, ErrSlotTaken):
				taken++
			}
		}()
	}
	wg.Wait()

	require.Len(t, winners, 1)
	assert.Equal(t, attempts-1, taken)

	// Another seller's identical slot is independent.
	other := pendingAt("10:00", phoneOther)
	other.SellerID = sellerB
	require.NoError(t, repo.Create(ctx, other))

	// Cancelling frees the slot; the cancelled row stays as history.
	_, err := repo.UpdateStatus(ctx, winners[0].ID, sellerA, StatusCancelled)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, pendingAt("10:00", phoneOther)))

	// Re-activating the cancelled row is refused.
	_, err = repo.UpdateStatus(ctx, winners[0].ID, sellerA, StatusPending)
	assert.ErrorIs(t, err, ErrFinalized)

	list, err := repo.List(ctx, Filter{SellerID: sellerA, Date: "2024-03-10"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPgxRepositoryQueries(t *testing.T) {
	pool := dbtest.NewPool(t)
	seedDirectory(t, pool)
	repo := NewPgxRepository(pool)
	ctx := context.Background()

	first := pendingAt("09:00", phonePersian)
	require.NoError(t, repo.Create(ctx, first))
	second := pendingAt("11:00", phoneOther)
	second.Status = StatusConfirmed
	require.NoError(t, repo.Create(ctx, second))

	t.Run("phone pattern matches any digit script", func(t *testing.T) {
		list, err := repo.List(ctx, Filter{PhonePattern: phone.MatchAny(phoneLatin)})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, first.ID, list[0].ID)

		ok, err := repo.Exists(ctx, Filter{PhonePattern: phone.MatchAny("+98 912 345 6789"), Statuses: []Status{StatusPending}})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("newest first", func(t *testing.T) {
		list, err := repo.List(ctx, Filter{SellerID: sellerA})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)

		latest, err := repo.Latest(ctx, Filter{SellerID: sellerA})
		require.NoError(t, err)
		assert.Equal(t, second.ID, latest.ID)
	})

	t.Run("ownership", func(t *testing.T) {
		_, err := repo.UpdateStatus(ctx, first.ID, sellerB, StatusConfirmed)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, first.ID, sellerB), ErrNotFound)
		require.NoError(t, repo.Delete(ctx, first.ID, sellerA))

		_, err = repo.GetByID(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestServiceWithPostgres(t *testing.T) {
	pool := dbtest.NewPool(t)
	seedDirectory(t, pool)
	ctx := context.Background()

	svc := NewService(
		NewPgxRepository(pool),
		catalog.NewDirectory(catalog.NewPgxRepository(pool)),
		user.NewService(user.NewPgxRepository(pool)),
		notification.NewService(notification.NewPgxRepository(pool), nil, logger.Discard()),
		nil,
		allowAll,
		logger.Discard(),
	)

	req := validRequest(phoneLatin, "14:00")
	req.SellerID = ""
	req.ServiceLabel = "ignored"
	req.ServiceID = serviceA
	b, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, sellerA, b.SellerID)
	assert.Equal(t, "Haircut", b.ServiceLabel)

	_, err = svc.SetStatus(ctx, b.ID, sellerA, StatusConfirmed)
	require.NoError(t, err)

	var count int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM public.notifications WHERE user_id = $1 AND booking_id = $2`, customerU, b.ID).Scan(&count))
	assert.Equal(t, 1, count)

	_, err = svc.Create(ctx, validRequest(phoneOther, "14:00"))
	assert.ErrorIs(t, err, ErrSlotTaken)

	times, err := svc.OccupiedTimes(ctx, sellerA, "2024-03-10", Requester{})
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00"}, times)

	// Blocks are stored as the seller typed them.
	_, err = pool.Exec(ctx, `INSERT INTO public.seller_blocks (seller_id, phone) VALUES ($1, $2), ($3, $4)`,
		sellerA, "+98 935 000 1122", sellerB, "۰۹۱۲-۳۴۵-۶۷۸۹")
	require.NoError(t, err)

	_, err = svc.Create(ctx, validRequest(phoneOther, "15:00"))
	assert.ErrorIs(t, err, ErrBlocked)
	_, err = svc.OccupiedTimes(ctx, sellerA, "2024-03-10", Requester{Phone: "۰۹۳۵۰۰۰۱۱۲۲"})
	assert.ErrorIs(t, err, ErrBlocked)

	// A token without a phone claim falls back to the account's phone.
	_, err = svc.OccupiedTimes(ctx, sellerB, "2024-03-10", Requester{UserID: customerU})
	assert.ErrorIs(t, err, ErrBlocked)
	_, err = svc.OccupiedTimes(ctx, sellerA, "2024-03-10", Requester{UserID: customerU})
	assert.NoError(t, err)
}
