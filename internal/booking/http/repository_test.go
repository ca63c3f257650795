package http

import (
	"context"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/booking"
)

// memoryRepository backs the handler tests. Like the database, it lets at
// most one active booking hold a slot and lists newest first.
type memoryRepository struct {
	mu       sync.Mutex
	bookings []booking.Booking // insertion order
}

var _ booking.Repository = (*memoryRepository)(nil)

func (r *memoryRepository) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.bookings {
		if other.Status.Active() && other.SellerID == b.SellerID && other.Date == b.Date && other.Time == b.Time {
			return booking.ErrSlotTaken
		}
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.index(id, ""); i >= 0 {
		b := r.bookings[i]
		return &b, nil
	}
	return nil, booking.ErrNotFound
}

func (r *memoryRepository) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var re *regexp.Regexp
	if filter.PhonePattern != "" {
		re = regexp.MustCompile(filter.PhonePattern)
	}

	var out []*booking.Booking
	for _, b := range slices.Backward(r.bookings) {
		switch {
		case filter.SellerID != "" && b.SellerID != filter.SellerID,
			re != nil && !re.MatchString(b.CustomerPhone),
			filter.Date != "" && b.Date != filter.Date,
			filter.Time != "" && b.Time != filter.Time,
			len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, b.Status):
			continue
		}
		out = append(out, &b)
	}
	return out, nil
}

func (r *memoryRepository) Exists(ctx context.Context, filter booking.Filter) (bool, error) {
	found, err := r.List(ctx, filter)
	return len(found) > 0, err
}

func (r *memoryRepository) Latest(ctx context.Context, filter booking.Filter) (*booking.Booking, error) {
	found, err := r.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, booking.ErrNotFound
	}
	return found[0], nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id, sellerID string, status booking.Status) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id, sellerID)
	if i < 0 {
		return nil, booking.ErrNotFound
	}
	if r.bookings[i].Status.Terminal() {
		return nil, booking.ErrFinalized
	}
	r.bookings[i].Status = status
	r.bookings[i].UpdatedAt = time.Now().UTC()
	b := r.bookings[i]
	return &b, nil
}

func (r *memoryRepository) Delete(_ context.Context, id, sellerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id, sellerID)
	if i < 0 {
		return booking.ErrNotFound
	}
	r.bookings = slices.Delete(r.bookings, i, i+1)
	return nil
}

// index must be called with r.mu held. An empty sellerID matches any owner.
func (r *memoryRepository) index(id, sellerID string) int {
	return slices.IndexFunc(r.bookings, func(b booking.Booking) bool {
		return b.ID == id && (sellerID == "" || b.SellerID == sellerID)
	})
}
