package booking

import (
	"context"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a process-local Repository. It enforces the same
// active-slot uniqueness as the database index, atomically with the insert.
type MemoryRepository struct {
	mu       sync.Mutex
	seq      int64
	bookings map[string]*memRecord
	now      func() time.Time
}

type memRecord struct {
	seq     int64
	booking Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings: make(map[string]*memRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.Status.Active() && r.slotTaken(b.SellerID, b.Date, b.Time, "") {
		return ErrSlotTaken
	}

	r.seq++
	now := r.now()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.bookings[b.ID] = &memRecord{seq: r.seq, booking: *b}
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	b := rec.booking
	return &b, nil
}

func (r *MemoryRepository) List(_ context.Context, filter Filter) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.match(filter)
}

func (r *MemoryRepository) Exists(_ context.Context, filter Filter) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found, err := r.match(filter)
	return len(found) > 0, err
}

func (r *MemoryRepository) Latest(_ context.Context, filter Filter) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found, err := r.match(filter)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id, sellerID string, status Status) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.bookings[id]
	if !ok || (sellerID != "" && rec.booking.SellerID != sellerID) {
		return nil, ErrNotFound
	}
	if rec.booking.Status.Terminal() {
		return nil, ErrFinalized
	}
	if status.Active() && !rec.booking.Status.Active() && r.slotTaken(rec.booking.SellerID, rec.booking.Date, rec.booking.Time, id) {
		return nil, ErrSlotTaken
	}

	rec.booking.Status = status
	rec.booking.UpdatedAt = r.now()
	b := rec.booking
	return &b, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, sellerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.bookings[id]
	if !ok || (sellerID != "" && rec.booking.SellerID != sellerID) {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *MemoryRepository) slotTaken(sellerID, date, clock, excludeID string) bool {
	for id, rec := range r.bookings {
		b := rec.booking
		if id != excludeID && b.Status.Active() && b.SellerID == sellerID && b.Date == date && b.Time == clock {
			return true
		}
	}
	return false
}

// match must be called with r.mu held.
func (r *MemoryRepository) match(filter Filter) ([]*Booking, error) {
	var re *regexp.Regexp
	if filter.PhonePattern != "" {
		var err error
		if re, err = regexp.Compile(filter.PhonePattern); err != nil {
			return nil, err
		}
	}

	var recs []*memRecord
	for _, rec := range r.bookings {
		b := rec.booking
		switch {
		case filter.SellerID != "" && b.SellerID != filter.SellerID,
			re != nil && !re.MatchString(b.CustomerPhone),
			filter.Date != "" && b.Date != filter.Date,
			filter.Time != "" && b.Time != filter.Time,
			len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, b.Status):
			continue
		}
		recs = append(recs, rec)
	}

	slices.SortFunc(recs, func(a, b *memRecord) int {
		if c := b.booking.CreatedAt.Compare(a.booking.CreatedAt); c != 0 {
			return c
		}
		return int(b.seq - a.seq)
	})

	out := make([]*Booking, len(recs))
	for i, rec := range recs {
		b := rec.booking
		out[i] = &b
	}
	return out, nil
}
