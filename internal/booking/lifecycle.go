package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/notification"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/phone"
)

const notifyTimeout = 5 * time.Second

// SetStatus moves a seller's booking along the lifecycle.
// Confirmation notifies the customer on a best-effort basis.
func (s *service) SetStatus(ctx context.Context, id, sellerID string, status Status) (*Booking, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Someone else's booking is reported exactly like a missing one.
	if current.SellerID != sellerID {
		return nil, ErrNotFound
	}
	if current.Status.Terminal() {
		return nil, ErrFinalized
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	// The repository refuses to overwrite a terminal status, so a concurrent
	// completion or cancellation wins over this write.
	b, err := s.repo.UpdateStatus(ctx, id, sellerID, status)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "booking status changed",
		slog.String("booking_id", b.ID),
		slog.String("seller_id", b.SellerID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(b.Status)),
	)

	if b.Status == StatusConfirmed {
		s.notifyConfirmed(ctx, b)
	}
	return b, nil
}

// Cancel is the customer-facing cancellation. It has no ownership check.
// Cancelling an already cancelled booking returns it unchanged.
func (s *service) Cancel(ctx context.Context, id string) (*Booking, error) {
	if !s.opts.AllowAnonymousCancel {
		return nil, ErrPermissionDenied
	}
	if !validID(id) {
		return nil, ErrInvalidID
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case StatusCancelled:
		return current, nil
	case StatusCompleted:
		return nil, ErrFinalized
	}

	b, err := s.repo.UpdateStatus(ctx, id, "", StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrFinalized) {
			// Lost a race; report what is stored now.
			return s.repo.GetByID(ctx, id)
		}
		return nil, err
	}
	s.log.InfoContext(ctx, "booking cancelled by customer", slog.String("booking_id", b.ID))
	return b, nil
}

// Delete hard-deletes a booking owned by sellerID.
func (s *service) Delete(ctx context.Context, id, sellerID string) error {
	if !validID(id) {
		return ErrInvalidID
	}
	if !validID(sellerID) {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id, sellerID)
}

// DeleteByID hard-deletes by id alone for the legacy customer flow.
func (s *service) DeleteByID(ctx context.Context, id string) error {
	if !s.opts.AllowAnonymousDelete {
		return ErrPermissionDenied
	}
	if !validID(id) {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id, "")
}

// LatestStatus reports pending when any pending booking exists for the phone,
// even if a newer non-pending one exists. Otherwise it reports the status of
// the newest booking, or StatusNone.
func (s *service) LatestStatus(ctx context.Context, rawPhone string) (Status, error) {
	pattern := phone.MatchAny(rawPhone)
	if pattern == "" {
		return StatusNone, nil
	}

	pending, err := s.repo.Exists(ctx, Filter{PhonePattern: pattern, Statuses: []Status{StatusPending}})
	if err != nil {
		return "", err
	}
	if pending {
		return StatusPending, nil
	}

	latest, err := s.repo.Latest(ctx, Filter{PhonePattern: pattern})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return StatusNone, nil
		}
		return "", err
	}
	return latest.Status, nil
}

// notifyConfirmed never fails the caller; problems are logged and dropped.
func (s *service) notifyConfirmed(ctx context.Context, b *Booking) {
	if s.accounts == nil || s.notifier == nil {
		return
	}
	log := s.log.With(slog.String("booking_id", b.ID))

	// Detach from the request so a client hanging up does not cut the notice short.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	account, err := s.accounts.FindByPhone(ctx, b.CustomerPhone)
	if err != nil {
		log.WarnContext(ctx, "confirmation notice skipped: customer account not resolved", slog.String("error", err.Error()))
		return
	}

	bookingID := b.ID
	n := &notification.Notification{
		UserID:    account.ID,
		Type:      notification.EventBookingConfirmed,
		BookingID: &bookingID,
		Title:     "Booking confirmed",
		Message:   confirmationMessage(b),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.WarnContext(ctx, "confirmation notice failed", slog.String("error", err.Error()))
	}
}

func confirmationMessage(b *Booking) string {
	msg := "Your booking on " + b.Date + " at " + b.Time
	if b.ServiceLabel != "" {
		msg += " for " + b.ServiceLabel
	}
	return msg + " has been confirmed."
}
