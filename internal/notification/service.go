package notification

import (
	"context"
	"log/slog"
	"strings"
)

// Service delivers notifications to accounts.
type Service interface {
	Notify(ctx context.Context, n *Notification) error
}

type service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// NewService stores notifications through repo and, when publisher is not
// nil, also publishes them as events.
func NewService(repo Repository, publisher Publisher, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{repo: repo, publisher: publisher, log: log}
}

func (s *service) Notify(ctx context.Context, n *Notification) error {
	if strings.TrimSpace(n.UserID) == "" {
		return ErrUserRequired
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(n.Type) == "" {
		return ErrTypeRequired
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	e := Event{
		Type:      n.Type,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if n.BookingID != nil {
		e.BookingID = *n.BookingID
	}
	// The stored row is the delivery of record; the broker copy is best effort.
	if err := s.publisher.Publish(ctx, e.Type, e); err != nil {
		s.log.WarnContext(ctx, "publish notification event failed",
			slog.String("notification_id", n.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}
