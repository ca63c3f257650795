package notification

import (
	"errors"
	"time"
)

var (
	ErrUserRequired  = errors.New("notification user is required")
	ErrTitleRequired = errors.New("notification title is required")
	ErrTypeRequired  = errors.New("notification type is required")
)

// Notification is an in-app message addressed to one account.
type Notification struct {
	ID     string
	UserID string
	// Type names the event and doubles as the broker routing key.
	Type      string
	BookingID *string
	Title     string
	Message   string
	CreatedAt time.Time
}

// Event is the payload published to the message broker.
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	BookingID string    `json:"booking_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

const EventBookingConfirmed = "booking.confirmed"
