package booking

import (
	"net/http"
	"time"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrServiceNotFound   = apperror.New(http.StatusNotFound, "service not found")
	ErrSellerNotFound    = apperror.New(http.StatusNotFound, "seller not found")
	ErrMissingFields     = apperror.New(http.StatusBadRequest, "customer name, phone, date, time and a service are required")
	ErrDateRequired      = apperror.New(http.StatusBadRequest, "date is required")
	ErrPhoneRequired     = apperror.New(http.StatusBadRequest, "phone is required")
	ErrInvalidPhone      = apperror.New(http.StatusBadRequest, "invalid phone number")
	ErrInvalidID         = apperror.New(http.StatusBadRequest, "invalid identifier")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidTransition = apperror.New(http.StatusBadRequest, "invalid status transition")
	ErrFinalized         = apperror.New(http.StatusBadRequest, "booking is already finalized")
	ErrBlocked           = apperror.New(http.StatusForbidden, "you are blocked by this seller")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrSlotTaken         = apperror.New(http.StatusConflict, "this time slot is already booked")
	ErrPendingExists     = apperror.New(http.StatusConflict, "you already have a pending booking request")
	ErrTooManyRequests   = apperror.New(http.StatusTooManyRequests, "too many booking requests, try again later")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"

	// StatusNone is reported by LatestStatus when a phone has no bookings at all.
	// It is never stored.
	StatusNone Status = "none"
)

// transitions lists the legal edges of the lifecycle. Nothing returns to pending.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// ActiveStatuses occupy a slot.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

// TerminalStatuses reject further mutation.
var TerminalStatuses = []Status{StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the four stored statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking reserves a single (seller, date, time) cell.
// Date and Time are opaque tokens compared only for equality.
type Booking struct {
	ID            string
	SellerID      string
	ServiceID     *string
	ServiceLabel  string
	CustomerName  string
	CustomerPhone string
	Date          string
	Time          string
	Status        Status
	UserID        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter narrows repository reads. Empty fields are ignored.
// PhonePattern is a phone.MatchAny pattern, never a raw phone.
type Filter struct {
	SellerID     string
	PhonePattern string
	Date         string
	Time         string
	Statuses     []Status
}
