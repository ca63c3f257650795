package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is a customer or seller account as seen by the booking core.
// Phone is stored as typed at signup; lookups compare its normalized form.
type User struct {
	ID          string // UUID
	Phone       string
	DisplayName *string
	CreatedAt   time.Time
}
