package catalog

import (
	"errors"
	"time"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrSellerNotFound  = errors.New("seller not found")
)

// Seller owns services and the slots they are booked into.
type Seller struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Service is a catalog entry. Its title and owner are authoritative for bookings made against it.
type Service struct {
	ID        string
	SellerID  string
	Title     string
	CreatedAt time.Time
}
