package http

import (
	"time"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/booking"
)

type BookingResponse struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"sellerId"`
	ServiceID     *string   `json:"serviceId,omitempty"`
	Service       string    `json:"service"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	UserID        *string   `json:"userId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		SellerID:      b.SellerID,
		ServiceID:     b.ServiceID,
		Service:       b.ServiceLabel,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Date:          b.Date,
		Time:          b.Time,
		Status:        string(b.Status),
		UserID:        b.UserID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func newBookingResponses(list []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(list))
	for i, b := range list {
		items[i] = NewBookingResponse(b)
	}
	return items
}

// CreateBookingRequest carries no binding rules: the service reports
// missing and malformed fields in a fixed order.
type CreateBookingRequest struct {
	ServiceID     string `json:"serviceId"`
	SellerID      string `json:"sellerId"`
	Service       string `json:"service"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

type CreateBookingResponse struct {
	Booking BookingResponse `json:"booking"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type BookedSlotsRequest struct {
	SellerID string `uri:"sellerId" binding:"required"`
}

type BookedSlotsResponse struct {
	Times []string `json:"times"`
}

// ListSellerBookingsRequest defines query parameters for a seller's own listing.
type ListSellerBookingsRequest struct {
	Status string `form:"status"`
	Date   string `form:"date"`
}
