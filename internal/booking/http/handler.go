package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/auth"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/booking"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/pkg/request"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

//
// POST /bookings
//

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req := booking.CreateRequest{
		ServiceID:     body.ServiceID,
		SellerID:      body.SellerID,
		ServiceLabel:  body.Service,
		CustomerName:  body.CustomerName,
		CustomerPhone: body.CustomerPhone,
		Date:          body.Date,
		Time:          body.Time,
		UserID:        auth.GetUserID(c),
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateBookingResponse{Booking: NewBookingResponse(b)})
}

//
// GET /bookings?phone=
//

func (h *Handler) ListByPhone(c *gin.Context) {
	phone, ok := phoneQuery(c)
	if !ok {
		return
	}

	list, err := h.service.ListByPhone(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(newBookingResponses(list)))
}

//
// GET /bookings/status?phone=
//

func (h *Handler) LatestStatus(c *gin.Context) {
	phone, ok := phoneQuery(c)
	if !ok {
		return
	}

	status, err := h.service.LatestStatus(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: string(status)})
}

//
// GET /booked-slots/:sellerId?date=
//

func (h *Handler) BookedSlots(c *gin.Context) {
	var uri BookedSlotsRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid request")
		return
	}

	who := booking.Requester{
		UserID: auth.GetUserID(c),
		Phone:  auth.GetUserPhone(c),
	}

	times, err := h.service.OccupiedTimes(c.Request.Context(), uri.SellerID, c.Query("date"), who)
	if err != nil {
		response.Error(c, err)
		return
	}
	if times == nil {
		times = []string{}
	}

	c.JSON(http.StatusOK, BookedSlotsResponse{Times: times})
}

//
// PATCH /bookings/:id/cancel
//

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

//
// DELETE /bookings/:id
//

func (h *Handler) DeleteByID(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := h.service.DeleteByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

//
// GET /seller-bookings/me
//

func (h *Handler) ListMine(c *gin.Context) {
	var query ListSellerBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	filter := booking.SellerFilter{
		Status: booking.Status(strings.TrimSpace(query.Status)),
		Date:   query.Date,
	}

	list, err := h.service.ListBySeller(c.Request.Context(), auth.GetUserID(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(newBookingResponses(list)))
}

//
// PATCH /seller-bookings/:id/status
//

func (h *Handler) SetStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, booking.ErrInvalidStatus)
		return
	}

	b, err := h.service.SetStatus(c.Request.Context(), uri.ID, auth.GetUserID(c), booking.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

//
// DELETE /seller-bookings/:id
//

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Message(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// phoneQuery writes a 400 and reports false when ?phone= is absent or blank.
func phoneQuery(c *gin.Context) (string, bool) {
	var query request.PhoneQuery
	if err := c.ShouldBindQuery(&query); err != nil || strings.TrimSpace(query.Phone) == "" {
		response.Error(c, booking.ErrPhoneRequired)
		return "", false
	}
	return query.Phone, true
}
