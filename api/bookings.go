package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/history"
	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// HistoryReader is the read side of the audit store. It may be nil when
// the document store is not configured.
type HistoryReader interface {
	Timeline(ctx context.Context, reference string) (*history.BookingHistory, error)
}

type BookingHandler struct {
	service booking.BookingUseCase
	history HistoryReader
}

type createBookingRequest struct {
	PackageID   int64      `json:"package_id"`
	CustomerID  int64      `json:"customer_id"`
	Adults      int        `json:"adults"`
	Children    int        `json:"children"`
	BookingDate *time.Time `json:"booking_date"`
}

type confirmBookingRequest struct {
	PaymentReference string `json:"payment_reference"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

type bookingResponse struct {
	ID             int64  `json:"id"`
	Reference      string `json:"reference"`
	PackageID      int64  `json:"package_id"`
	CustomerID     int64  `json:"customer_id"`
	NumberOfPeople int    `json:"number_of_people"`
	TotalAmount    string `json:"total_amount"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	BookingDate    string `json:"booking_date"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func NewBookingHandler(service booking.BookingUseCase, history HistoryReader) *BookingHandler {
	return &BookingHandler{service: service, history: history}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/confirm", h.confirm)
	router.DELETE("/:id", h.cancel)
	router.PUT("/:id/status", h.updateStatus)
	router.PUT("/:id/payment-status", h.updatePaymentStatus)
	router.GET("/:id/history", h.timeline)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := booking.CreateBookingInput{
		PackageID:  req.PackageID,
		CustomerID: req.CustomerID,
		Adults:     req.Adults,
		Children:   req.Children,
	}
	if req.BookingDate != nil {
		input.BookingDate = *req.BookingDate
	}

	created, err := h.service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	if ref := c.Query("reference"); ref != "" {
		found, err := h.service.GetBookingByReference(c.Request.Context(), ref)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, []bookingResponse{toBookingResponse(found)})
		return
	}

	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id or reference query parameter is required"})
		return
	}

	bookings, err := h.service.ListBookingsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	found, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.ConfirmBooking(c.Request.Context(), id, req.PaymentReference)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	// The cancellation reason body is optional.
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	updated, err := h.service.CancelBooking(c.Request.Context(), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := domain.BookingStatus(req.Status)
	switch status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown booking status: " + req.Status})
		return
	}

	updated, err := h.service.UpdateBookingStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) updatePaymentStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := domain.PaymentStatus(req.PaymentStatus)
	switch status {
	case domain.PaymentStatusPending, domain.PaymentStatusCompleted, domain.PaymentStatusRefunded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment status: " + req.PaymentStatus})
		return
	}

	updated, err := h.service.UpdatePaymentStatus(c.Request.Context(), id, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) timeline(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking history is not available"})
		return
	}

	found, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	doc, err := h.history.Timeline(c.Request.Context(), found.Reference)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	return id, true
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		Reference:      b.Reference,
		PackageID:      b.PackageID,
		CustomerID:     b.CustomerID,
		NumberOfPeople: b.NumberOfPeople,
		TotalAmount:    b.TotalAmount.String(),
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		BookingDate:    b.BookingDate.Format(time.RFC3339),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
}
