package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// BookingHandler handles booking and payment submission endpoints.
type BookingHandler struct {
	bookingService core.BookingService
	paymentService core.PaymentService
	logger         *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs core.BookingService, ps core.PaymentService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookingService: bs, paymentService: ps, logger: logger}
}

// ListBookings handles GET /bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch bookings.")
		return
	}
	c.JSON(http.StatusOK, ok(bookings))
}

// SubmitPayment handles POST /bookings/:bookingId/payments.
func (h *BookingHandler) SubmitPayment(c *gin.Context) {
	var req models.SubmitPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.paymentService.SubmitPayment(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("bookingId"), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit payment.")
		return
	}
	c.JSON(http.StatusCreated, ok(txn))
}
