package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
)

const internalErrorMessage = "An unexpected internal server error occurred."

var notFoundErrors = []error{
	core.ErrJobNotFound,
	core.ErrBookingNotFound,
	core.ErrTransactionNotFound,
	core.ErrInviteNotFound,
	core.ErrUserNotFound,
	core.ErrNotificationNotFound,
}

var conflictErrors = []error{
	core.ErrJobNotOpen,
	core.ErrNotApplicant,
	core.ErrInvalidTransition,
	core.ErrAlreadyInvited,
	core.ErrAlreadyMember,
	core.ErrPaymentAlreadySubmitted,
	core.ErrPaymentAlreadyResolved,
}

// errorStatus maps a service error to an HTTP status and a client-facing cause.
// Known errors expose their own message; anything else maps to 500 with a generic one,
// so store and transport details stay in the logs.
func errorStatus(err error) (int, string) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, target.Error()
		}
	}
	if errors.Is(err, core.ErrForbidden) {
		return http.StatusForbidden, core.ErrForbidden.Error()
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict, target.Error()
		}
	}
	return http.StatusInternalServerError, internalErrorMessage
}

// respondError renders a failure envelope. error carries the client-facing cause and message
// describes the operation that failed.
func respondError(c *gin.Context, logger *zap.Logger, err error, message string) {
	status, cause := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error(message,
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, ActionResult{Success: false, Error: cause, Message: message})
}

// bindJSON decodes the request body and writes a 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ActionResult{Success: false, Error: "Invalid request payload", Message: err.Error()})
		return false
	}
	return true
}
