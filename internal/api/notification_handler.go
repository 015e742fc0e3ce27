package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
)

// NotificationHandler handles in-app notification endpoints.
type NotificationHandler struct {
	notificationService core.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns core.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: ns, logger: logger}
}

// List handles GET /notifications?limit=n.
func (h *NotificationHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ActionResult{Success: false, Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), c.GetString(middleware.ContextUserID), limit)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch notifications.")
		return
	}
	c.JSON(http.StatusOK, ok(notifications))
}

// MarkRead handles POST /notifications/:notificationId/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.notificationService.MarkRead(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("notificationId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to mark notification as read.")
		return
	}
	c.JSON(http.StatusOK, okMessage("Notification marked as read"))
}
