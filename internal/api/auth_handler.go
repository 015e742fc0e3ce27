package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
)

// AuthHandler handles authentication related API endpoints.
type AuthHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: us, logger: logger}
}

// InitializeUserProfile handles POST /api/v1/users/initialize.
// Called by the client after a Firebase sign-in so a profile exists for the caller.
func (h *AuthHandler) InitializeUserProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	email := c.GetString(middleware.ContextUserEmail)
	displayName := c.GetString(middleware.ContextUserDisplayName)
	photoURL := c.GetString(middleware.ContextUserPhotoURL)

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), uid, email, displayName, photoURL)
	if err != nil {
		respondError(c, h.logger, err, "Failed to initialize user profile.")
		return
	}

	if created {
		h.logger.Info("User profile created", zap.String("user_id", uid))
		c.JSON(http.StatusCreated, ok(user))
		return
	}
	c.JSON(http.StatusOK, ok(user))
}
