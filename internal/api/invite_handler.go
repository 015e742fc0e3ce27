package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// InviteHandler handles agency invitation endpoints.
type InviteHandler struct {
	inviteService core.InviteService
	logger        *zap.Logger
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(is core.InviteService, logger *zap.Logger) *InviteHandler {
	return &InviteHandler{inviteService: is, logger: logger}
}

// InviteProvider handles POST /invites. The caller is the inviting agency.
func (h *InviteHandler) InviteProvider(c *gin.Context) {
	var req models.InviteProviderRequest
	if !bindJSON(c, &req) {
		return
	}
	invite, err := h.inviteService.InviteProvider(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to send invite.")
		return
	}
	c.JSON(http.StatusCreated, ok(invite))
}

// ListReceived handles GET /invites, the caller's pending invites as a provider.
func (h *InviteHandler) ListReceived(c *gin.Context) {
	invites, err := h.inviteService.ListInvitesForProvider(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch invites.")
		return
	}
	c.JSON(http.StatusOK, ok(invites))
}

// ListSent handles GET /invites/sent, the caller's outstanding invites as an agency.
func (h *InviteHandler) ListSent(c *gin.Context) {
	invites, err := h.inviteService.ListInvitesForAgency(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch sent invites.")
		return
	}
	c.JSON(http.StatusOK, ok(invites))
}

// Accept handles POST /invites/:inviteId/accept.
func (h *InviteHandler) Accept(c *gin.Context) {
	invite, err := h.inviteService.AcceptInvite(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("inviteId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to accept invite.")
		return
	}
	c.JSON(http.StatusOK, ok(invite))
}

// Decline handles POST /invites/:inviteId/decline.
func (h *InviteHandler) Decline(c *gin.Context) {
	if err := h.inviteService.DeclineInvite(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("inviteId")); err != nil {
		respondError(c, h.logger, err, "Failed to decline invite.")
		return
	}
	c.JSON(http.StatusOK, okMessage("Invite declined"))
}

// Cancel handles DELETE /invites/:inviteId by the agency that sent it.
func (h *InviteHandler) Cancel(c *gin.Context) {
	if err := h.inviteService.CancelInvite(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("inviteId")); err != nil {
		respondError(c, h.logger, err, "Failed to cancel invite.")
		return
	}
	c.JSON(http.StatusOK, okMessage("Invite cancelled"))
}
