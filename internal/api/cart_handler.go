package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// CartHandler serves the marketplace cart.
type CartHandler struct {
	cartService core.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cs core.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cartService: cs, logger: logger}
}

// GetCart handles GET /api/marketplace/cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.GetCart(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch cart.")
		return
	}
	c.JSON(http.StatusOK, ok(view))
}

// UpdateCart handles POST /api/marketplace/cart.
func (h *CartHandler) UpdateCart(c *gin.Context) {
	var req models.CartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.cartService.UpdateCart(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart.")
		return
	}
	c.JSON(http.StatusOK, ok(view))
}
