package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// AdminHandler handles moderation and payment verification endpoints.
// Routes using it must sit behind middleware.RequireRole(models.RoleAdmin).
type AdminHandler struct {
	adminJobService core.AdminJobService
	paymentService  core.PaymentService
	logger          *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ajs core.AdminJobService, ps core.PaymentService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminJobService: ajs, paymentService: ps, logger: logger}
}

// ListJobs handles GET /admin/jobs.
func (h *AdminHandler) ListJobs(c *gin.Context) {
	jobs, err := h.adminJobService.ListAllJobs(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch jobs.")
		return
	}
	c.JSON(http.StatusOK, ok(jobs))
}

// UpdateJobStatus handles PATCH /admin/jobs/:jobId/status.
func (h *AdminHandler) UpdateJobStatus(c *gin.Context) {
	var req models.UpdateJobStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.adminJobService.UpdateJobStatus(c.Request.Context(), middleware.CurrentActor(c), c.Param("jobId"), req.Status); err != nil {
		respondError(c, h.logger, err, "Failed to update job status.")
		return
	}
	c.JSON(http.StatusOK, okMessage("Job status updated"))
}

// DeleteJob handles DELETE /admin/jobs/:jobId.
func (h *AdminHandler) DeleteJob(c *gin.Context) {
	if err := h.adminJobService.DeleteJob(c.Request.Context(), middleware.CurrentActor(c), c.Param("jobId")); err != nil {
		respondError(c, h.logger, err, "Failed to delete job.")
		return
	}
	c.JSON(http.StatusOK, okMessage("Job deleted"))
}

// ListPendingPayments handles GET /admin/payments.
func (h *AdminHandler) ListPendingPayments(c *gin.Context) {
	txns, err := h.paymentService.ListPendingPayments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch pending payments.")
		return
	}
	c.JSON(http.StatusOK, ok(txns))
}

// ApprovePayment handles POST /admin/payments/:transactionId/approve.
func (h *AdminHandler) ApprovePayment(c *gin.Context) {
	txn, err := h.paymentService.ApprovePayment(c.Request.Context(), middleware.CurrentActor(c), c.Param("transactionId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to approve payment.")
		return
	}
	c.JSON(http.StatusOK, ok(txn))
}

// RejectPayment handles POST /admin/payments/:transactionId/reject.
func (h *AdminHandler) RejectPayment(c *gin.Context) {
	var req models.RejectPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.paymentService.RejectPayment(c.Request.Context(), middleware.CurrentActor(c), c.Param("transactionId"), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to reject payment.")
		return
	}
	c.JSON(http.StatusOK, ok(txn))
}

// RevealReference handles GET /admin/payments/:transactionId/reference.
func (h *AdminHandler) RevealReference(c *gin.Context) {
	ref, err := h.paymentService.RevealReference(c.Request.Context(), middleware.CurrentActor(c), c.Param("transactionId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to reveal payment reference.")
		return
	}
	c.JSON(http.StatusOK, ok(ReferenceResponse{Reference: ref}))
}
