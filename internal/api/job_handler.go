package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/middleware"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// JobHandler handles the client and provider job endpoints.
type JobHandler struct {
	jobService       core.JobService
	awardService     core.AwardService
	applicantService core.ApplicantService
	logger           *zap.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(js core.JobService, as core.AwardService, aps core.ApplicantService, logger *zap.Logger) *JobHandler {
	return &JobHandler{jobService: js, awardService: as, applicantService: aps, logger: logger}
}

// ListJobs handles GET /jobs. Open jobs by default, narrowed by ?category= or ?q=.
func (h *JobHandler) ListJobs(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		jobs []*models.Job
		err  error
	)
	if category, ok := c.GetQuery("category"); ok {
		jobs, err = h.jobService.GetJobsByCategory(ctx, category)
	} else if term, ok := c.GetQuery("q"); ok {
		jobs, err = h.jobService.SearchJobs(ctx, term)
	} else {
		jobs, err = h.jobService.GetOpenJobs(ctx)
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch jobs.")
		return
	}
	c.JSON(http.StatusOK, ok(jobs))
}

// CreateJob handles POST /jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req models.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobService.CreateJob(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create job.")
		return
	}
	c.JSON(http.StatusCreated, ok(job))
}

// ListMyJobs handles GET /jobs/mine.
func (h *JobHandler) ListMyJobs(c *gin.Context) {
	jobs, err := h.jobService.GetJobsByClient(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch your jobs.")
		return
	}
	c.JSON(http.StatusOK, ok(jobs))
}

// ListAppliedJobs handles GET /jobs/applied.
func (h *JobHandler) ListAppliedJobs(c *gin.Context) {
	jobs, err := h.jobService.GetJobsByProvider(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch jobs you applied to.")
		return
	}
	c.JSON(http.StatusOK, ok(jobs))
}

// GetStats handles GET /jobs/stats.
func (h *JobHandler) GetStats(c *gin.Context) {
	stats, err := h.jobService.GetClientJobStats(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch job statistics.")
		return
	}
	c.JSON(http.StatusOK, ok(stats))
}

// GetJob handles GET /jobs/:jobId.
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJobByID(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch job.")
		return
	}
	c.JSON(http.StatusOK, ok(job))
}

// Apply handles POST /jobs/:jobId/apply for the calling provider.
func (h *JobHandler) Apply(c *gin.Context) {
	err := h.jobService.ApplyForJob(c.Request.Context(), c.Param("jobId"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err, "Failed to apply for job.")
		return
	}
	c.JSON(http.StatusOK, okMessage("Application submitted"))
}

// UpdateStatus handles PATCH /jobs/:jobId/status for the job owner.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateJobStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.jobService.UpdateJobStatus(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("jobId"), req.Status)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update job status.")
		return
	}
	c.JSON(http.StatusOK, okMessage("Job status updated"))
}

// ListApplicants handles GET /jobs/:jobId/applicants.
func (h *JobHandler) ListApplicants(c *gin.Context) {
	applicants, err := h.applicantService.ListApplicants(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("jobId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch applicants.")
		return
	}
	c.JSON(http.StatusOK, ok(applicants))
}

// Award handles POST /jobs/:jobId/award.
func (h *JobHandler) Award(c *gin.Context) {
	var req models.AwardJobRequest
	if !bindJSON(c, &req) {
		return
	}
	booking, err := h.awardService.AwardJob(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("jobId"), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to award job.")
		return
	}
	c.JSON(http.StatusCreated, ok(booking))
}
