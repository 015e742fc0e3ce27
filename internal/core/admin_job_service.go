package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// Audit actions recorded by admin operations.
const (
	ActionJobStatusUpdate = "JOB_STATUS_UPDATE"
	ActionJobDelete       = "JOB_DELETE"
	ActionPaymentApprove  = "PAYMENT_APPROVE"
	ActionPaymentReject   = "PAYMENT_REJECT"
	ActionPaymentReveal   = "PAYMENT_REFERENCE_REVEAL"
)

type adminJobService struct {
	jobRepo      db.JobRepository
	auditService AuditService
	logger       *zap.Logger
}

// NewAdminJobService creates a new AdminJobService instance.
func NewAdminJobService(jobRepo db.JobRepository, auditService AuditService, logger *zap.Logger) AdminJobService {
	return &adminJobService{jobRepo: jobRepo, auditService: auditService, logger: logger}
}

func (s *adminJobService) ListAllJobs(ctx context.Context) ([]*models.Job, error) {
	jobs, err := s.jobRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	return jobs, nil
}

// UpdateJobStatus sets any valid status regardless of the current one.
func (s *adminJobService) UpdateJobStatus(ctx context.Context, actor models.Actor, jobID string, status models.JobStatus) error {
	if err := requireIDs("jobId", jobID, "actorId", actor.ID); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}
	if err := s.jobRepo.UpdateStatus(ctx, jobID, status); err != nil {
		return mapJobError(err, jobID)
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		Actor:      actor,
		Action:     ActionJobStatusUpdate,
		TargetType: "job",
		TargetID:   jobID,
		Details:    map[string]interface{}{"jobId": jobID, "status": string(status)},
	})
	return nil
}

func (s *adminJobService) DeleteJob(ctx context.Context, actor models.Actor, jobID string) error {
	if err := requireIDs("jobId", jobID, "actorId", actor.ID); err != nil {
		return err
	}
	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return mapJobError(err, jobID)
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		Actor:      actor,
		Action:     ActionJobDelete,
		TargetType: "job",
		TargetID:   jobID,
		Details:    map[string]interface{}{"jobId": jobID},
	})
	return nil
}
