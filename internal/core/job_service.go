package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// clientTransitions lists the statuses a client may move a job to from each status.
// Admins are not bound by this table.
var clientTransitions = map[models.JobStatus][]models.JobStatus{
	models.JobStatusOpen:       {models.JobStatusInProgress, models.JobStatusClosed},
	models.JobStatusInProgress: {models.JobStatusCompleted, models.JobStatusClosed},
}

// CanTransition reports whether a client may move a job from one status to another.
// Re-applying the current status is allowed.
func CanTransition(from, to models.JobStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range clientTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// jobService implements the JobService interface.
type jobService struct {
	jobRepo  db.JobRepository
	userRepo db.UserRepository
	logger   *zap.Logger
}

// NewJobService creates a new JobService instance.
func NewJobService(jobRepo db.JobRepository, userRepo db.UserRepository, logger *zap.Logger) JobService {
	return &jobService{jobRepo: jobRepo, userRepo: userRepo, logger: logger}
}

func (s *jobService) CreateJob(ctx context.Context, client models.Actor, req models.CreateJobRequest) (*models.Job, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.CategoryName = strings.TrimSpace(req.CategoryName)
	req.Location = strings.TrimSpace(req.Location)
	if err := requireID("clientId", client.ID); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.Job{
		Title:        req.Title,
		Description:  req.Description,
		CategoryName: req.CategoryName,
		Budget: models.Budget{
			Amount:     req.Budget.Amount,
			Type:       req.Budget.Type,
			Negotiable: req.Budget.Negotiable,
		},
		Location:     req.Location,
		ClientID:     client.ID,
		ClientName:   client.Name,
		Status:       models.JobStatusOpen,
		Applications: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The profile, when present, is the source of truth for the display name and verification badge.
	profile, err := s.userRepo.GetByID(ctx, client.ID)
	switch {
	case err == nil:
		if profile.DisplayName != "" {
			job.ClientName = profile.DisplayName
		}
		verified := profile.IsVerified
		job.ClientIsVerified = &verified
	case errors.Is(err, db.ErrNotFound):
		s.logger.Debug("Posting job without a client profile", zap.String("clientId", client.ID))
	default:
		return nil, fmt.Errorf("failed to load profile for client '%s': %w", client.ID, err)
	}

	if _, err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (s *jobService) GetOpenJobs(ctx context.Context) ([]*models.Job, error) {
	jobs, err := s.jobRepo.ListByStatus(ctx, models.JobStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open jobs: %w", err)
	}
	return jobs, nil
}

func (s *jobService) GetJobsByClient(ctx context.Context, clientID string) ([]*models.Job, error) {
	if err := requireID("clientId", clientID); err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs for client '%s': %w", clientID, err)
	}
	return jobs, nil
}

func (s *jobService) GetJobsByProvider(ctx context.Context, providerID string) ([]*models.Job, error) {
	if err := requireID("providerId", providerID); err != nil {
		return nil, err
	}
	jobs, err := s.jobRepo.ListByApplicant(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs applied to by provider '%s': %w", providerID, err)
	}
	return jobs, nil
}

func (s *jobService) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	if err := requireID("jobId", jobID); err != nil {
		return nil, err
	}
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapJobError(err, jobID)
	}
	return job, nil
}

func (s *jobService) ApplyForJob(ctx context.Context, jobID, providerID string) error {
	if err := requireIDs("jobId", jobID, "providerId", providerID); err != nil {
		return err
	}
	err := s.jobRepo.AddApplicant(ctx, jobID, providerID, func(job *models.Job) error {
		if job.ClientID == providerID {
			return ErrForbidden
		}
		if job.Status != models.JobStatusOpen {
			return fmt.Errorf("%w: status is %s", ErrJobNotOpen, job.Status)
		}
		return nil
	})
	if err != nil {
		return mapJobError(err, jobID)
	}
	return nil
}

func (s *jobService) UpdateJobStatus(ctx context.Context, clientID, jobID string, status models.JobStatus) error {
	if err := requireIDs("jobId", jobID, "clientId", clientID); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return mapJobError(err, jobID)
	}
	if job.ClientID != clientID {
		return ErrForbidden
	}
	if !CanTransition(job.Status, status) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, job.Status, status)
	}
	if err := s.jobRepo.UpdateStatus(ctx, jobID, status); err != nil {
		return mapJobError(err, jobID)
	}
	return nil
}

func (s *jobService) GetJobsByCategory(ctx context.Context, category string) ([]*models.Job, error) {
	category = strings.TrimSpace(category)
	if err := requireID("category", category); err != nil {
		return nil, err
	}
	jobs, err := s.GetOpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	return filterJobs(jobs, func(j *models.Job) bool {
		return strings.EqualFold(j.CategoryName, category)
	}), nil
}

func (s *jobService) SearchJobs(ctx context.Context, term string) ([]*models.Job, error) {
	term = strings.TrimSpace(term)
	if err := requireID("searchTerm", term); err != nil {
		return nil, err
	}
	jobs, err := s.GetOpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	return filterJobs(jobs, func(j *models.Job) bool {
		for _, field := range []string{j.Title, j.Description, j.Location, j.CategoryName} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}), nil
}

func (s *jobService) GetClientJobStats(ctx context.Context, clientID string) (*models.JobStats, error) {
	jobs, err := s.GetJobsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return ComputeJobStats(jobs), nil
}

// ComputeJobStats counts jobs per status and sums their applications.
func ComputeJobStats(jobs []*models.Job) *models.JobStats {
	stats := &models.JobStats{Total: len(jobs)}
	for _, j := range jobs {
		switch j.Status {
		case models.JobStatusOpen:
			stats.Open++
		case models.JobStatusInProgress:
			stats.InProgress++
		case models.JobStatusCompleted:
			stats.Completed++
		case models.JobStatusClosed:
			stats.Closed++
		}
		stats.TotalApplications += len(j.Applications)
	}
	return stats
}

func filterJobs(jobs []*models.Job, keep func(*models.Job) bool) []*models.Job {
	out := []*models.Job{}
	for _, j := range jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

// mapJobError turns a repository not-found into ErrJobNotFound and wraps anything else.
func mapJobError(err error, jobID string) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrJobNotFound
	}
	return fmt.Errorf("job '%s': %w", jobID, err)
}
