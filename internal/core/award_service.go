package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

type awardService struct {
	jobRepo  db.JobRepository
	userRepo db.UserRepository
	notifier NotificationService
	logger   *zap.Logger
}

// NewAwardService creates a new AwardService instance.
func NewAwardService(jobRepo db.JobRepository, userRepo db.UserRepository, notifier NotificationService, logger *zap.Logger) AwardService {
	return &awardService{jobRepo: jobRepo, userRepo: userRepo, notifier: notifier, logger: logger}
}

// AwardJob creates the booking and moves the job to In Progress in one transaction.
// The open-status check runs inside the transaction, so a second award of the same job fails with ErrJobNotOpen.
func (s *awardService) AwardJob(ctx context.Context, clientID, jobID string, req models.AwardJobRequest) (*models.Booking, error) {
	if err := requireIDs("jobId", jobID, "clientId", clientID, "providerId", req.ProviderID); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var providerName string
	provider, err := s.userRepo.GetByID(ctx, req.ProviderID)
	switch {
	case err == nil:
		providerName = provider.DisplayName
	case errors.Is(err, db.ErrNotFound):
		s.logger.Warn("Awarding job to provider without a profile",
			zap.String("jobId", jobID), zap.String("providerId", req.ProviderID))
	default:
		return nil, fmt.Errorf("failed to load provider '%s': %w", req.ProviderID, err)
	}

	booking, err := s.jobRepo.Award(ctx, jobID, func(job *models.Job) (*models.Booking, error) {
		return newBooking(job, clientID, req, providerName, time.Now().UTC())
	})
	if err != nil {
		return nil, mapJobError(err, jobID)
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:  booking.ProviderID,
		Type:    "job_awarded",
		Title:   "You've been hired!",
		Message: fmt.Sprintf("%s awarded you the job \"%s\".", booking.ClientName, booking.JobTitle),
		Link:    "/bookings",
	})
	return booking, nil
}

// newBooking is the award decision: it checks the job read inside the transaction and builds the booking.
func newBooking(job *models.Job, clientID string, req models.AwardJobRequest, providerName string, now time.Time) (*models.Booking, error) {
	if job.ClientID != clientID {
		return nil, ErrForbidden
	}
	if job.Status != models.JobStatusOpen {
		return nil, fmt.Errorf("%w: status is %s", ErrJobNotOpen, job.Status)
	}
	if !job.HasApplicant(req.ProviderID) {
		return nil, ErrNotApplicant
	}

	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}
	return &models.Booking{
		JobID:         job.ID,
		JobTitle:      job.Title,
		ProviderID:    req.ProviderID,
		ProviderName:  providerName,
		ClientID:      job.ClientID,
		ClientName:    job.ClientName,
		Price:         job.Budget.Amount,
		Date:          date,
		Status:        models.BookingStatusUpcoming,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
