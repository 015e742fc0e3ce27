package db

import (
	"context"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// AwardDecision inspects a job read inside the award transaction and returns the booking to create.
// Returning an error aborts the transaction without writing anything.
type AwardDecision func(job *models.Job) (*models.Booking, error)

// ApplicationDecision checks a job read inside the apply transaction. Returning an error rejects the application.
type ApplicationDecision func(job *models.Job) error

// PaymentDecision inspects a booking read inside a transaction and returns the transaction record to create.
type PaymentDecision func(booking *models.Booking) (*models.Transaction, error)

// ResolutionDecision mutates the status fields of a pending transaction and returns the
// payment status its booking should move to.
type ResolutionDecision func(txn *models.Transaction) (models.PaymentStatus, error)

// InviteDecision validates an invite read inside the acceptance transaction.
type InviteDecision func(invite *models.Invite) error

// JobRepository defines storage operations for the jobs collection.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) (string, error)
	GetByID(ctx context.Context, jobID string) (*models.Job, error)
	ListByStatus(ctx context.Context, status models.JobStatus) ([]*models.Job, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Job, error)
	ListByApplicant(ctx context.Context, providerID string) ([]*models.Job, error)
	ListAll(ctx context.Context) ([]*models.Job, error)
	// AddApplicant adds providerID to the job's applications once check accepts the current job.
	AddApplicant(ctx context.Context, jobID, providerID string, check ApplicationDecision) error
	UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) error
	Delete(ctx context.Context, jobID string) error
	// Award atomically creates the booking returned by decide and moves the job to In Progress.
	Award(ctx context.Context, jobID string, decide AwardDecision) (*models.Booking, error)
	// WatchByStatus calls onChange with the full result set every time it changes, until ctx is done.
	WatchByStatus(ctx context.Context, status models.JobStatus, onChange func([]*models.Job)) error
}

// BookingRepository defines read operations for the bookings collection.
// Bookings are created by JobRepository.Award.
type BookingRepository interface {
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Booking, error)
	ListByProvider(ctx context.Context, providerID string) ([]*models.Booking, error)
}

// UserRepository defines storage operations for user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// GetByIDs returns the profiles that exist, in the order of userIDs.
	GetByIDs(ctx context.Context, userIDs []string) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// ReviewRepository defines read operations for provider reviews.
type ReviewRepository interface {
	// ListByProviders returns reviews for at most MaxInQueryValues providers.
	ListByProviders(ctx context.Context, providerIDs []string) ([]*models.Review, error)
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (string, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

// TransactionRepository stores payment transactions.
type TransactionRepository interface {
	GetByID(ctx context.Context, transactionID string) (*models.Transaction, error)
	ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error)
	// CreateForBooking atomically creates a pending transaction and marks the booking pending verification.
	CreateForBooking(ctx context.Context, bookingID string, decide PaymentDecision) (*models.Transaction, error)
	// Resolve atomically updates a transaction's status fields and its booking's payment status.
	Resolve(ctx context.Context, transactionID string, decide ResolutionDecision) (*models.Transaction, error)
}

// InviteRepository stores agency invites.
type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) (string, error)
	GetByID(ctx context.Context, inviteID string) (*models.Invite, error)
	FindPending(ctx context.Context, agencyID, providerID string) (*models.Invite, error)
	ListByProvider(ctx context.Context, providerID string) ([]*models.Invite, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*models.Invite, error)
	Delete(ctx context.Context, inviteID string) error
	// Accept atomically links the provider to the agency and deletes the invite.
	Accept(ctx context.Context, inviteID string, decide InviteDecision) (*models.Invite, error)
}
