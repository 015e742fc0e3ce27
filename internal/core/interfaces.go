package core

import (
	"context"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID. If the user doesn't exist, it creates a client profile.
	// The boolean reports whether the profile was created.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// JobService covers the client and provider side of the job lifecycle.
type JobService interface {
	CreateJob(ctx context.Context, client models.Actor, req models.CreateJobRequest) (*models.Job, error)
	GetOpenJobs(ctx context.Context) ([]*models.Job, error)
	GetJobsByClient(ctx context.Context, clientID string) ([]*models.Job, error)
	GetJobsByProvider(ctx context.Context, providerID string) ([]*models.Job, error)
	GetJobByID(ctx context.Context, jobID string) (*models.Job, error)
	// ApplyForJob is idempotent: applying twice leaves a single entry.
	ApplyForJob(ctx context.Context, jobID, providerID string) error
	// UpdateJobStatus changes the status of a job owned by clientID, following the client transition rules.
	UpdateJobStatus(ctx context.Context, clientID, jobID string, status models.JobStatus) error
	GetJobsByCategory(ctx context.Context, category string) ([]*models.Job, error)
	SearchJobs(ctx context.Context, term string) ([]*models.Job, error)
	GetClientJobStats(ctx context.Context, clientID string) (*models.JobStats, error)
}

// AwardService turns an application into a booking.
type AwardService interface {
	AwardJob(ctx context.Context, clientID, jobID string, req models.AwardJobRequest) (*models.Booking, error)
}

// AdminJobService holds moderation actions. Every mutation is audited.
type AdminJobService interface {
	ListAllJobs(ctx context.Context) ([]*models.Job, error)
	UpdateJobStatus(ctx context.Context, actor models.Actor, jobID string, status models.JobStatus) error
	DeleteJob(ctx context.Context, actor models.Actor, jobID string) error
}

// ApplicantService lists a job's applicants with their review summary.
type ApplicantService interface {
	ListApplicants(ctx context.Context, clientID, jobID string) ([]*models.Applicant, error)
}

// BookingService lists bookings.
type BookingService interface {
	// ListBookings returns bookings where userID is the client or the provider, latest date first.
	ListBookings(ctx context.Context, userID string) ([]*models.Booking, error)
}

// PaymentService handles manual payment submission and admin verification.
type PaymentService interface {
	SubmitPayment(ctx context.Context, clientID, bookingID string, req models.SubmitPaymentRequest) (*models.Transaction, error)
	ApprovePayment(ctx context.Context, actor models.Actor, transactionID string) (*models.Transaction, error)
	RejectPayment(ctx context.Context, actor models.Actor, transactionID string, req models.RejectPaymentRequest) (*models.Transaction, error)
	ListPendingPayments(ctx context.Context) ([]*models.Transaction, error)
	// RevealReference decrypts the payment reference the client submitted.
	RevealReference(ctx context.Context, actor models.Actor, transactionID string) (string, error)
}

// InviteService manages agency invitations.
type InviteService interface {
	InviteProvider(ctx context.Context, agency models.Actor, req models.InviteProviderRequest) (*models.Invite, error)
	AcceptInvite(ctx context.Context, providerID, inviteID string) (*models.Invite, error)
	DeclineInvite(ctx context.Context, providerID, inviteID string) error
	CancelInvite(ctx context.Context, agencyID, inviteID string) error
	ListInvitesForProvider(ctx context.Context, providerID string) ([]*models.Invite, error)
	ListInvitesForAgency(ctx context.Context, agencyID string) ([]*models.Invite, error)
}

// NotificationService delivers in-app notifications and queues them for email.
type NotificationService interface {
	// Notify is best-effort: failures are logged, never returned.
	Notify(ctx context.Context, n models.Notification)
	ListNotifications(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

// CartService manages marketplace carts.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*CartView, error)
	// UpdateCart sets the quantity of a product. Quantity 0 removes it.
	UpdateCart(ctx context.Context, userID string, req models.CartItemRequest) (*CartView, error)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}

// EventPublisher publishes a message to a named queue. Satisfied by messagequeue.RabbitMQService.
type EventPublisher interface {
	Publish(ctx context.Context, queueName, messageID string, body []byte) error
}

// ReferenceSealer encrypts and decrypts payment references. Satisfied by crypto.Sealer.
type ReferenceSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}
