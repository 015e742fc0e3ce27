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

type paymentService struct {
	txnRepo      db.TransactionRepository
	sealer       ReferenceSealer
	auditService AuditService
	notifier     NotificationService
	logger       *zap.Logger
}

// NewPaymentService creates a new PaymentService instance.
func NewPaymentService(
	txnRepo db.TransactionRepository,
	sealer ReferenceSealer,
	auditService AuditService,
	notifier NotificationService,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		txnRepo:      txnRepo,
		sealer:       sealer,
		auditService: auditService,
		notifier:     notifier,
		logger:       logger,
	}
}

// SubmitPayment records a pending transaction and flags the booking for verification in one transaction.
func (s *paymentService) SubmitPayment(ctx context.Context, clientID, bookingID string, req models.SubmitPaymentRequest) (*models.Transaction, error) {
	req.Reference = strings.TrimSpace(req.Reference)
	if err := requireIDs("bookingId", bookingID, "clientId", clientID); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	sealed, err := s.sealer.Seal(req.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payment reference: %w", err)
	}

	txn, err := s.txnRepo.CreateForBooking(ctx, bookingID, func(b *models.Booking) (*models.Transaction, error) {
		if b.ClientID != clientID {
			return nil, ErrForbidden
		}
		if b.PaymentStatus == models.PaymentPendingVerification || b.PaymentStatus == models.PaymentPaid {
			return nil, ErrPaymentAlreadySubmitted
		}
		return &models.Transaction{
			ClientID:           b.ClientID,
			ProviderID:         b.ProviderID,
			Amount:             req.Amount,
			Method:             req.Method,
			EncryptedReference: sealed,
			Status:             models.TransactionPending,
			CreatedAt:          time.Now().UTC(),
		}, nil
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to submit payment for booking '%s': %w", bookingID, err)
	}

	s.notifier.Notify(ctx, models.Notification{
		UserID:  txn.ProviderID,
		Type:    "payment_submitted",
		Title:   "Payment submitted",
		Message: fmt.Sprintf("The client submitted a %s payment of %.2f. It is awaiting verification.", txn.Method, txn.Amount),
		Link:    "/bookings",
	})
	return txn, nil
}

// ApprovePayment marks the transaction verified and the booking paid.
func (s *paymentService) ApprovePayment(ctx context.Context, actor models.Actor, transactionID string) (*models.Transaction, error) {
	if err := requireIDs("transactionId", transactionID, "actorId", actor.ID); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.Resolve(ctx, transactionID, func(t *models.Transaction) (models.PaymentStatus, error) {
		if t.Status != models.TransactionPending {
			return "", fmt.Errorf("%w: status is %s", ErrPaymentAlreadyResolved, t.Status)
		}
		now := time.Now().UTC()
		t.Status = models.TransactionVerified
		t.VerifiedAt = &now
		t.VerifiedBy = actor.ID
		return models.PaymentPaid, nil
	})
	if err != nil {
		return nil, mapTransactionError(err, transactionID)
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		Actor:      actor,
		Action:     ActionPaymentApprove,
		TargetType: "transaction",
		TargetID:   txn.ID,
		Details:    map[string]interface{}{"bookingId": txn.BookingID, "amount": txn.Amount},
	})
	s.notifier.Notify(ctx, models.Notification{
		UserID:  txn.ClientID,
		Type:    "payment_verified",
		Title:   "Payment verified",
		Message: fmt.Sprintf("Your payment of %.2f has been verified.", txn.Amount),
		Link:    "/bookings",
	})
	s.notifier.Notify(ctx, models.Notification{
		UserID:  txn.ProviderID,
		Type:    "payment_verified",
		Title:   "Booking paid",
		Message: fmt.Sprintf("A payment of %.2f for your booking has been verified.", txn.Amount),
		Link:    "/bookings",
	})
	return txn, nil
}

// RejectPayment marks the transaction and the booking payment rejected.
func (s *paymentService) RejectPayment(ctx context.Context, actor models.Actor, transactionID string, req models.RejectPaymentRequest) (*models.Transaction, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := requireIDs("transactionId", transactionID, "actorId", actor.ID); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.Resolve(ctx, transactionID, func(t *models.Transaction) (models.PaymentStatus, error) {
		if t.Status != models.TransactionPending {
			return "", fmt.Errorf("%w: status is %s", ErrPaymentAlreadyResolved, t.Status)
		}
		now := time.Now().UTC()
		t.Status = models.TransactionRejected
		t.RejectedAt = &now
		t.RejectionReason = req.Reason
		return models.PaymentRejected, nil
	})
	if err != nil {
		return nil, mapTransactionError(err, transactionID)
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		Actor:      actor,
		Action:     ActionPaymentReject,
		TargetType: "transaction",
		TargetID:   txn.ID,
		Details:    map[string]interface{}{"bookingId": txn.BookingID, "reason": req.Reason},
	})
	s.notifier.Notify(ctx, models.Notification{
		UserID:  txn.ClientID,
		Type:    "payment_rejected",
		Title:   "Payment rejected",
		Message: "Your payment could not be verified: " + req.Reason,
		Link:    "/bookings",
	})
	return txn, nil
}

func (s *paymentService) ListPendingPayments(ctx context.Context) ([]*models.Transaction, error) {
	txns, err := s.txnRepo.ListByStatus(ctx, models.TransactionPending)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending payments: %w", err)
	}
	return txns, nil
}

func (s *paymentService) RevealReference(ctx context.Context, actor models.Actor, transactionID string) (string, error) {
	if err := requireIDs("transactionId", transactionID, "actorId", actor.ID); err != nil {
		return "", err
	}
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return "", mapTransactionError(err, transactionID)
	}
	reference, err := s.sealer.Open(txn.EncryptedReference)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt reference for transaction '%s': %w", transactionID, err)
	}

	recordAudit(ctx, s.auditService, s.logger, models.AuditLog{
		Actor:      actor,
		Action:     ActionPaymentReveal,
		TargetType: "transaction",
		TargetID:   transactionID,
	})
	return reference, nil
}

func mapTransactionError(err error, transactionID string) error {
	if errors.Is(err, db.ErrBookingMissing) {
		return ErrBookingNotFound
	}
	if errors.Is(err, db.ErrNotFound) {
		return ErrTransactionNotFound
	}
	return fmt.Errorf("transaction '%s': %w", transactionID, err)
}
