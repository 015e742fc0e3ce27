package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// CreateAuditLog creates a new audit log entry.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if logEntry.Action == "" {
		return invalid("action", "action is required")
	}
	if logEntry.Actor.ID == "" {
		return invalid("actor", "actor is required")
	}
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

// recordAudit writes an audit entry after a mutation has already committed.
// A failure here is logged and swallowed; there is no compensation for the mutation.
func recordAudit(ctx context.Context, audit AuditService, logger *zap.Logger, entry models.AuditLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("Audit log write failed after committed mutation",
			zap.String("action", entry.Action),
			zap.String("targetId", entry.TargetID),
			zap.String("actorId", entry.Actor.ID),
			zap.Error(err))
	}
}
