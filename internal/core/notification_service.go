package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// DefaultNotificationLimit caps ListNotifications when the caller passes no limit.
const DefaultNotificationLimit = 50

type notificationService struct {
	notificationRepo db.NotificationRepository
	publisher        EventPublisher // nil disables queueing
	queueName        string
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService. publisher may be nil.
func NewNotificationService(notificationRepo db.NotificationRepository, publisher EventPublisher, queueName string, logger *zap.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		queueName:        queueName,
		logger:           logger,
	}
}

// Notify stores the notification in the user's inbox and queues it for email.
func (s *notificationService) Notify(ctx context.Context, n models.Notification) {
	if n.UserID == "" {
		s.logger.Warn("Dropping notification without recipient", zap.String("type", n.Type))
		return
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	id, err := s.notificationRepo.Create(ctx, &n)
	if err != nil {
		s.logger.Warn("Failed to store notification",
			zap.String("userId", n.UserID), zap.String("type", n.Type), zap.Error(err))
	} else {
		n.ID = id
	}

	if s.publisher == nil {
		return
	}
	event := models.NotificationEvent{MessageID: uuid.NewString(), Notification: n}
	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("Failed to encode notification event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.queueName, event.MessageID, body); err != nil {
		s.logger.Warn("Failed to publish notification event",
			zap.String("userId", n.UserID), zap.String("messageId", event.MessageID), zap.Error(err))
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultNotificationLimit {
		limit = DefaultNotificationLimit
	}
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications for '%s': %w", userID, err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := requireIDs("userId", userID, "notificationId", notificationID); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification '%s' read: %w", notificationID, err)
	}
	return nil
}
