// Package notifier turns queued notification events into emails.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

// UserLookup resolves a notification recipient. Satisfied by db.UserRepository.
type UserLookup interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// EmailSender sends one email. Satisfied by *mailer.Mailer.
type EmailSender interface {
	SendEmail(recipient, subject, body string) error
}

// Notifier handles deliveries from the notifications queue.
type Notifier struct {
	users  UserLookup
	mail   EmailSender
	logger *zap.Logger
}

// New creates a Notifier.
func New(users UserLookup, mail EmailSender, logger *zap.Logger) *Notifier {
	return &Notifier{users: users, mail: mail, logger: logger}
}

// Handle decodes one NotificationEvent and emails its recipient.
// Events for users without an email address are dropped without error.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("malformed notification event: %w", err)
	}
	note := event.Notification
	if note.UserID == "" {
		return fmt.Errorf("notification event %s has no recipient", event.MessageID)
	}

	user, err := n.users.GetByID(ctx, note.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			n.logger.Warn("Dropping notification for unknown user",
				zap.String("messageId", event.MessageID), zap.String("userId", note.UserID))
			return nil
		}
		return fmt.Errorf("failed to look up user %s: %w", note.UserID, err)
	}
	if user.Email == "" {
		n.logger.Info("User has no email address; skipping",
			zap.String("messageId", event.MessageID), zap.String("userId", note.UserID))
		return nil
	}

	if err := n.mail.SendEmail(user.Email, note.Title, renderBody(user, note)); err != nil {
		return fmt.Errorf("failed to email notification %s: %w", event.MessageID, err)
	}
	n.logger.Info("Notification emailed",
		zap.String("messageId", event.MessageID), zap.String("type", note.Type), zap.String("userId", note.UserID))
	return nil
}

func renderBody(user *models.User, note models.Notification) string {
	name := user.DisplayName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", html.EscapeString(name), html.EscapeString(note.Message))
	if note.Link != "" {
		body += fmt.Sprintf(`<p><a href="%s">Open LocalPro</a></p>`, html.EscapeString(note.Link))
	}
	return body
}
