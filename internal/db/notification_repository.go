package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

const notificationsSubcollection = "notifications"

type firestoreNotificationRepository struct {
	client *firestore.Client
}

// NewFirestoreNotificationRepository creates a NotificationRepository backed by the
// users/{uid}/notifications subcollection.
func NewFirestoreNotificationRepository(client *firestore.Client) NotificationRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for NotificationRepository.")
	}
	return &firestoreNotificationRepository{client: client}
}

func (r *firestoreNotificationRepository) inbox(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(notificationsSubcollection)
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, n *models.Notification) (string, error) {
	if n.UserID == "" {
		return "", errors.New("notification userId cannot be empty")
	}
	docRef := r.inbox(n.UserID).NewDoc()
	n.ID = docRef.ID
	if _, err := docRef.Create(ctx, n); err != nil {
		return "", fmt.Errorf("failed to create notification for user '%s': %w", n.UserID, err)
	}
	return docRef.ID, nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	query := r.inbox(userID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	notifications := []*models.Notification{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate notifications for user '%s': %w", userID, err)
		}
		var n models.Notification
		if err := doc.DataTo(&n); err != nil {
			log.Printf("Error decoding notification (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		n.ID = doc.Ref.ID
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	_, err := r.inbox(userID).Doc(notificationID).Update(ctx, []firestore.Update{{Path: "read", Value: true}})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("notification '%s' not found: %w", notificationID, ErrNotFound)
		}
		return fmt.Errorf("failed to mark notification '%s' read: %w", notificationID, err)
	}
	return nil
}
