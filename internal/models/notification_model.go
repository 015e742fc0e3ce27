package models

import "time"

// Notification is a per-user inbox entry.
type Notification struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	Type      string    `json:"type" firestore:"type"` // e.g. "job_awarded", "payment_verified"
	Title     string    `json:"title" firestore:"title"`
	Message   string    `json:"message" firestore:"message"`
	Link      string    `json:"link,omitempty" firestore:"link,omitempty"`
	Read      bool      `json:"read" firestore:"read"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// NotificationEvent is the message published to the notifications queue.
type NotificationEvent struct {
	MessageID    string       `json:"messageId"`
	Notification Notification `json:"notification"`
}
