package models

import "time"

// Actor identifies who performed an audited action.
type Actor struct {
	ID   string `json:"id" firestore:"id"`
	Name string `json:"name,omitempty" firestore:"name,omitempty"`
	Role Role   `json:"role,omitempty" firestore:"role,omitempty"`
}

// AuditLog represents an administrative action.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	Actor      Actor                  `json:"actor" firestore:"actor"`
	Action     string                 `json:"action" firestore:"action"` // e.g. "JOB_STATUS_UPDATE", "JOB_DELETE"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
