package models

import "time"

// InviteStatusPending is the only persisted invite status; invites are deleted once resolved.
const InviteStatusPending = "pending"

// Invite is an agency's invitation for a provider to join it.
type Invite struct {
	ID         string    `json:"id" firestore:"-"`
	AgencyID   string    `json:"agencyId" firestore:"agencyId"`
	AgencyName string    `json:"agencyName,omitempty" firestore:"agencyName,omitempty"`
	ProviderID string    `json:"providerId" firestore:"providerId"`
	Email      string    `json:"email" firestore:"email"`
	Status     string    `json:"status" firestore:"status"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
