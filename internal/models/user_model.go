package models

import "time"

// Role is a marketplace user's role. Admin is granted through a custom auth claim.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAgency   Role = "agency"
	RolePartner  Role = "partner"
	RoleAdmin    Role = "admin"
)

// User is a marketplace profile. The document ID is the Firebase Auth UID.
type User struct {
	ID          string    `json:"id" firestore:"-"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Role        Role      `json:"role" firestore:"role"`
	AgencyID    string    `json:"agencyId,omitempty" firestore:"agencyId,omitempty"`
	IsVerified  bool      `json:"isVerified" firestore:"isVerified"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
