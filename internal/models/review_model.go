package models

import "time"

// Review is a client's rating of a provider after a booking.
type Review struct {
	ID         string    `json:"id" firestore:"-"`
	ProviderID string    `json:"providerId" firestore:"providerId"`
	ClientID   string    `json:"clientId" firestore:"clientId"`
	BookingID  string    `json:"bookingId,omitempty" firestore:"bookingId,omitempty"`
	Rating     float64   `json:"rating" firestore:"rating"`
	Comment    string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt"`
}

// Applicant joins a provider profile with the provider's review summary.
type Applicant struct {
	Provider      *User   `json:"provider"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}
