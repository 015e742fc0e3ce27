package models

import "time"

// BookingStatus tracks fulfilment of an awarded job.
type BookingStatus string

const (
	BookingStatusUpcoming   BookingStatus = "Upcoming"
	BookingStatusInProgress BookingStatus = "In Progress"
	BookingStatusCompleted  BookingStatus = "Completed"
	BookingStatusCancelled  BookingStatus = "Cancelled"
)

// PaymentStatus tracks the client's payment for a booking.
type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "unpaid"
	PaymentPendingVerification PaymentStatus = "pending_verification"
	PaymentPaid                PaymentStatus = "paid"
	PaymentRejected            PaymentStatus = "rejected"
)

// Booking is a service engagement created when a client awards a job.
type Booking struct {
	ID            string        `json:"id" firestore:"-"`
	JobID         string        `json:"jobId" firestore:"jobId"`
	JobTitle      string        `json:"jobTitle" firestore:"jobTitle"`
	ProviderID    string        `json:"providerId" firestore:"providerId"`
	ProviderName  string        `json:"providerName,omitempty" firestore:"providerName,omitempty"`
	ClientID      string        `json:"clientId" firestore:"clientId"`
	ClientName    string        `json:"clientName,omitempty" firestore:"clientName,omitempty"`
	Price         float64       `json:"price" firestore:"price"`
	Date          time.Time     `json:"date" firestore:"date"`
	Status        BookingStatus `json:"status" firestore:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" firestore:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt     time.Time     `json:"updatedAt" firestore:"updatedAt"`
}
