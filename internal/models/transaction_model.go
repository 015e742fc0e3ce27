package models

import "time"

// TransactionStatus is the verification state of a payment.
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionVerified TransactionStatus = "verified"
	TransactionRejected TransactionStatus = "rejected"
)

// Transaction records a payment-affecting event. Only the status fields change after creation.
type Transaction struct {
	ID                 string            `json:"id" firestore:"-"`
	BookingID          string            `json:"bookingId" firestore:"bookingId"`
	ClientID           string            `json:"clientId" firestore:"clientId"`
	ProviderID         string            `json:"providerId" firestore:"providerId"`
	Amount             float64           `json:"amount" firestore:"amount"`
	Method             string            `json:"method" firestore:"method"` // e.g. "gcash", "bank_transfer"
	EncryptedReference string            `json:"-" firestore:"encryptedReference"`
	Status             TransactionStatus `json:"status" firestore:"status"`
	VerifiedAt         *time.Time        `json:"verifiedAt,omitempty" firestore:"verifiedAt,omitempty"`
	VerifiedBy         string            `json:"verifiedBy,omitempty" firestore:"verifiedBy,omitempty"`
	RejectedAt         *time.Time        `json:"rejectedAt,omitempty" firestore:"rejectedAt,omitempty"`
	RejectionReason    string            `json:"rejectionReason,omitempty" firestore:"rejectionReason,omitempty"`
	CreatedAt          time.Time         `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
