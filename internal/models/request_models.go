package models

import "time"

// CreateJobRequest represents the request body for posting a new job.
type CreateJobRequest struct {
	Title        string `json:"title" validate:"required,max=120"`
	Description  string `json:"description" validate:"required,max=5000"`
	CategoryName string `json:"categoryName" validate:"required"`
	Budget       struct {
		Amount     float64    `json:"amount" validate:"gt=0"`
		Type       BudgetType `json:"type" validate:"required,oneof=Fixed Daily Monthly"`
		Negotiable bool       `json:"negotiable"`
	} `json:"budget"`
	Location string `json:"location" validate:"required"`
}

// UpdateJobStatusRequest represents the request body for changing a job's status.
type UpdateJobStatusRequest struct {
	Status JobStatus `json:"status" validate:"required,jobstatus"`
}

// AwardJobRequest represents the request body for awarding a job to one applicant.
// Date is optional; the booking defaults to the time of award.
type AwardJobRequest struct {
	ProviderID string     `json:"providerId" validate:"required"`
	Date       *time.Time `json:"date,omitempty"`
}

// SubmitPaymentRequest represents a client's proof of payment for a booking.
type SubmitPaymentRequest struct {
	Amount    float64 `json:"amount" validate:"gt=0"`
	Method    string  `json:"method" validate:"required,oneof=gcash maya bank_transfer cash"`
	Reference string  `json:"reference" validate:"required,max=64"`
}

// RejectPaymentRequest carries the admin's reason for rejecting a payment.
type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// InviteProviderRequest represents an agency inviting a provider by email.
type InviteProviderRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CartItemRequest adds, updates or (with quantity 0) removes a cart line.
type CartItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"max=200"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gte=0,lte=99"`
}
