package core

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// Not-found errors.
var (
	ErrJobNotFound          = errors.New("Job not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Permission and state errors.
var (
	ErrForbidden               = errors.New("you do not have permission to perform this action")
	ErrJobNotOpen              = errors.New("job is not open")
	ErrNotApplicant            = errors.New("provider has not applied to this job")
	ErrInvalidTransition       = errors.New("invalid job status transition")
	ErrAlreadyInvited          = errors.New("provider already has a pending invite from this agency")
	ErrAlreadyMember           = errors.New("provider already belongs to this agency")
	ErrPaymentAlreadySubmitted = errors.New("payment for this booking was already submitted")
	ErrPaymentAlreadyResolved  = errors.New("payment was already processed")
)

// ValidationError names the offending request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
