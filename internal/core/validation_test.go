package core

import (
	"errors"
	"testing"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

func TestValidateStructMessages(t *testing.T) {
	tests := []struct {
		name  string
		in    interface{}
		field string
		msg   string
	}{
		{"required", models.AwardJobRequest{}, "providerId", "providerId is required"},
		{"jobstatus", models.UpdateJobStatusRequest{Status: "Done"}, "status", "status must be one of: Open, In Progress, Completed, Closed"},
		{"oneof", models.SubmitPaymentRequest{Amount: 1, Method: "card", Reference: "r"}, "method", "method must be one of: gcash, maya, bank_transfer, cash"},
		{"gt", models.SubmitPaymentRequest{Method: "cash", Reference: "r"}, "amount", "amount must be greater than 0"},
		{"email", models.InviteProviderRequest{Email: "x"}, "email", "email must be a valid email address"},
		{"lte", models.CartItemRequest{ProductID: "p", Quantity: 120}, "quantity", "quantity must be at most 99"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateStruct(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tc.field || verr.Message != tc.msg {
				t.Errorf("got (%q, %q), want (%q, %q)", verr.Field, verr.Message, tc.field, tc.msg)
			}
		})
	}
}

func TestValidateStructAcceptsValidStatus(t *testing.T) {
	if err := validateStruct(models.UpdateJobStatusRequest{Status: models.JobStatusInProgress}); err != nil {
		t.Fatalf("validateStruct: %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(models.JobStatusOpen, models.JobStatusClosed) {
		t.Error("Open -> Closed should be allowed")
	}
	if CanTransition(models.JobStatusCompleted, models.JobStatusInProgress) {
		t.Error("Completed -> In Progress should not be allowed")
	}
}
