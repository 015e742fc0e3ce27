package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

var errNotOpen = errors.New("not open")

func acceptOpen(job *models.Job) error {
	if job.Status != models.JobStatusOpen {
		return errNotOpen
	}
	return nil
}

// emulatorClient connects to the Firestore emulator, or skips when FIRESTORE_EMULATOR_HOST is unset.
// Each test gets its own project ID so runs do not see each other's documents.
func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := firestore.NewClient(ctx, "localpro-test-"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("firestore.NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func awardTo(providerID string) AwardDecision {
	return func(job *models.Job) (*models.Booking, error) {
		if job.Status != models.JobStatusOpen {
			return nil, errNotOpen
		}
		return &models.Booking{
			JobTitle:      job.Title,
			ProviderID:    providerID,
			ClientID:      job.ClientID,
			Price:         job.Budget.Amount,
			Date:          time.Now().UTC(),
			Status:        models.BookingStatusUpcoming,
			PaymentStatus: models.PaymentUnpaid,
		}, nil
	}
}

func TestJobRepositoryApplyAndAward(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	jobs := NewFirestoreJobRepository(client)
	bookings := NewFirestoreBookingRepository(client)

	jobID, err := jobs.Create(ctx, &models.Job{
		Title:    "Fix sink",
		ClientID: "client-1",
		Status:   models.JobStatusOpen,
		Budget:   models.Budget{Amount: 1500, Type: models.BudgetFixed},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := jobs.AddApplicant(ctx, jobID, "provider-1", acceptOpen); err != nil {
			t.Fatalf("AddApplicant: %v", err)
		}
	}
	job, err := jobs.GetByID(ctx, jobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(job.Applications) != 1 {
		t.Fatalf("applications = %v, want one entry", job.Applications)
	}

	booking, err := jobs.Award(ctx, jobID, awardTo("provider-1"))
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if booking.ID == "" || booking.JobID != jobID {
		t.Errorf("booking = %+v", booking)
	}

	job, _ = jobs.GetByID(ctx, jobID)
	if job.Status != models.JobStatusInProgress || job.AwardedProviderID != "provider-1" {
		t.Errorf("job after award = %+v", job)
	}

	if _, err := jobs.Award(ctx, jobID, awardTo("provider-2")); !errors.Is(err, errNotOpen) {
		t.Fatalf("second Award err = %v, want errNotOpen", err)
	}
	if err := jobs.AddApplicant(ctx, jobID, "provider-3", acceptOpen); !errors.Is(err, errNotOpen) {
		t.Fatalf("AddApplicant on awarded job err = %v, want errNotOpen", err)
	}
	list, err := bookings.ListByClient(ctx, "client-1")
	if err != nil {
		t.Fatalf("ListByClient: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("bookings = %d, want 1", len(list))
	}
}

func TestJobRepositoryAbortedAwardWritesNothing(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	jobs := NewFirestoreJobRepository(client)
	bookings := NewFirestoreBookingRepository(client)

	jobID, err := jobs.Create(ctx, &models.Job{Title: "Paint fence", ClientID: "client-2", Status: models.JobStatusClosed})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jobs.Award(ctx, jobID, awardTo("provider-1")); err == nil {
		t.Fatal("expected award of a closed job to fail")
	}
	list, _ := bookings.ListByClient(ctx, "client-2")
	if len(list) != 0 {
		t.Errorf("bookings = %d, want 0", len(list))
	}
}

func TestJobRepositoryNotFound(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	jobs := NewFirestoreJobRepository(client)

	if _, err := jobs.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID err = %v, want ErrNotFound", err)
	}
	if err := jobs.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}
	if err := jobs.UpdateStatus(ctx, "missing", models.JobStatusClosed); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus err = %v, want ErrNotFound", err)
	}
}

func TestInviteRepositoryAccept(t *testing.T) {
	client := emulatorClient(t)
	ctx := context.Background()
	users := NewFirestoreUserRepository(client)
	invites := NewFirestoreInviteRepository(client)

	if err := users.Create(ctx, &models.User{ID: "provider-1", Email: "p@example.com", Role: models.RoleProvider}); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	inviteID, err := invites.Create(ctx, &models.Invite{
		AgencyID: "agency-1", ProviderID: "provider-1", Email: "p@example.com", Status: models.InviteStatusPending,
	})
	if err != nil {
		t.Fatalf("Create invite: %v", err)
	}

	if _, err := invites.Accept(ctx, inviteID, func(*models.Invite) error { return nil }); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	user, err := users.GetByID(ctx, "provider-1")
	if err != nil {
		t.Fatal(err)
	}
	if user.AgencyID != "agency-1" {
		t.Errorf("agencyId = %q, want agency-1", user.AgencyID)
	}
	if _, err := invites.GetByID(ctx, inviteID); !errors.Is(err, ErrNotFound) {
		t.Errorf("invite still present: %v", err)
	}
}
