package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

const (
	jobsCollection     = "jobs"
	bookingsCollection = "bookings"
)

// firestoreJobRepository implements the JobRepository interface using Firestore.
type firestoreJobRepository struct {
	client *firestore.Client
}

// NewFirestoreJobRepository creates a new instance of firestoreJobRepository.
func NewFirestoreJobRepository(client *firestore.Client) JobRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for JobRepository.")
	}
	return &firestoreJobRepository{client: client}
}

// Create adds a new job document with an auto-generated ID.
func (r *firestoreJobRepository) Create(ctx context.Context, job *models.Job) (string, error) {
	docRef := r.client.Collection(jobsCollection).NewDoc()
	job.ID = docRef.ID
	if job.Applications == nil {
		// Stored as an empty array so array-contains and ArrayUnion behave from the first apply.
		job.Applications = []string{}
	}
	if _, err := docRef.Create(ctx, job); err != nil {
		return "", fmt.Errorf("failed to create job: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a job document by its ID.
func (r *firestoreJobRepository) GetByID(ctx context.Context, jobID string) (*models.Job, error) {
	if jobID == "" {
		return nil, errors.New("jobID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(jobsCollection).Doc(jobID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("job with ID '%s' not found: %w", jobID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job with ID '%s': %w", jobID, err)
	}
	return decodeJob(docSnap)
}

// ListByStatus returns all jobs with the given status, newest first.
func (r *firestoreJobRepository) ListByStatus(ctx context.Context, status models.JobStatus) ([]*models.Job, error) {
	return r.collect(ctx, r.statusQuery(status), "status "+string(status))
}

// ListByClient returns all jobs posted by a client, newest first.
func (r *firestoreJobRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Job, error) {
	if clientID == "" {
		return nil, errors.New("clientID cannot be empty for ListByClient operation")
	}
	query := r.client.Collection(jobsCollection).Where("clientId", "==", clientID).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, "client "+clientID)
}

// ListByApplicant returns all jobs a provider has applied to, newest first.
func (r *firestoreJobRepository) ListByApplicant(ctx context.Context, providerID string) ([]*models.Job, error) {
	if providerID == "" {
		return nil, errors.New("providerID cannot be empty for ListByApplicant operation")
	}
	query := r.client.Collection(jobsCollection).Where("applications", "array-contains", providerID).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, "provider "+providerID)
}

// ListAll returns every job, newest first. Used by the admin dashboard.
func (r *firestoreJobRepository) ListAll(ctx context.Context) ([]*models.Job, error) {
	return r.collect(ctx, r.client.Collection(jobsCollection).OrderBy("createdAt", firestore.Desc), "all")
}

// AddApplicant adds providerID to the job's applications with set-union semantics. The job is
// read and checked inside the same transaction, so a concurrent status change cannot slip between.
func (r *firestoreJobRepository) AddApplicant(ctx context.Context, jobID, providerID string, check ApplicationDecision) error {
	jobRef := r.client.Collection(jobsCollection).Doc(jobID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(jobRef)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("job with ID '%s' not found: %w", jobID, ErrNotFound)
			}
			return err
		}
		job, err := decodeJob(snap)
		if err != nil {
			return err
		}
		if err := check(job); err != nil {
			return err
		}
		return tx.Update(jobRef, []firestore.Update{
			{Path: "applications", Value: firestore.ArrayUnion(providerID)},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		return fmt.Errorf("failed to add applicant '%s' to job '%s': %w", providerID, jobID, err)
	}
	return nil
}

// UpdateStatus sets the job's status and stamps updatedAt.
func (r *firestoreJobRepository) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus) error {
	_, err := r.client.Collection(jobsCollection).Doc(jobID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("job with ID '%s' not found: %w", jobID, ErrNotFound)
		}
		return fmt.Errorf("failed to update status of job '%s': %w", jobID, err)
	}
	return nil
}

// Delete hard-deletes a job. The Exists precondition turns a missing job into ErrNotFound.
func (r *firestoreJobRepository) Delete(ctx context.Context, jobID string) error {
	_, err := r.client.Collection(jobsCollection).Doc(jobID).Delete(ctx, firestore.Exists)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("job with ID '%s' not found for deletion: %w", jobID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete job with ID '%s': %w", jobID, err)
	}
	return nil
}

// Award runs the job-to-booking transition in a single transaction.
// Firestore may retry the function on contention, so decide must not have side effects.
func (r *firestoreJobRepository) Award(ctx context.Context, jobID string, decide AwardDecision) (*models.Booking, error) {
	jobRef := r.client.Collection(jobsCollection).Doc(jobID)
	var booking *models.Booking

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(jobRef)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("job with ID '%s' not found: %w", jobID, ErrNotFound)
			}
			return err
		}
		job, err := decodeJob(snap)
		if err != nil {
			return err
		}

		b, err := decide(job)
		if err != nil {
			return err
		}

		bookingRef := r.client.Collection(bookingsCollection).NewDoc()
		b.ID = bookingRef.ID
		b.JobID = jobID
		if err := tx.Create(bookingRef, b); err != nil {
			return err
		}
		if err := tx.Update(jobRef, []firestore.Update{
			{Path: "status", Value: string(models.JobStatusInProgress)},
			{Path: "awardedProviderId", Value: b.ProviderID},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("award transaction for job '%s' failed: %w", jobID, err)
	}
	return booking, nil
}

// WatchByStatus streams query snapshots of jobs with the given status until ctx is cancelled.
func (r *firestoreJobRepository) WatchByStatus(ctx context.Context, status models.JobStatus, onChange func([]*models.Job)) error {
	iter := r.statusQuery(status).Snapshots(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("job snapshot listener for status '%s' failed: %w", status, err)
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("failed to read job snapshot: %w", err)
		}
		jobs := make([]*models.Job, 0, len(docs))
		for _, doc := range docs {
			job, err := decodeJob(doc)
			if err != nil {
				log.Printf("Error decoding job data (ID: %s) in snapshot: %v. Skipping.", doc.Ref.ID, err)
				continue
			}
			jobs = append(jobs, job)
		}
		onChange(jobs)
	}
}

func (r *firestoreJobRepository) statusQuery(status models.JobStatus) firestore.Query {
	return r.client.Collection(jobsCollection).Where("status", "==", string(status)).OrderBy("createdAt", firestore.Desc)
}

func (r *firestoreJobRepository) collect(ctx context.Context, query firestore.Query, label string) ([]*models.Job, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	jobs := []*models.Job{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate jobs (%s): %w", label, err)
		}
		job, err := decodeJob(doc)
		if err != nil {
			log.Printf("Error decoding job data (ID: %s) for %s: %v. Skipping.", doc.Ref.ID, label, err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func decodeJob(doc *firestore.DocumentSnapshot) (*models.Job, error) {
	var job models.Job
	if err := doc.DataTo(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job data for ID '%s': %w", doc.Ref.ID, err)
	}
	job.ID = doc.Ref.ID
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = job.CreatedAt
	}
	return &job, nil
}
