package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

var testAdmin = models.Actor{ID: "admin-1", Name: "Ops", Role: models.RoleAdmin}

func TestAdminUpdateJobStatusBypassesTransitions(t *testing.T) {
	job := openJob("job-1", "client-1")
	job.Status = models.JobStatusCompleted
	repo := newFakeJobRepo(job)
	audit := &fakeAuditRepo{}
	svc := NewAdminJobService(repo, NewAuditService(audit), zap.NewNop())

	if err := svc.UpdateJobStatus(context.Background(), testAdmin, "job-1", models.JobStatusOpen); err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}
	if got := repo.job("job-1").Status; got != models.JobStatusOpen {
		t.Errorf("status = %q, want Open", got)
	}

	entries := audit.all()
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Action != ActionJobStatusUpdate || e.Actor.ID != "admin-1" || e.TargetID != "job-1" {
		t.Errorf("audit entry = %+v", e)
	}
	if e.Details["status"] != "Open" {
		t.Errorf("details = %v", e.Details)
	}
}

func TestAdminDeleteJobSurvivesAuditFailure(t *testing.T) {
	repo := newFakeJobRepo(openJob("job-1", "client-1"))
	audit := &fakeAuditRepo{err: errStore}
	svc := NewAdminJobService(repo, NewAuditService(audit), zap.NewNop())

	if err := svc.DeleteJob(context.Background(), testAdmin, "job-1"); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), "job-1"); err == nil {
		t.Error("job should be deleted")
	}
}

func TestAdminDeleteMissingJob(t *testing.T) {
	audit := &fakeAuditRepo{}
	svc := NewAdminJobService(newFakeJobRepo(), NewAuditService(audit), zap.NewNop())

	if err := svc.DeleteJob(context.Background(), testAdmin, "nope"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
	if len(audit.all()) != 0 {
		t.Error("failed mutation must not be audited")
	}
}

func TestAdminListAllJobs(t *testing.T) {
	closed := openJob("job-2", "client-2")
	closed.Status = models.JobStatusClosed
	svc := NewAdminJobService(newFakeJobRepo(openJob("job-1", "client-1"), closed), NewAuditService(&fakeAuditRepo{}), zap.NewNop())

	jobs, err := svc.ListAllJobs(context.Background())
	if err != nil {
		t.Fatalf("ListAllJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
}
