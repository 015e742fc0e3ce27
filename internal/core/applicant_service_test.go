package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

func TestListApplicantsRanksByRating(t *testing.T) {
	job := openJob("job-1", "client-1", "p-new", "p-good", "p-ok", "p-missing", "p-good-more")
	users := newFakeUserRepo(
		&models.User{ID: "p-new", DisplayName: "New"},
		&models.User{ID: "p-good", DisplayName: "Good"},
		&models.User{ID: "p-ok", DisplayName: "Ok"},
		&models.User{ID: "p-good-more", DisplayName: "Good, more reviews"},
	)
	reviews := &fakeReviewRepo{reviews: []*models.Review{
		{ProviderID: "p-good", Rating: 5},
		{ProviderID: "p-good", Rating: 4},
		{ProviderID: "p-good-more", Rating: 4},
		{ProviderID: "p-good-more", Rating: 5},
		{ProviderID: "p-good-more", Rating: 4.5},
		{ProviderID: "p-ok", Rating: 3},
	}}
	svc := NewApplicantService(newFakeJobRepo(job), users, reviews)

	got, err := svc.ListApplicants(context.Background(), "client-1", "job-1")
	if err != nil {
		t.Fatalf("ListApplicants: %v", err)
	}

	want := []struct {
		id    string
		avg   float64
		count int
	}{
		{"p-good-more", 4.5, 3},
		{"p-good", 4.5, 2},
		{"p-ok", 3, 1},
		{"p-new", 0, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("applicants = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		a := got[i]
		if a.Provider.ID != w.id || a.AverageRating != w.avg || a.ReviewCount != w.count {
			t.Errorf("applicant %d = {%s %.1f %d}, want %+v", i, a.Provider.ID, a.AverageRating, a.ReviewCount, w)
		}
	}
}

func TestListApplicantsChunksReviewQueries(t *testing.T) {
	var applicants []string
	var profiles []*models.User
	var revs []*models.Review
	for i := 0; i < 65; i++ {
		id := fmt.Sprintf("p-%02d", i)
		applicants = append(applicants, id)
		profiles = append(profiles, &models.User{ID: id})
		revs = append(revs, &models.Review{ProviderID: id, Rating: 4})
	}
	reviews := &fakeReviewRepo{reviews: revs}
	svc := NewApplicantService(newFakeJobRepo(openJob("job-1", "client-1", applicants...)), newFakeUserRepo(profiles...), reviews)

	got, err := svc.ListApplicants(context.Background(), "client-1", "job-1")
	if err != nil {
		t.Fatalf("ListApplicants: %v", err)
	}
	if len(got) != 65 {
		t.Fatalf("applicants = %d, want 65", len(got))
	}
	if reviews.calls != 3 || reviews.maxChunk != 30 {
		t.Errorf("review queries = %d (max chunk %d), want 3 (30)", reviews.calls, reviews.maxChunk)
	}
	for _, a := range got {
		if a.ReviewCount != 1 {
			t.Fatalf("applicant %s review count = %d, want 1", a.Provider.ID, a.ReviewCount)
		}
	}
}

func TestListApplicantsOwnerOnly(t *testing.T) {
	svc := NewApplicantService(newFakeJobRepo(openJob("job-1", "client-1", "p1")), newFakeUserRepo(), &fakeReviewRepo{})
	if _, err := svc.ListApplicants(context.Background(), "client-2", "job-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestListApplicantsReviewFailure(t *testing.T) {
	reviews := &fakeReviewRepo{err: errStore}
	svc := NewApplicantService(newFakeJobRepo(openJob("job-1", "client-1", "p1")),
		newFakeUserRepo(&models.User{ID: "p1"}), reviews)

	if _, err := svc.ListApplicants(context.Background(), "client-1", "job-1"); !errors.Is(err, errStore) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}

func TestListApplicantsNoApplications(t *testing.T) {
	reviews := &fakeReviewRepo{}
	svc := NewApplicantService(newFakeJobRepo(openJob("job-1", "client-1")), newFakeUserRepo(), reviews)

	got, err := svc.ListApplicants(context.Background(), "client-1", "job-1")
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v; want empty", got, err)
	}
	if reviews.calls != 0 {
		t.Error("no review query expected")
	}
}
