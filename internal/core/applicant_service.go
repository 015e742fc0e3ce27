package core

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

type applicantService struct {
	jobRepo    db.JobRepository
	userRepo   db.UserRepository
	reviewRepo db.ReviewRepository
}

// NewApplicantService creates a new ApplicantService instance.
func NewApplicantService(jobRepo db.JobRepository, userRepo db.UserRepository, reviewRepo db.ReviewRepository) ApplicantService {
	return &applicantService{jobRepo: jobRepo, userRepo: userRepo, reviewRepo: reviewRepo}
}

// ListApplicants joins each applicant's profile with their review average.
// Applicants without a profile are skipped. Order: average rating desc, review count desc, application order.
func (s *applicantService) ListApplicants(ctx context.Context, clientID, jobID string) ([]*models.Applicant, error) {
	if err := requireIDs("jobId", jobID, "clientId", clientID); err != nil {
		return nil, err
	}
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapJobError(err, jobID)
	}
	if job.ClientID != clientID {
		return nil, ErrForbidden
	}
	if len(job.Applications) == 0 {
		return []*models.Applicant{}, nil
	}

	providers, err := s.userRepo.GetByIDs(ctx, job.Applications)
	if err != nil {
		return nil, fmt.Errorf("failed to load applicant profiles for job '%s': %w", jobID, err)
	}
	ids := make([]string, len(providers))
	for i, p := range providers {
		ids[i] = p.ID
	}

	reviews, err := s.loadReviews(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for job '%s' applicants: %w", jobID, err)
	}
	return RankApplicants(providers, reviews), nil
}

// loadReviews runs one "in" query per chunk of ids, concurrently.
func (s *applicantService) loadReviews(ctx context.Context, providerIDs []string) ([]*models.Review, error) {
	chunks := chunkIDs(providerIDs, db.MaxInQueryValues)
	results := make([][]*models.Review, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			reviews, err := s.reviewRepo.ListByProviders(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = reviews
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*models.Review
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// RankApplicants groups reviews per provider and sorts the providers.
// The input order of providers breaks ties.
func RankApplicants(providers []*models.User, reviews []*models.Review) []*models.Applicant {
	type tally struct {
		sum   float64
		count int
	}
	byProvider := make(map[string]*tally, len(providers))
	for _, r := range reviews {
		t, ok := byProvider[r.ProviderID]
		if !ok {
			t = &tally{}
			byProvider[r.ProviderID] = t
		}
		t.sum += r.Rating
		t.count++
	}

	applicants := make([]*models.Applicant, 0, len(providers))
	for _, p := range providers {
		a := &models.Applicant{Provider: p}
		if t, ok := byProvider[p.ID]; ok && t.count > 0 {
			a.AverageRating = math.Round(t.sum/float64(t.count)*10) / 10
			a.ReviewCount = t.count
		}
		applicants = append(applicants, a)
	}

	sort.SliceStable(applicants, func(i, j int) bool {
		if applicants[i].AverageRating != applicants[j].AverageRating {
			return applicants[i].AverageRating > applicants[j].AverageRating
		}
		return applicants[i].ReviewCount > applicants[j].ReviewCount
	})
	return applicants
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
