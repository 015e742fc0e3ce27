package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/randy-rebucas/localpro-backend/internal/models"
)

const reviewsCollection = "reviews"

// MaxInQueryValues is the largest value list Firestore accepts for an "in" filter.
const MaxInQueryValues = 30

type firestoreReviewRepository struct {
	client *firestore.Client
}

// NewFirestoreReviewRepository creates a ReviewRepository backed by Firestore.
func NewFirestoreReviewRepository(client *firestore.Client) ReviewRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ReviewRepository.")
	}
	return &firestoreReviewRepository{client: client}
}

func (r *firestoreReviewRepository) ListByProviders(ctx context.Context, providerIDs []string) ([]*models.Review, error) {
	if len(providerIDs) == 0 {
		return []*models.Review{}, nil
	}
	if len(providerIDs) > MaxInQueryValues {
		return nil, fmt.Errorf("ListByProviders accepts at most %d provider IDs, got %d", MaxInQueryValues, len(providerIDs))
	}
	iter := r.client.Collection(reviewsCollection).Where("providerId", "in", providerIDs).Documents(ctx)
	defer iter.Stop()

	reviews := []*models.Review{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate reviews: %w", err)
		}
		var rev models.Review
		if err := doc.DataTo(&rev); err != nil {
			log.Printf("Error decoding review data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		rev.ID = doc.Ref.ID
		reviews = append(reviews, &rev)
	}
	return reviews, nil
}
