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

type firestoreBookingRepository struct {
	client *firestore.Client
}

// NewFirestoreBookingRepository creates a BookingRepository backed by Firestore.
func NewFirestoreBookingRepository(client *firestore.Client) BookingRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for BookingRepository.")
	}
	return &firestoreBookingRepository{client: client}
}

func (r *firestoreBookingRepository) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if bookingID == "" {
		return nil, errors.New("bookingID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(bookingsCollection).Doc(bookingID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("booking with ID '%s' not found: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking with ID '%s': %w", bookingID, err)
	}
	return decodeBooking(docSnap)
}

func (r *firestoreBookingRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Booking, error) {
	return r.listBy(ctx, "clientId", clientID)
}

func (r *firestoreBookingRepository) ListByProvider(ctx context.Context, providerID string) ([]*models.Booking, error) {
	return r.listBy(ctx, "providerId", providerID)
}

func (r *firestoreBookingRepository) listBy(ctx context.Context, field, value string) ([]*models.Booking, error) {
	if value == "" {
		return nil, fmt.Errorf("%s cannot be empty when listing bookings", field)
	}
	iter := r.client.Collection(bookingsCollection).Where(field, "==", value).OrderBy("date", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	bookings := []*models.Booking{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate bookings for %s '%s': %w", field, value, err)
		}
		b, err := decodeBooking(doc)
		if err != nil {
			log.Printf("Error decoding booking data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func decodeBooking(doc *firestore.DocumentSnapshot) (*models.Booking, error) {
	var b models.Booking
	if err := doc.DataTo(&b); err != nil {
		return nil, fmt.Errorf("failed to decode booking data for ID '%s': %w", doc.Ref.ID, err)
	}
	b.ID = doc.Ref.ID
	return &b, nil
}
