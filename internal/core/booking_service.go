package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/randy-rebucas/localpro-backend/internal/db"
	"github.com/randy-rebucas/localpro-backend/internal/models"
)

type bookingService struct {
	bookingRepo db.BookingRepository
}

// NewBookingService creates a new BookingService instance.
func NewBookingService(bookingRepo db.BookingRepository) BookingService {
	return &bookingService{bookingRepo: bookingRepo}
}

func (s *bookingService) ListBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	asClient, err := s.bookingRepo.ListByClient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client bookings for '%s': %w", userID, err)
	}
	asProvider, err := s.bookingRepo.ListByProvider(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch provider bookings for '%s': %w", userID, err)
	}

	seen := make(map[string]bool, len(asClient)+len(asProvider))
	bookings := make([]*models.Booking, 0, len(asClient)+len(asProvider))
	for _, b := range append(asClient, asProvider...) {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		bookings = append(bookings, b)
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Date.After(bookings[j].Date)
	})
	return bookings, nil
}
