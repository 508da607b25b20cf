package ports

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// BookingRepository persists bookings. Lookups of a missing id return
// domain.ErrBookingNotFound.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// UpdateStatus overwrites the status of one booking. Last write wins.
	UpdateStatus(ctx context.Context, b *domain.Booking) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Booking, error)
	// ListByListings returns bookings referencing any of listingIDs.
	ListByListings(ctx context.Context, listingIDs []string) ([]*domain.Booking, error)
	// DeleteByListing removes every booking that references listingID.
	DeleteByListing(ctx context.Context, listingID string) (int64, error)
}
