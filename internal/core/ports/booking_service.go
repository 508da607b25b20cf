package ports

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// CreateBookingInput is the raw booking request. Dates are unparsed text.
type CreateBookingInput struct {
	ListingID string
	StartDate string
	EndDate   string
}

// BookingView is a booking enriched with its listing (itself enriched with
// the sitter) and the requesting owner's public profile.
type BookingView struct {
	Booking *domain.Booking
	Listing *ListingView
	Owner   *domain.PublicUser
}

// BookingService orchestrates booking creation and status transitions.
type BookingService interface {
	Create(ctx context.Context, caller domain.Identity, in CreateBookingInput) (*BookingView, error)
	ListForOwner(ctx context.Context, caller domain.Identity) ([]BookingView, error)
	ListForSitter(ctx context.Context, caller domain.Identity) ([]BookingView, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, id string, status string) (*BookingView, error)
}
