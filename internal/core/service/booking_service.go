package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// BookingService implements ports.BookingService.
type BookingService struct {
	bookings ports.BookingRepository
	listings ports.ListingRepository
	users    ports.UserRepository
	opts     options
	log      zerolog.Logger
}

func NewBookingService(
	bookings ports.BookingRepository,
	listings ports.ListingRepository,
	users ports.UserRepository,
	log zerolog.Logger,
	opts ...Option,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		listings: listings,
		users:    users,
		opts:     buildOptions(opts),
		log:      log,
	}
}

// Create files a pending booking for the calling owner.
func (s *BookingService) Create(ctx context.Context, caller domain.Identity, in ports.CreateBookingInput) (*ports.BookingView, error) {
	if err := RequireRole(caller, OpCreateBooking); err != nil {
		return nil, err
	}
	f, err := validateNewBooking(in)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByID(ctx, f.ListingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, OpCreateBooking, listing); err != nil {
		s.log.Warn().Str("listing_id", listing.ID).Str("caller_id", caller.ID).Msg("self booking denied")
		return nil, err
	}
	if s.opts.rejectOverlap {
		if err := s.checkOverlap(ctx, f); err != nil {
			return nil, err
		}
	}

	now := s.opts.now()
	b := &domain.Booking{
		ID:        s.opts.newID(),
		ListingID: listing.ID,
		OwnerID:   caller.ID,
		StartDate: f.Start,
		EndDate:   f.End,
		Status:    domain.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		s.log.Error().Err(err).Str("listing_id", listing.ID).Msg("failed to create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().
		Str("booking_id", b.ID).
		Str("listing_id", b.ListingID).
		Str("owner_id", b.OwnerID).
		Msg("booking created")

	e := newEnricher(s.users, s.listings)
	if _, err := e.listingView(ctx, listing); err != nil {
		return nil, err
	}
	return e.bookingView(ctx, b)
}

func (s *BookingService) checkOverlap(ctx context.Context, f bookingFields) error {
	existing, err := s.bookings.ListByListings(ctx, []string{f.ListingID})
	if err != nil {
		return fmt.Errorf("check booking overlap: %w", err)
	}
	for _, b := range existing {
		if b.Status != domain.BookingRejected && b.Overlaps(f.Start, f.End) {
			return domain.ErrBookingOverlap
		}
	}
	return nil
}

// ListForOwner returns the bookings the calling owner has requested.
func (s *BookingService) ListForOwner(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error) {
	if err := RequireRole(caller, OpListOwnerBookings); err != nil {
		return nil, err
	}
	bs, err := s.bookings.ListByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list owner bookings: %w", err)
	}
	return newEnricher(s.users, s.listings).bookingViews(ctx, bs)
}

// ListForSitter returns bookings made against the calling sitter's listings.
func (s *BookingService) ListForSitter(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error) {
	if err := RequireRole(caller, OpListSitterBookings); err != nil {
		return nil, err
	}
	ls, err := s.listings.ListBySitter(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list sitter listings: %w", err)
	}
	if len(ls) == 0 {
		return []ports.BookingView{}, nil
	}

	e := newEnricher(s.users, s.listings)
	ids := make([]string, 0, len(ls))
	for _, l := range ls {
		ids = append(ids, l.ID)
		if _, err := e.listingView(ctx, l); err != nil {
			return nil, err
		}
	}
	bs, err := s.bookings.ListByListings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list sitter bookings: %w", err)
	}
	return e.bookingViews(ctx, bs)
}

// UpdateStatus sets the booking's status. Only the sitter who owns the
// booked listing may do so.
func (s *BookingService) UpdateStatus(ctx context.Context, caller domain.Identity, id string, status string) (*ports.BookingView, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	listing, err := s.listings.FindByID(ctx, b.ListingID)
	if err != nil && !errors.Is(err, domain.ErrListingNotFound) {
		return nil, fmt.Errorf("load booking listing: %w", err)
	}
	if err := Authorize(caller, OpUpdateBookingStatus, listing); err != nil {
		s.log.Warn().Str("booking_id", id).Str("caller_id", caller.ID).Msg("booking status update denied")
		return nil, err
	}

	next, err := validateStatus(status)
	if err != nil {
		return nil, err
	}
	if s.opts.statusPolicy == StatusPolicyStrict && !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: from %s to %s", domain.ErrInvalidTransition, b.Status, next)
	}

	prev := b.Status
	b.Status = next
	b.UpdatedAt = s.opts.now()
	if err := s.bookings.UpdateStatus(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.log.Info().
		Str("booking_id", id).
		Str("from", string(prev)).
		Str("to", string(next)).
		Msg("booking status updated")

	e := newEnricher(s.users, s.listings)
	if _, err := e.listingView(ctx, listing); err != nil {
		return nil, err
	}
	return e.bookingView(ctx, b)
}
