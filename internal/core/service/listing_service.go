package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// ListingService implements ports.ListingService.
type ListingService struct {
	listings ports.ListingRepository
	bookings ports.BookingRepository
	users    ports.UserRepository
	opts     options
	log      zerolog.Logger
}

func NewListingService(
	listings ports.ListingRepository,
	bookings ports.BookingRepository,
	users ports.UserRepository,
	log zerolog.Logger,
	opts ...Option,
) *ListingService {
	return &ListingService{
		listings: listings,
		bookings: bookings,
		users:    users,
		opts:     buildOptions(opts),
		log:      log,
	}
}

// Create publishes a new listing owned by the calling sitter.
func (s *ListingService) Create(ctx context.Context, caller domain.Identity, in ports.ListingInput) (*ports.ListingView, error) {
	if err := RequireRole(caller, OpCreateListing); err != nil {
		return nil, err
	}
	f, err := validateNewListing(in)
	if err != nil {
		return nil, err
	}

	now := s.opts.now()
	l := &domain.Listing{
		ID:          s.opts.newID(),
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Location:    f.Location,
		SitterID:    caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		s.log.Error().Err(err).Str("sitter_id", caller.ID).Msg("failed to create listing")
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.log.Info().Str("listing_id", l.ID).Str("sitter_id", caller.ID).Msg("listing created")
	return newEnricher(s.users, s.listings).listingView(ctx, l)
}

// List returns every listing. It is public.
func (s *ListingService) List(ctx context.Context) ([]ports.ListingView, error) {
	ls, err := s.listings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return newEnricher(s.users, s.listings).listingViews(ctx, ls)
}

// ListMine returns the calling sitter's listings.
func (s *ListingService) ListMine(ctx context.Context, caller domain.Identity) ([]ports.ListingView, error) {
	if err := RequireRole(caller, OpListMyListings); err != nil {
		return nil, err
	}
	ls, err := s.listings.ListBySitter(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list sitter listings: %w", err)
	}
	return newEnricher(s.users, s.listings).listingViews(ctx, ls)
}

func (s *ListingService) Get(ctx context.Context, id string) (*ports.ListingView, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newEnricher(s.users, s.listings).listingView(ctx, l)
}

// Update merges in into the listing. Only the owning sitter may update it.
func (s *ListingService) Update(ctx context.Context, caller domain.Identity, id string, in ports.ListingInput) (*ports.ListingView, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(caller, OpUpdateListing, l); err != nil {
		s.log.Warn().Str("listing_id", id).Str("caller_id", caller.ID).Msg("listing update denied")
		return nil, err
	}
	f, err := mergeListing(l, in)
	if err != nil {
		return nil, err
	}

	l.Title = f.Title
	l.Description = f.Description
	l.Location = f.Location
	l.Price = f.Price
	l.UpdatedAt = s.opts.now()
	if err := s.listings.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	s.log.Info().Str("listing_id", id).Msg("listing updated")
	return newEnricher(s.users, s.listings).listingView(ctx, l)
}

// Delete removes the listing and every booking that references it.
func (s *ListingService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(caller, OpDeleteListing, l); err != nil {
		s.log.Warn().Str("listing_id", id).Str("caller_id", caller.ID).Msg("listing delete denied")
		return err
	}

	removed, err := s.bookings.DeleteByListing(ctx, id)
	if err != nil {
		return fmt.Errorf("delete listing bookings: %w", err)
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}

	s.log.Info().Str("listing_id", id).Int64("bookings_removed", removed).Msg("listing deleted")
	return nil
}
