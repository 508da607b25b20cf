package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// enricher resolves related records for one operation. It memoizes lookups so
// a list of N bookings on the same listing costs one listing read.
type enricher struct {
	users    ports.UserRepository
	listings ports.ListingRepository

	userCache    map[string]*domain.PublicUser
	listingCache map[string]*ports.ListingView
}

func newEnricher(users ports.UserRepository, listings ports.ListingRepository) *enricher {
	return &enricher{
		users:        users,
		listings:     listings,
		userCache:    make(map[string]*domain.PublicUser),
		listingCache: make(map[string]*ports.ListingView),
	}
}

// user returns the public profile for id, or nil when the account is gone.
func (e *enricher) user(ctx context.Context, id string) (*domain.PublicUser, error) {
	if u, ok := e.userCache[id]; ok {
		return u, nil
	}
	u, err := e.users.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("resolve user %s: %w", id, err)
	}
	pub := u.Public()
	e.userCache[id] = pub
	return pub, nil
}

func (e *enricher) listingView(ctx context.Context, l *domain.Listing) (*ports.ListingView, error) {
	if v, ok := e.listingCache[l.ID]; ok {
		return v, nil
	}
	sitter, err := e.user(ctx, l.SitterID)
	if err != nil {
		return nil, err
	}
	v := &ports.ListingView{Listing: l, Sitter: sitter}
	e.listingCache[l.ID] = v
	return v, nil
}

func (e *enricher) listingViews(ctx context.Context, ls []*domain.Listing) ([]ports.ListingView, error) {
	out := make([]ports.ListingView, 0, len(ls))
	for _, l := range ls {
		v, err := e.listingView(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// listingByID resolves a booking's listing; nil when it has been deleted.
func (e *enricher) listingByID(ctx context.Context, id string) (*ports.ListingView, error) {
	if v, ok := e.listingCache[id]; ok {
		return v, nil
	}
	l, err := e.listings.FindByID(ctx, id)
	if errors.Is(err, domain.ErrListingNotFound) {
		e.listingCache[id] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve listing %s: %w", id, err)
	}
	return e.listingView(ctx, l)
}

func (e *enricher) bookingView(ctx context.Context, b *domain.Booking) (*ports.BookingView, error) {
	listing, err := e.listingByID(ctx, b.ListingID)
	if err != nil {
		return nil, err
	}
	owner, err := e.user(ctx, b.OwnerID)
	if err != nil {
		return nil, err
	}
	return &ports.BookingView{Booking: b, Listing: listing, Owner: owner}, nil
}

func (e *enricher) bookingViews(ctx context.Context, bs []*domain.Booking) ([]ports.BookingView, error) {
	out := make([]ports.BookingView, 0, len(bs))
	for _, b := range bs {
		v, err := e.bookingView(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}
