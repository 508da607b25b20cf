package memory

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

type ListingRepository struct {
	s *Store
}

func (r *ListingRepository) Create(_ context.Context, l *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.listings[l.ID] = cloneListing(l)
	return nil
}

func (r *ListingRepository) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return cloneListing(l), nil
}

func (r *ListingRepository) Update(_ context.Context, l *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	r.s.listings[l.ID] = cloneListing(l)
	return nil
}

func (r *ListingRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.s.listings, id)
	// Referential cascade, as the SQL schema does.
	for bid, b := range r.s.bookings {
		if b.ListingID == id {
			delete(r.s.bookings, bid)
		}
	}
	return nil
}

func (r *ListingRepository) List(_ context.Context) ([]*domain.Listing, error) {
	return r.filter(func(*domain.Listing) bool { return true }), nil
}

func (r *ListingRepository) ListBySitter(_ context.Context, sitterID string) ([]*domain.Listing, error) {
	return r.filter(func(l *domain.Listing) bool { return l.SitterID == sitterID }), nil
}

func (r *ListingRepository) filter(keep func(*domain.Listing) bool) []*domain.Listing {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Listing, 0, len(r.s.listings))
	for _, l := range r.s.listings {
		if keep(l) {
			out = append(out, cloneListing(l))
		}
	}
	sortListings(out)
	return out
}
