package memory

import (
	"context"

	"github.com/petbnb/marketplace/internal/core/domain"
)

type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) UpdateStatus(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.bookings[b.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	cur.Status = b.Status
	cur.UpdatedAt = b.UpdatedAt
	return nil
}

func (r *BookingRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.OwnerID == ownerID }), nil
}

func (r *BookingRepository) ListByListings(_ context.Context, listingIDs []string) ([]*domain.Booking, error) {
	set := make(map[string]struct{}, len(listingIDs))
	for _, id := range listingIDs {
		set[id] = struct{}{}
	}
	return r.filter(func(b *domain.Booking) bool {
		_, ok := set[b.ListingID]
		return ok
	}), nil
}

func (r *BookingRepository) DeleteByListing(_ context.Context, listingID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, b := range r.s.bookings {
		if b.ListingID == listingID {
			delete(r.s.bookings, id)
			n++
		}
	}
	return n, nil
}

func (r *BookingRepository) filter(keep func(*domain.Booking) bool) []*domain.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sortBookings(out)
	return out
}
