// Package memory provides process-local repositories. They back the service
// tests and the STORAGE=memory mode used for local development.
package memory

import (
	"sort"
	"sync"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// Store holds every table behind one lock so cascades see a consistent view.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	listings map[string]*domain.Listing
	bookings map[string]*domain.Booking
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		listings: make(map[string]*domain.Listing),
		bookings: make(map[string]*domain.Booking),
	}
}

// Users, Listings and Bookings return repositories sharing s.
func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Listings() *ListingRepository { return &ListingRepository{s: s} }
func (s *Store) Bookings() *BookingRepository { return &BookingRepository{s: s} }

func cloneListing(l *domain.Listing) *domain.Listing {
	c := *l
	return &c
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

func sortListings(ls []*domain.Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
			return ls[i].ID < ls[j].ID
		}
		return ls[i].CreatedAt.Before(ls[j].CreatedAt)
	})
}

func sortBookings(bs []*domain.Booking) {
	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].ID < bs[j].ID
		}
		return bs[i].CreatedAt.Before(bs[j].CreatedAt)
	})
}
