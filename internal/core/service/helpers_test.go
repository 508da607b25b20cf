package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
	"github.com/petbnb/marketplace/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var errStorage = errors.New("storage unavailable")

type fixture struct {
	store    *memory.Store
	listings *ListingService
	bookings *BookingService

	sitter      domain.Identity
	otherSitter domain.Identity
	owner       domain.Identity
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	store := memory.NewStore()
	opts = append([]Option{WithIDGenerator(sequentialIDs()), WithClock(fixedClock())}, opts...)

	f := &fixture{
		store:       store,
		listings:    NewListingService(store.Listings(), store.Bookings(), store.Users(), discardLogger, opts...),
		bookings:    NewBookingService(store.Bookings(), store.Listings(), store.Users(), discardLogger, opts...),
		sitter:      domain.Identity{ID: "sitter-1", Role: domain.RoleSitter},
		otherSitter: domain.Identity{ID: "sitter-2", Role: domain.RoleSitter},
		owner:       domain.Identity{ID: "owner-1", Role: domain.RoleOwner},
	}
	f.addUser(t, f.sitter, "Jamie Rivera", "jamie@petbnb.com")
	f.addUser(t, f.otherSitter, "Avery West", "avery@petbnb.com")
	f.addUser(t, f.owner, "Morgan Patel", "morgan@petbnb.com")
	return f
}

func (f *fixture) addUser(t *testing.T, id domain.Identity, name, email string) {
	t.Helper()
	err := f.store.Users().Create(context.Background(), &domain.User{
		ID:           id.ID,
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         id.Role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id.ID, err)
	}
}

func strPtr(s string) *string { return &s }

func validListing(price string) ports.ListingInput {
	return ports.ListingInput{
		Title:       "Sunny backyard bungalow",
		Description: "Fenced yard and daily walks",
		Location:    "Austin, TX",
		Price:       strPtr(price),
	}
}

func bookingInput(listingID, start, end string) ports.CreateBookingInput {
	return ports.CreateBookingInput{ListingID: listingID, StartDate: start, EndDate: end}
}

func (f *fixture) createListing(t *testing.T, caller domain.Identity, price string) string {
	t.Helper()
	v, err := f.listings.Create(context.Background(), caller, validListing(price))
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return v.Listing.ID
}

func (f *fixture) createBooking(t *testing.T, caller domain.Identity, listingID, start, end string) string {
	t.Helper()
	v, err := f.bookings.Create(context.Background(), caller, bookingInput(listingID, start, end))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return v.Booking.ID
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Fatalf("expected error on field %q, got %v", field, verr.Fields)
	}
}
