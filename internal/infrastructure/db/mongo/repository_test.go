package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/petbnb/marketplace/internal/core/domain"
)

// newTestRepos connects to MONGO_TEST_URI and builds repositories over a
// throwaway database.
func newTestRepos(t *testing.T) (*UserRepository, *ListingRepository, *BookingRepository) {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: fmt.Sprintf("petbnb_test_%d", time.Now().UnixNano())})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return NewUserRepository(db), NewListingRepository(db), NewBookingRepository(db)
}

func TestMongo_UserEmailUnique(t *testing.T) {
	users, _, _ := newTestRepos(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := users.Create(ctx, &domain.User{ID: "u1", Name: "A", Email: "A@x.io", Role: domain.RoleOwner, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := users.Create(ctx, &domain.User{ID: "u2", Name: "B", Email: "a@x.io", Role: domain.RoleSitter, CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	u, err := users.FindByEmail(ctx, "A@X.IO")
	if err != nil || u.ID != "u1" {
		t.Fatalf("find by email: %v %+v", err, u)
	}
	if _, err := users.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMongo_ListingAndBookingLifecycle(t *testing.T) {
	_, listings, bookings := newTestRepos(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	l := &domain.Listing{ID: "l1", Title: "T", Description: "D", Price: 10, Location: "L", SitterID: "s1", CreatedAt: now, UpdatedAt: now}
	if err := listings.Create(ctx, l); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	l.Price = 12.5
	if err := listings.Update(ctx, l); err != nil {
		t.Fatalf("update listing: %v", err)
	}
	got, err := listings.FindByID(ctx, "l1")
	if err != nil || got.Price != 12.5 {
		t.Fatalf("find listing: %v %+v", err, got)
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	b := &domain.Booking{ID: "b1", ListingID: "l1", OwnerID: "o1", StartDate: start, EndDate: start.AddDate(0, 0, 3), Status: domain.BookingPending, CreatedAt: now, UpdatedAt: now}
	if err := bookings.Create(ctx, b); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	b.Status = domain.BookingApproved
	if err := bookings.UpdateStatus(ctx, b); err != nil {
		t.Fatalf("update status: %v", err)
	}
	bs, err := bookings.ListByListings(ctx, []string{"l1"})
	if err != nil || len(bs) != 1 || bs[0].Status != domain.BookingApproved || !bs[0].StartDate.Equal(start) {
		t.Fatalf("list by listings: %v %+v", err, bs)
	}

	if err := listings.Delete(ctx, "l1"); err != nil {
		t.Fatalf("delete listing: %v", err)
	}
	if _, err := bookings.FindByID(ctx, "b1"); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected cascade, got %v", err)
	}
	if err := listings.Delete(ctx, "l1"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}
