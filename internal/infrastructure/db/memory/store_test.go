package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petbnb/marketplace/internal/core/domain"
)

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	repo := NewStore().Users()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{ID: "u1", Email: "Jamie@PetBnB.com"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &domain.User{ID: "u2", Email: "jamie@petbnb.com"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	u, err := repo.FindByEmail(ctx, "JAMIE@petbnb.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u.ID != "u1" || u.Email != "jamie@petbnb.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := repo.FindByID(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListingRepository_ReturnsCopies(t *testing.T) {
	repo := NewStore().Listings()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.Listing{ID: "l1", Title: "before"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	l, _ := repo.FindByID(ctx, "l1")
	l.Title = "mutated"

	again, _ := repo.FindByID(ctx, "l1")
	if again.Title != "before" {
		t.Fatalf("repository state leaked through returned pointer")
	}
}

func TestListingRepository_DeleteCascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	_ = store.Listings().Create(ctx, &domain.Listing{ID: "l1"})
	_ = store.Listings().Create(ctx, &domain.Listing{ID: "l2"})
	_ = store.Bookings().Create(ctx, &domain.Booking{ID: "b1", ListingID: "l1"})
	_ = store.Bookings().Create(ctx, &domain.Booking{ID: "b2", ListingID: "l2"})

	if err := store.Listings().Delete(ctx, "l1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Bookings().FindByID(ctx, "b1"); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected b1 gone, got %v", err)
	}
	if _, err := store.Bookings().FindByID(ctx, "b2"); err != nil {
		t.Fatalf("b2 should remain: %v", err)
	}
	if err := store.Listings().Delete(ctx, "l1"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestBookingRepository_ListingsOrderedByCreation(t *testing.T) {
	repo := NewStore().Bookings()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, &domain.Booking{ID: "b3", ListingID: "l1", CreatedAt: base.Add(2 * time.Hour)})
	_ = repo.Create(ctx, &domain.Booking{ID: "b1", ListingID: "l1", CreatedAt: base})
	_ = repo.Create(ctx, &domain.Booking{ID: "b2", ListingID: "l2", CreatedAt: base.Add(time.Hour)})
	_ = repo.Create(ctx, &domain.Booking{ID: "b4", ListingID: "l3", CreatedAt: base})

	got, err := repo.ListByListings(ctx, []string{"l1", "l2"})
	if err != nil {
		t.Fatalf("ListByListings: %v", err)
	}
	if len(got) != 3 || got[0].ID != "b1" || got[1].ID != "b2" || got[2].ID != "b3" {
		t.Fatalf("unexpected order: %+v", got)
	}

	n, err := repo.DeleteByListing(ctx, "l1")
	if err != nil || n != 2 {
		t.Fatalf("DeleteByListing = %d, %v; want 2", n, err)
	}
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	repo := NewStore().Bookings()
	ctx := context.Background()
	_ = repo.Create(ctx, &domain.Booking{ID: "b1", Status: domain.BookingPending})

	if err := repo.UpdateStatus(ctx, &domain.Booking{ID: "b1", Status: domain.BookingApproved}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	b, _ := repo.FindByID(ctx, "b1")
	if b.Status != domain.BookingApproved {
		t.Fatalf("expected approved, got %s", b.Status)
	}
	if err := repo.UpdateStatus(ctx, &domain.Booking{ID: "nope"}); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
