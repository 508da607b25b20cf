// Package seed loads the demo marketplace: two sitters, one owner, three
// listings and three bookings. Everything goes through the core services so
// the data obeys the same rules as API traffic.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "demo1234"

type demoUser struct {
	Name  string
	Email string
	Role  string
}

type demoListing struct {
	Sitter      string // email
	Title       string
	Description string
	Price       float64
	Location    string
}

type demoBooking struct {
	Listing   int // index into demoListings
	Owner     string
	StartDate string
	EndDate   string
	Status    domain.BookingStatus
}

var demoUsers = []demoUser{
	{Name: "Jamie Rivera", Email: "jamie@petbnb.com", Role: domain.RoleSitter},
	{Name: "Morgan Patel", Email: "morgan@petbnb.com", Role: domain.RoleOwner},
	{Name: "Avery West", Email: "avery@petbnb.com", Role: domain.RoleSitter},
}

var demoListings = []demoListing{
	{
		Sitter:      "jamie@petbnb.com",
		Title:       "Sunny backyard bungalow",
		Description: "Fenced yard, daily walks, and constant companionship for energetic pups.",
		Price:       62,
		Location:    "Austin, TX",
	},
	{
		Sitter:      "jamie@petbnb.com",
		Title:       "Downtown loft with skyline views",
		Description: "Loft apartment with a cozy sunroom, perfect for cats who love to lounge.",
		Price:       54,
		Location:    "Seattle, WA",
	},
	{
		Sitter:      "avery@petbnb.com",
		Title:       "Quiet suburban retreat",
		Description: "Spacious home with a shaded patio and separate play area for smaller pets.",
		Price:       48,
		Location:    "Columbus, OH",
	},
}

var demoBookings = []demoBooking{
	{Listing: 0, Owner: "morgan@petbnb.com", StartDate: "2024-11-18", EndDate: "2024-11-22", Status: domain.BookingApproved},
	{Listing: 1, Owner: "morgan@petbnb.com", StartDate: "2024-12-05", EndDate: "2024-12-08", Status: domain.BookingPending},
	{Listing: 2, Owner: "morgan@petbnb.com", StartDate: "2025-01-11", EndDate: "2025-01-14", Status: domain.BookingPending},
}

// Services are the core entry points the loader drives.
type Services struct {
	Auth     ports.AuthService
	Listings ports.ListingService
	Bookings ports.BookingService
}

// Summary counts what Run created.
type Summary struct {
	Users    int
	Listings int
	Bookings int
}

// Run creates the demo data. Existing demo accounts are reused, and sitters
// that already have listings are left alone, so running it twice does not
// duplicate anything.
func Run(ctx context.Context, svc Services, log zerolog.Logger) (Summary, error) {
	var sum Summary

	ids := make(map[string]domain.Identity, len(demoUsers))
	for _, u := range demoUsers {
		id, created, err := ensureUser(ctx, svc.Auth, u)
		if err != nil {
			return sum, err
		}
		if created {
			sum.Users++
		}
		ids[u.Email] = id
	}

	seeded := make(map[string]bool)
	for email, id := range ids {
		if !id.IsSitter() {
			continue
		}
		mine, err := svc.Listings.ListMine(ctx, id)
		if err != nil {
			return sum, fmt.Errorf("seed: list listings of %s: %w", email, err)
		}
		seeded[email] = len(mine) > 0
	}

	listingIDs := make([]string, len(demoListings))
	for i, l := range demoListings {
		if seeded[l.Sitter] {
			continue
		}
		price := strconv.FormatFloat(l.Price, 'f', -1, 64)
		v, err := svc.Listings.Create(ctx, ids[l.Sitter], ports.ListingInput{
			Title:       l.Title,
			Description: l.Description,
			Location:    l.Location,
			Price:       &price,
		})
		if err != nil {
			return sum, fmt.Errorf("seed: listing %q: %w", l.Title, err)
		}
		listingIDs[i] = v.Listing.ID
		sum.Listings++
	}

	for _, b := range demoBookings {
		listingID := listingIDs[b.Listing]
		if listingID == "" {
			continue
		}
		v, err := svc.Bookings.Create(ctx, ids[b.Owner], ports.CreateBookingInput{
			ListingID: listingID,
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
		})
		if err != nil {
			return sum, fmt.Errorf("seed: booking %s..%s: %w", b.StartDate, b.EndDate, err)
		}
		if b.Status != domain.BookingPending {
			sitter := ids[demoListings[b.Listing].Sitter]
			if _, err := svc.Bookings.UpdateStatus(ctx, sitter, v.Booking.ID, string(b.Status)); err != nil {
				return sum, fmt.Errorf("seed: set booking status: %w", err)
			}
		}
		sum.Bookings++
	}

	log.Info().
		Int("users", sum.Users).
		Int("listings", sum.Listings).
		Int("bookings", sum.Bookings).
		Msg("demo data loaded")
	return sum, nil
}

// ensureUser signs u up, or logs in when the account already exists.
func ensureUser(ctx context.Context, auth ports.AuthService, u demoUser) (domain.Identity, bool, error) {
	res, err := auth.Signup(ctx, ports.SignupInput{
		Name:     u.Name,
		Email:    u.Email,
		Password: DemoPassword,
		Role:     u.Role,
	})
	created := err == nil
	if errors.Is(err, domain.ErrEmailTaken) {
		res, err = auth.Login(ctx, u.Email, DemoPassword)
	}
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("seed: user %s: %w", u.Email, err)
	}
	return domain.Identity{ID: res.User.ID, Role: res.User.Role}, created, nil
}
