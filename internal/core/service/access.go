package service

import "github.com/petbnb/marketplace/internal/core/domain"

// Operation names a guarded action.
type Operation int

const (
	OpCreateListing Operation = iota
	OpListMyListings
	OpUpdateListing
	OpDeleteListing
	OpCreateBooking
	OpListOwnerBookings
	OpListSitterBookings
	OpUpdateBookingStatus
)

var requiredRole = map[Operation]string{
	OpCreateListing:       domain.RoleSitter,
	OpListMyListings:      domain.RoleSitter,
	OpUpdateListing:       domain.RoleSitter,
	OpDeleteListing:       domain.RoleSitter,
	OpCreateBooking:       domain.RoleOwner,
	OpListOwnerBookings:   domain.RoleOwner,
	OpListSitterBookings:  domain.RoleSitter,
	OpUpdateBookingStatus: domain.RoleSitter,
}

// RequireRole checks only the role half of op's rule. It is enough on its own
// for operations without a target listing.
func RequireRole(caller domain.Identity, op Operation) error {
	role, ok := requiredRole[op]
	if !ok || caller.ID == "" || caller.Role != role {
		return domain.ErrUnauthorized
	}
	return nil
}

// Authorize applies the full rule for op against the listing it targets.
// For booking operations the listing is the one the booking references.
// A nil listing fails every ownership rule.
func Authorize(caller domain.Identity, op Operation, listing *domain.Listing) error {
	if err := RequireRole(caller, op); err != nil {
		return err
	}

	switch op {
	case OpUpdateListing, OpDeleteListing, OpUpdateBookingStatus:
		if !listing.OwnedBy(caller.ID) {
			return domain.ErrUnauthorized
		}
	case OpCreateBooking:
		// No self-booking, even though a single role per user already
		// prevents it.
		if listing == nil || listing.OwnedBy(caller.ID) {
			return domain.ErrUnauthorized
		}
	}
	return nil
}
