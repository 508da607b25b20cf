package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingRejected BookingStatus = "rejected"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected:
		return true
	}
	return false
}

// strictTransitions is the one-way machine used when the strict status
// policy is enabled.
var strictTransitions = map[BookingStatus][]BookingStatus{
	BookingPending: {BookingApproved, BookingRejected},
}

// CanTransitionTo reports whether the strict machine allows s -> next.
// Re-setting the current status is always allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range strictTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is an owner's request against a listing for a date range.
// StartDate and EndDate are calendar dates at UTC midnight.
type Booking struct {
	ID        string        `json:"id"`
	ListingID string        `json:"listingId"`
	OwnerID   string        `json:"ownerId"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Overlaps reports whether the half-open ranges [StartDate, EndDate) of b and
// [start, end) intersect.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}
