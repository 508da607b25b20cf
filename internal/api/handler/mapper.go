package handler

import (
	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// --- Request → Service input ---

func toListingInput(r listingRequest) ports.ListingInput {
	return ports.ListingInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Price:       r.Price.ptr(),
	}
}

func toBookingInput(r createBookingRequest) ports.CreateBookingInput {
	return ports.CreateBookingInput{
		ListingID: r.ListingID.text,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.PublicUser) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{User: toUserResponse(r.User), Token: r.Token}
}

func toListingResponse(v *ports.ListingView) *listingResponse {
	if v == nil || v.Listing == nil {
		return nil
	}
	l := v.Listing
	return &listingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		SitterID:    l.SitterID,
		CreatedAt:   l.CreatedAt.UTC(),
		UpdatedAt:   l.UpdatedAt.UTC(),
		User:        toUserResponse(v.Sitter),
	}
}

func toListingResponses(vs []ports.ListingView) []*listingResponse {
	out := make([]*listingResponse, 0, len(vs))
	for i := range vs {
		out = append(out, toListingResponse(&vs[i]))
	}
	return out
}

func toBookingResponse(v *ports.BookingView) *bookingResponse {
	b := v.Booking
	return &bookingResponse{
		ID:        b.ID,
		ListingID: b.ListingID,
		OwnerID:   b.OwnerID,
		StartDate: b.StartDate.Format(domain.DateLayout),
		EndDate:   b.EndDate.Format(domain.DateLayout),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
		User:      toUserResponse(v.Owner),
		Listing:   toListingResponse(v.Listing),
	}
}

func toBookingResponses(vs []ports.BookingView) []*bookingResponse {
	out := make([]*bookingResponse, 0, len(vs))
	for i := range vs {
		out = append(out, toBookingResponse(&vs[i]))
	}
	return out
}
