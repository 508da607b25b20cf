package handler

import (
	"bytes"
	"encoding/json"
	"time"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// scalar accepts a JSON string or number and keeps its text. The original
// clients sent ids and prices either way.
type scalar struct {
	set  bool
	text string
}

func (s *scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = scalar{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = scalar{set: true, text: str}
		return nil
	}
	// Anything else is handed to the core as text and rejected there if it
	// is not numeric.
	*s = scalar{set: true, text: string(b)}
	return nil
}

func (s scalar) ptr() *string {
	if !s.set {
		return nil
	}
	t := s.text
	return &t
}

// --- Requests ---

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type listingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Price       scalar `json:"price" swaggertype:"number"`
}

type createBookingRequest struct {
	ListingID scalar `json:"listingId" swaggertype:"string"`
	StartDate string `json:"startDate" example:"2025-03-01"`
	EndDate   string `json:"endDate"   example:"2025-03-05"`
}

type updateBookingRequest struct {
	Status string `json:"status" enums:"pending,approved,rejected"`
}

// --- Responses ---

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	User  *userResponse `json:"user"`
	Token string        `json:"token"`
}

// listingResponse embeds the sitter under "User", the key existing clients read.
type listingResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Location    string        `json:"location"`
	SitterID    string        `json:"sitterId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	User        *userResponse `json:"User"`
}

// bookingResponse embeds the owner under "User" and the listing under "Listing".
type bookingResponse struct {
	ID        string           `json:"id"`
	ListingID string           `json:"listingId"`
	OwnerID   string           `json:"ownerId"`
	StartDate string           `json:"startDate" example:"2025-03-01"`
	EndDate   string           `json:"endDate"   example:"2025-03-05"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	User      *userResponse    `json:"User"`
	Listing   *listingResponse `json:"Listing"`
}

type messageResponse struct {
	Message string `json:"message"`
}
