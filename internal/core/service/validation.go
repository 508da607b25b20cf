package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// checkStruct runs the struct tags of s and folds failures into verr.
func checkStruct(s any, verr *domain.ValidationError) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		verr.Add("payload", err.Error())
		return
	}
	for _, fe := range ve {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// listingFields is a normalized listing payload.
type listingFields struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Price       float64
}

// validateNewListing trims and checks a create payload.
func validateNewListing(in ports.ListingInput) (listingFields, error) {
	f := listingFields{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
	}
	verr := domain.NewValidationError()
	checkStruct(f, verr)

	if in.Price == nil {
		verr.Add("price", "price is required")
	} else if p, msg := parsePrice(*in.Price); msg != "" {
		verr.Add("price", msg)
	} else {
		f.Price = p
	}
	return f, verr.OrNil()
}

// mergeListing applies a partial update onto current. Blank text fields keep
// their previous value; price is replaced whenever it is present.
func mergeListing(current *domain.Listing, in ports.ListingInput) (listingFields, error) {
	f := listingFields{
		Title:       pick(in.Title, current.Title),
		Description: pick(in.Description, current.Description),
		Location:    pick(in.Location, current.Location),
		Price:       current.Price,
	}
	verr := domain.NewValidationError()
	checkStruct(f, verr)

	if in.Price != nil {
		p, msg := parsePrice(*in.Price)
		if msg != "" {
			verr.Add("price", msg)
		} else {
			f.Price = p
		}
	}
	return f, verr.OrNil()
}

func pick(next, prev string) string {
	if s := strings.TrimSpace(next); s != "" {
		return s
	}
	return prev
}

func parsePrice(raw string) (float64, string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, "price is required"
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, "price must be a valid number"
	}
	if p < 0 {
		return 0, "price must not be negative"
	}
	return p, ""
}

type bookingRequest struct {
	ListingID string `json:"listingId" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// bookingFields is a normalized booking request.
type bookingFields struct {
	ListingID string
	Start     time.Time
	End       time.Time
}

// validateNewBooking checks the booking payload. Listing existence is
// resolved by the caller.
func validateNewBooking(in ports.CreateBookingInput) (bookingFields, error) {
	req := bookingRequest{
		ListingID: strings.TrimSpace(in.ListingID),
		StartDate: strings.TrimSpace(in.StartDate),
		EndDate:   strings.TrimSpace(in.EndDate),
	}
	verr := domain.NewValidationError()
	checkStruct(req, verr)

	f := bookingFields{ListingID: req.ListingID}
	var startOK, endOK bool
	if req.StartDate != "" {
		if f.Start, startOK = parseDate(req.StartDate); !startOK {
			verr.Add("startDate", "startDate must be a valid date (YYYY-MM-DD)")
		}
	}
	if req.EndDate != "" {
		if f.End, endOK = parseDate(req.EndDate); !endOK {
			verr.Add("endDate", "endDate must be a valid date (YYYY-MM-DD)")
		}
	}
	if startOK && endOK && !f.Start.Before(f.End) {
		verr.Add("endDate", "endDate must be after startDate")
	}
	return f, verr.OrNil()
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Timestamps are
// reduced to their calendar date in their own offset.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func validateStatus(raw string) (domain.BookingStatus, error) {
	req := statusRequest{Status: raw}
	verr := domain.NewValidationError()
	checkStruct(req, verr)
	if err := verr.OrNil(); err != nil {
		return "", err
	}
	return domain.BookingStatus(req.Status), nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type signupFields struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=owner sitter"`
}

// validateSignup normalizes the signup payload. Email uniqueness is checked
// by the caller against the repository.
func validateSignup(in ports.SignupInput) (signupFields, error) {
	f := signupFields{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Password: in.Password,
		Role:     strings.TrimSpace(in.Role),
	}
	verr := domain.NewValidationError()
	checkStruct(f, verr)
	if len(f.Password) > maxPasswordBytes {
		verr.Add("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return f, verr.OrNil()
}

type loginFields struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func validateLogin(email, password string) (loginFields, error) {
	f := loginFields{Email: normalizeEmail(email), Password: password}
	verr := domain.NewValidationError()
	checkStruct(f, verr)
	return f, verr.OrNil()
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
