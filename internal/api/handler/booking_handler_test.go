package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

type stubBookingService struct {
	createFn        func(ctx context.Context, caller domain.Identity, in ports.CreateBookingInput) (*ports.BookingView, error)
	listForOwnerFn  func(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error)
	listForSitterFn func(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error)
	updateStatusFn  func(ctx context.Context, caller domain.Identity, id, status string) (*ports.BookingView, error)
}

func (s *stubBookingService) Create(ctx context.Context, caller domain.Identity, in ports.CreateBookingInput) (*ports.BookingView, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubBookingService) ListForOwner(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error) {
	return s.listForOwnerFn(ctx, caller)
}

func (s *stubBookingService) ListForSitter(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error) {
	return s.listForSitterFn(ctx, caller)
}

func (s *stubBookingService) UpdateStatus(ctx context.Context, caller domain.Identity, id, status string) (*ports.BookingView, error) {
	return s.updateStatusFn(ctx, caller, id, status)
}

var ownerIdentity = domain.Identity{ID: "o1", Role: domain.RoleOwner}

func sampleBookingView(status domain.BookingStatus) *ports.BookingView {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &ports.BookingView{
		Booking: &domain.Booking{
			ID:        "b1",
			ListingID: "l1",
			OwnerID:   "o1",
			StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			Status:    status,
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		Listing: sampleListingView("l1"),
		Owner:   &domain.PublicUser{ID: "o1", Name: "Olive", Email: "olive@example.com", Role: domain.RoleOwner},
	}
}

func TestBookingHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{
		createFn: func(ctx context.Context, caller domain.Identity, in ports.CreateBookingInput) (*ports.BookingView, error) {
			if caller != ownerIdentity {
				t.Fatalf("unexpected caller %+v", caller)
			}
			want := ports.CreateBookingInput{ListingID: "7", StartDate: "2025-03-01", EndDate: "2025-03-05"}
			if in != want {
				t.Fatalf("unexpected input %+v", in)
			}
			return sampleBookingView(domain.BookingPending), nil
		},
	}
	h := NewBookingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/bookings",
		`{"listingId":7,"startDate":"2025-03-01","endDate":"2025-03-05"}`), rec)
	withIdentity(c, ownerIdentity)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "pending" || resp["startDate"] != "2025-03-01" || resp["endDate"] != "2025-03-05" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["User"].(map[string]any); !ok {
		t.Fatalf("expected embedded owner under User")
	}
	listing, ok := resp["Listing"].(map[string]any)
	if !ok || listing["id"] != "l1" {
		t.Fatalf("expected embedded listing under Listing, got %+v", resp["Listing"])
	}
	if _, ok := listing["User"].(map[string]any); !ok {
		t.Fatalf("expected listing sitter embedded")
	}
}

func TestBookingHandler_Create_Overlap(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{
		createFn: func(ctx context.Context, caller domain.Identity, in ports.CreateBookingInput) (*ports.BookingView, error) {
			return nil, domain.ErrBookingOverlap
		},
	}
	h := NewBookingHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/bookings",
		`{"listingId":"l1","startDate":"2025-03-01","endDate":"2025-03-05"}`), httptest.NewRecorder())
	withIdentity(c, ownerIdentity)

	if err := h.Create(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestBookingHandler_ListForSitter_Empty(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{
		listForSitterFn: func(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error) {
			return []ports.BookingView{}, nil
		},
	}
	h := NewBookingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/bookings/sitter", nil), rec)
	withIdentity(c, sitterIdentity)

	if err := h.ListForSitter(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestBookingHandler_ListForOwner(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{
		listForOwnerFn: func(ctx context.Context, caller domain.Identity) ([]ports.BookingView, error) {
			return []ports.BookingView{*sampleBookingView(domain.BookingPending), *sampleBookingView(domain.BookingApproved)}, nil
		},
	}
	h := NewBookingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/bookings/owner", nil), rec)
	withIdentity(c, ownerIdentity)

	if err := h.ListForOwner(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[1].Status != "approved" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestBookingHandler_UpdateStatus(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{
		updateStatusFn: func(ctx context.Context, caller domain.Identity, id, status string) (*ports.BookingView, error) {
			if id != "b1" || status != "approved" {
				t.Fatalf("unexpected args: %s %s", id, status)
			}
			return sampleBookingView(domain.BookingApproved), nil
		},
	}
	h := NewBookingHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/bookings/b1", `{"status":"approved"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	withIdentity(c, sitterIdentity)

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "approved" {
		t.Fatalf("expected approved, got %q", resp.Status)
	}
}

func TestBookingHandler_UpdateStatus_InvalidValue(t *testing.T) {
	e := newTestEcho()
	stub := &stubBookingService{
		updateStatusFn: func(ctx context.Context, caller domain.Identity, id, status string) (*ports.BookingView, error) {
			verr := domain.NewValidationError()
			verr.Add("status", "status must be one of: pending approved rejected")
			return nil, verr
		},
	}
	h := NewBookingHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPut, "/api/bookings/b1", `{"status":"cancelled"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("b1")
	withIdentity(c, sitterIdentity)

	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
