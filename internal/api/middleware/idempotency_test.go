package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/petbnb/marketplace/internal/api/handler"
	"github.com/petbnb/marketplace/internal/core/ports"
)

type mapStore struct {
	mu         sync.Mutex
	data       map[string]ports.StoredResponse
	held       map[string]bool
	lookupErr  error
	reserveErr error
	// onReserve runs after a successful claim, before Reserve returns.
	onReserve func(key string)
	released  int
}

func newMapStore() *mapStore {
	return &mapStore{
		data: make(map[string]ports.StoredResponse),
		held: make(map[string]bool),
	}
}

func (s *mapStore) Lookup(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	r, ok := s.data[key]
	if !ok {
		return nil, ports.ErrIdempotencyMiss
	}
	return &r, nil
}

func (s *mapStore) Save(_ context.Context, key string, resp ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = resp
	return nil
}

func (s *mapStore) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	if s.reserveErr != nil {
		s.mu.Unlock()
		return false, s.reserveErr
	}
	if s.held[key] {
		s.mu.Unlock()
		return false, nil
	}
	s.held[key] = true
	hook := s.onReserve
	s.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	return true, nil
}

func (s *mapStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, key)
	s.released++
	return nil
}

// serve runs the middleware around a handler that counts invocations and
// answers with status.
func serve(t *testing.T, store ports.IdempotencyStore, userID, key string, status int, calls *int) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(`{"title":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(handler.CtxUserID, userID)

	h := Idempotency(store, zerolog.Nop())(func(c echo.Context) error {
		*calls++
		return c.JSON(status, map[string]int{"call": *calls})
	})
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestIdempotency_ReplaysSuccessfulResponse(t *testing.T) {
	store := newMapStore()
	calls := 0

	first := serve(t, store, "u1", "abc", http.StatusCreated, &calls)
	second := serve(t, store, "u1", "abc", http.StatusCreated, &calls)

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
	if second.Header().Get(HeaderIdempotentReplay) != "true" {
		t.Fatalf("expected replay header")
	}
}

func TestIdempotency_WithoutHeaderAlwaysRuns(t *testing.T) {
	store := newMapStore()
	calls := 0
	serve(t, store, "u1", "", http.StatusCreated, &calls)
	serve(t, store, "u1", "", http.StatusCreated, &calls)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Fatalf("nothing should be stored without a key")
	}
}

func TestIdempotency_KeysScopedPerUser(t *testing.T) {
	store := newMapStore()
	calls := 0
	serve(t, store, "u1", "abc", http.StatusCreated, &calls)
	serve(t, store, "u2", "abc", http.StatusCreated, &calls)
	if calls != 2 {
		t.Fatalf("expected each user to run the handler, got %d calls", calls)
	}
}

func TestIdempotency_FailuresNotStored(t *testing.T) {
	store := newMapStore()
	calls := 0
	serve(t, store, "u1", "abc", http.StatusBadRequest, &calls)
	serve(t, store, "u1", "abc", http.StatusBadRequest, &calls)
	if calls != 2 {
		t.Fatalf("expected failed requests to rerun, got %d calls", calls)
	}
}

func TestIdempotency_LookupErrorProceeds(t *testing.T) {
	store := newMapStore()
	store.lookupErr = errors.New("redis down")
	calls := 0
	rec := serve(t, store, "u1", "abc", http.StatusCreated, &calls)
	if calls != 1 || rec.Code != http.StatusCreated {
		t.Fatalf("expected request to proceed, calls=%d code=%d", calls, rec.Code)
	}
}

func TestIdempotency_InFlightRetryConflicts(t *testing.T) {
	store := newMapStore()
	e := echo.New()
	started := make(chan struct{})
	finish := make(chan struct{})
	var calls int
	var mu sync.Mutex

	h := Idempotency(store, zerolog.Nop())(func(c echo.Context) error {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-finish
		return c.JSON(http.StatusCreated, map[string]string{"id": "l-1"})
	})
	newCtx := func() (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(`{}`))
		req.Header.Set(HeaderIdempotencyKey, "abc")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(handler.CtxUserID, "u1")
		return c, rec
	}

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		c, rec := newCtx()
		if err := h(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		done <- rec
	}()
	<-started

	c, rec := newCtx()
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("retry during first request: expected 409, got %d", rec.Code)
	}

	close(finish)
	if first := <-done; first.Code != http.StatusCreated {
		t.Fatalf("first request: expected 201, got %d", first.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if len(store.held) != 0 || store.released != 1 {
		t.Fatalf("expected claim released once, held=%v released=%d", store.held, store.released)
	}

	c, rec = newCtx()
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusCreated || rec.Header().Get(HeaderIdempotentReplay) != "true" {
		t.Fatalf("retry after completion: expected replayed 201, got %d", rec.Code)
	}
}

func TestIdempotency_ReplaysWhenHolderFinishedBeforeClaim(t *testing.T) {
	store := newMapStore()
	store.onReserve = func(key string) {
		store.mu.Lock()
		store.data[key] = ports.StoredResponse{
			Status:      http.StatusCreated,
			ContentType: echo.MIMEApplicationJSON,
			Body:        []byte(`{"call":1}`),
		}
		store.mu.Unlock()
	}
	calls := 0

	rec := serve(t, store, "u1", "abc", http.StatusCreated, &calls)
	if calls != 0 {
		t.Fatalf("handler should not run when a response was stored meanwhile, ran %d", calls)
	}
	if rec.Code != http.StatusCreated || rec.Body.String() != `{"call":1}` {
		t.Fatalf("expected stored response, got %d %q", rec.Code, rec.Body.String())
	}
	if store.released != 1 {
		t.Fatalf("expected claim released, released=%d", store.released)
	}
}

func TestIdempotency_ReserveErrorProceeds(t *testing.T) {
	store := newMapStore()
	store.reserveErr = errors.New("redis down")
	calls := 0
	rec := serve(t, store, "u1", "abc", http.StatusCreated, &calls)
	if calls != 1 || rec.Code != http.StatusCreated {
		t.Fatalf("expected request to proceed, calls=%d code=%d", calls, rec.Code)
	}
	if store.released != 0 {
		t.Fatalf("nothing to release without a claim, released=%d", store.released)
	}
}
