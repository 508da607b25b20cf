package ports

import (
	"context"
	"errors"
)

// ErrIdempotencyMiss is returned by IdempotencyStore.Lookup when no response
// was recorded for the key.
var ErrIdempotencyMiss = errors.New("idempotency key not found")

// StoredResponse is a replayable HTTP response captured for an
// Idempotency-Key.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore records create responses so retried requests with the same
// Idempotency-Key get the original result instead of a second record.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, resp StoredResponse) error
	// Reserve claims key for one in-flight request. It reports false when
	// another request already holds it.
	Reserve(ctx context.Context, key string) (bool, error)
	// Release drops a claim taken by Reserve.
	Release(ctx context.Context, key string) error
}
