// Package cache holds short-lived request state shared across handlers,
// in process memory or in Redis.
package cache

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a completed response is replayed
const DefaultIdempotencyTTL = 24 * time.Hour

// StoredResponse is the replayable outcome of a request
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore tracks client-supplied idempotency keys.
// A key is first reserved, then either completed with the response to replay
// or released so the client may retry.
type IdempotencyStore interface {
	// Reserve claims key; false means it is already reserved or completed
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the response for key
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error

	// Lookup returns the stored response, or nil while the key is only reserved or unknown
	Lookup(ctx context.Context, key string) (*StoredResponse, error)

	// Release forgets key
	Release(ctx context.Context, key string) error

	Close() error
}
