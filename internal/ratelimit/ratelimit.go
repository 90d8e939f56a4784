// Package ratelimit throttles registration attempts per caller. It is a
// transport-layer guard: the registry itself stays the authoritative state
// and is never bypassed or cached here.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a rate-limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// Store counts requests per key over a sliding window.
type Store interface {
	// Allow checks whether a request under key is within limit for the
	// window and records it if so.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)

	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
}
