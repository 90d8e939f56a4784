// Package testutil provides common test helpers for handler and integration
// tests.
package testutil

import (
	"context"
	"time"

	id "namereg/pkg/domain"
	"namereg/pkg/requestcontext"
)

// ContextAs returns a context carrying the given caller account, simulating
// what the auth middleware does for authenticated requests.
func ContextAs(account id.AccountID) context.Context {
	return requestcontext.WithCallerID(context.Background(), account)
}

// ContextWithRequestID returns a context carrying a fixed correlation ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return requestcontext.WithRequestID(ctx, requestID)
}

// ContextAt pins the injectable clock so registration timestamps are
// deterministic.
func ContextAt(ctx context.Context, at time.Time) context.Context {
	return requestcontext.WithTime(ctx, at)
}
