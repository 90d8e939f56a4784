package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"namereg/pkg/requestcontext"
)

// Middleware throttles requests per authenticated caller. Store errors fail
// open: the registry's own preconditions remain the final arbiter, so a
// degraded throttle must not take registration down with it.
func Middleware(store Store, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			caller := requestcontext.CallerID(ctx)
			if caller.IsZero() {
				next.ServeHTTP(w, r)
				return
			}

			result, err := store.Allow(ctx, caller.String(), limit, window)
			if err != nil {
				logger.WarnContext(ctx, "rate limit check failed, failing open", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(result.ResetAt).Seconds())+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"too many registration attempts"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
