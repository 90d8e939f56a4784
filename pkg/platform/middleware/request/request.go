// Package request assigns every inbound request a correlation ID.
package request

import (
	"net/http"

	"github.com/google/uuid"

	"namereg/pkg/requestcontext"
)

// HeaderRequestID is the inbound/outbound correlation header.
const HeaderRequestID = "X-Request-ID"

// WithRequestID injects a request ID into the context, honoring a
// caller-supplied header and minting a UUID otherwise. The ID is echoed on
// the response for log correlation.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the correlation ID set by WithRequestID.
func GetRequestID(r *http.Request) string {
	return requestcontext.RequestID(r.Context())
}
