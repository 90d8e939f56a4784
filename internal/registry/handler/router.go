package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"namereg/internal/ratelimit"
	id "namereg/pkg/domain"
	"namereg/pkg/platform/middleware/admin"
	"namereg/pkg/platform/middleware/auth"
	"namereg/pkg/platform/middleware/request"
	"namereg/pkg/requestcontext"
)

// RouterConfig carries the cross-cutting pieces the router needs beyond the
// handler itself.
type RouterConfig struct {
	Validator  *auth.Validator
	AdminToken string

	// AdminAccount is injected as the caller on admin routes so the service's
	// administrator check applies to token-authenticated admin requests.
	AdminAccount id.AccountID

	// RateLimitStore throttles registrations per caller; nil disables the
	// throttle.
	RateLimitStore  ratelimit.Store
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewRouter assembles the full HTTP surface: public reads, authenticated
// mutations, throttled registration, and token-gated admin routes.
func (h *Handler) NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(request.WithRequestID)

	r.Group(func(r chi.Router) {
		h.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, h.logger))
		h.RegisterAuthed(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, h.logger))
		if cfg.RateLimitStore != nil {
			r.Use(ratelimit.Middleware(cfg.RateLimitStore, cfg.RateLimitMax, cfg.RateLimitWindow, h.logger))
		}
		h.RegisterRegistration(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.AdminToken, h.logger))
		r.Use(asCaller(cfg.AdminAccount))
		h.RegisterAdmin(r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// asCaller fixes the caller identity for a route group. Admin routes
// authenticate with the shared token rather than a JWT, so the administrator
// account is attached here.
func asCaller(account id.AccountID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithCallerID(r.Context(), account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
