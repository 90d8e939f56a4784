// Package handler is the thin HTTP layer over the registry service. It
// delegates to the service without embedding business logic so transport
// concerns stay isolated.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"namereg/internal/registry/models"
	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/platform/httputil"
	"namereg/pkg/requestcontext"
)

// Service is the registry surface the handler depends on.
type Service interface {
	IsNameAvailable(ctx context.Context, name string) bool
	Register(ctx context.Context, name string) (models.Record, error)
	UpdateProfile(ctx context.Context, record id.RecordID, update models.ProfileUpdate) (models.Record, error)
	ProfileByName(ctx context.Context, name string) (models.Profile, error)
	ResolveName(ctx context.Context, name string) id.AccountID
	TokenURI(ctx context.Context, record id.RecordID) (string, error)
	OwnedRecordAt(ctx context.Context, account id.AccountID, i uint64) (id.RecordID, error)
	OwnedCount(ctx context.Context, account id.AccountID) uint64
	IsAccountVerified(ctx context.Context, account id.AccountID) bool
	Transfer(ctx context.Context, from, to id.AccountID, record id.RecordID) (models.Record, error)
	Approve(ctx context.Context, record id.RecordID, approved id.AccountID) error
	SetOperator(ctx context.Context, operator id.AccountID, approved bool) error
	UpdateFee(ctx context.Context, newFee uint64) error
	VerifyAccount(ctx context.Context, account id.AccountID) error
	Withdraw(ctx context.Context) (uint64, error)
}

// Handler wires registry endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated read endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/names/{name}/available", h.handleAvailability)
	r.Get("/names/{name}/resolve", h.handleResolve)
	r.Get("/names/{name}/profile", h.handleProfileByName)
	r.Get("/records/{id}/metadata", h.handleMetadata)
	r.Get("/accounts/{account}/records/count", h.handleOwnedCount)
	r.Get("/accounts/{account}/records/{index}", h.handleOwnedAt)
	r.Get("/accounts/{account}/verified", h.handleVerifiedStatus)
}

// RegisterAuthed mounts endpoints that require an authenticated caller.
func (h *Handler) RegisterAuthed(r chi.Router) {
	r.Put("/records/{id}/profile", h.handleUpdateProfile)
	r.Post("/records/{id}/transfer", h.handleTransfer)
	r.Post("/records/{id}/approve", h.handleApprove)
	r.Post("/operators", h.handleSetOperator)
}

// RegisterRegistration mounts the registration endpoint separately so the
// router can throttle it.
func (h *Handler) RegisterRegistration(r chi.Router) {
	r.Post("/names", h.handleRegister)
}

// RegisterAdmin mounts administrator endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/admin/fee", h.handleUpdateFee)
	r.Post("/admin/verified-accounts", h.handleVerifyAccount)
	r.Post("/admin/withdraw", h.handleWithdraw)
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	httputil.WriteJSON(w, http.StatusOK, availabilityResponse{
		Name:      name,
		Available: h.service.IsNameAvailable(r.Context(), name),
	})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// Never-registered names resolve to the zero account, not an error.
	httputil.WriteJSON(w, http.StatusOK, resolveResponse{
		Name:    name,
		Account: h.service.ResolveName(r.Context(), name),
	})
}

func (h *Handler) handleProfileByName(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.ProfileByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[registerRequest](w, r)
	if !ok {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Register(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toRecordResponse(record))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	record, ok := recordParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[profileUpdateRequest](w, r)
	if !ok {
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), record, req.toUpdate())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(updated))
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	record, ok := recordParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[transferRequest](w, r)
	if !ok {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	moved, err := h.service.Transfer(r.Context(), id.AccountID(req.From), id.AccountID(req.To), record)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRecordResponse(moved))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	record, ok := recordParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[approveRequest](w, r)
	if !ok {
		return
	}

	if err := h.service.Approve(r.Context(), record, id.AccountID(req.Approved)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetOperator(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[operatorRequest](w, r)
	if !ok {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.SetOperator(r.Context(), id.AccountID(req.Operator), req.Approved); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMetadata(w http.ResponseWriter, r *http.Request) {
	record, ok := recordParam(w, r)
	if !ok {
		return
	}

	uri, err := h.service.TokenURI(r.Context(), record)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, metadataResponse{Record: record, TokenURI: uri})
}

func (h *Handler) handleOwnedAt(w http.ResponseWriter, r *http.Request) {
	account := id.AccountID(chi.URLParam(r, "account"))
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "index must be a non-negative integer"))
		return
	}

	record, err := h.service.OwnedRecordAt(r.Context(), account, index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ownedAtResponse{Account: account, Index: index, Record: record})
}

func (h *Handler) handleOwnedCount(w http.ResponseWriter, r *http.Request) {
	account := id.AccountID(chi.URLParam(r, "account"))
	httputil.WriteJSON(w, http.StatusOK, ownedCountResponse{
		Account: account,
		Count:   h.service.OwnedCount(r.Context(), account),
	})
}

func (h *Handler) handleVerifiedStatus(w http.ResponseWriter, r *http.Request) {
	account := id.AccountID(chi.URLParam(r, "account"))
	httputil.WriteJSON(w, http.StatusOK, verifiedResponse{
		Account:  account,
		Verified: h.service.IsAccountVerified(r.Context(), account),
	})
}

func (h *Handler) handleUpdateFee(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[feeRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.UpdateFee(r.Context(), req.Fee); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[verifyRequest](w, r)
	if !ok {
		return
	}
	if err := req.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.VerifyAccount(r.Context(), id.AccountID(req.Account)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	amount, err := h.service.Withdraw(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, withdrawResponse{Amount: amount})
}

// recordParam parses the {id} URL parameter, rejecting the reserved zero
// identifier.
func recordParam(w http.ResponseWriter, r *http.Request) (id.RecordID, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "record id must be a positive integer"))
		return id.NoRecord, false
	}
	return id.RecordID(n), true
}
