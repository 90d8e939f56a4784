// Package service orchestrates the registry: payment settlement, state
// transitions, event emission, and metadata rendering.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"namereg/internal/events"
	"namereg/internal/ledger"
	"namereg/internal/metadata"
	registrymetrics "namereg/internal/registry/metrics"
	"namereg/internal/registry/models"
	"namereg/internal/registry/store"
	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/platform/sentinel"
	"namereg/pkg/requestcontext"
)

// EventEmitter publishes registry events. Emission is best-effort
// observability; failures are logged, never propagated.
type EventEmitter interface {
	Emit(ctx context.Context, event events.Event) error
}

// Service owns the registry's orchestration. The store serializes all state
// transitions; the service adds payment settlement, administration checks,
// events, metrics, and rendering on top.
type Service struct {
	registry store.Registry
	ledger   ledger.Ledger
	emitter  EventEmitter
	metrics  *registrymetrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer

	// admin administers fees, verification, and withdrawals. treasury holds
	// pulled registration fees until withdrawal; it is also the allowance
	// spender callers approve for fee pulls.
	admin    id.AccountID
	treasury id.AccountID
}

type serviceConfig struct {
	emitter EventEmitter
	metrics *registrymetrics.Metrics
	logger  *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

func WithEmitter(emitter EventEmitter) Option {
	return func(cfg *serviceConfig) { cfg.emitter = emitter }
}

func WithMetrics(m *registrymetrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

// New constructs the registry service.
func New(registry store.Registry, bank ledger.Ledger, admin, treasury id.AccountID, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		ledger:   bank,
		emitter:  cfg.emitter,
		metrics:  cfg.metrics,
		logger:   logger,
		tracer:   otel.Tracer("namereg/registry"),
		admin:    admin,
		treasury: treasury,
	}
}

// IsNameAvailable reports whether no record is currently bound to name.
func (s *Service) IsNameAvailable(ctx context.Context, name string) bool {
	return s.registry.IsNameAvailable(ctx, name)
}

// Register creates a record for name owned by the authenticated caller.
// While the free-registration quota lasts, no payment is taken; afterwards
// the fee is pulled from the caller's ledger balance into the treasury. A
// failed pull fails the whole registration with no state change.
func (s *Service) Register(ctx context.Context, name string) (models.Record, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Register")
	defer span.End()

	caller := requestcontext.CallerID(ctx)
	if caller.IsZero() {
		return models.Record{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}

	start := time.Now()
	paid := false
	var paidFee uint64

	record, err := s.registry.RegisterName(ctx, name, caller, func(fee uint64) error {
		paid = true
		paidFee = fee
		return s.ledger.TransferFrom(ctx, s.treasury, caller, s.treasury, fee)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return models.Record{}, dErrors.New(dErrors.CodeConflict, "name is already taken")
		}
		return models.Record{}, err
	}

	s.metrics.ObserveRegister(paid, start)
	s.emit(ctx, events.Event{
		Type:    events.TypeNameRegistered,
		Name:    record.Name,
		Record:  record.ID,
		Account: record.Owner,
		Amount:  paidFee,
	})
	s.logger.InfoContext(ctx, "name registered",
		"name", record.Name,
		"record", record.ID,
		"owner", record.Owner,
		"paid", paid,
	)
	return record, nil
}

// UpdateProfile fully replaces the caller-settable profile fields of a
// record. The caller must be the owner, the approved party, or an operator.
func (s *Service) UpdateProfile(ctx context.Context, record id.RecordID, update models.ProfileUpdate) (models.Record, error) {
	ctx, span := s.tracer.Start(ctx, "registry.UpdateProfile")
	defer span.End()

	caller := requestcontext.CallerID(ctx)
	updated, err := s.registry.UpdateProfile(ctx, caller, record, update)
	if err != nil {
		return models.Record{}, s.translateNotFound(err, "record does not exist")
	}

	if s.metrics != nil {
		s.metrics.ProfileUpdates.Inc()
	}
	s.emit(ctx, events.Event{
		Type:   events.TypeProfileUpdated,
		Name:   updated.Name,
		Record: updated.ID,
	})
	return updated, nil
}

// ProfileByName returns the profile bound to name.
func (s *Service) ProfileByName(ctx context.Context, name string) (models.Profile, error) {
	record, err := s.registry.RecordByName(ctx, name)
	if err != nil {
		return models.Profile{}, s.translateNotFound(err, "name is not registered")
	}
	return record.Profile, nil
}

// ResolveName returns the account a name resolves to, or the zero account if
// the name was never registered. It never fails.
func (s *Service) ResolveName(ctx context.Context, name string) id.AccountID {
	return s.registry.Resolve(ctx, name)
}

// TokenURI renders the metadata document for a record.
func (s *Service) TokenURI(ctx context.Context, record id.RecordID) (string, error) {
	rec, err := s.registry.Record(ctx, record)
	if err != nil {
		return "", s.translateNotFound(err, "record does not exist")
	}
	return metadata.Render(rec.ID, rec.Name, rec.Profile), nil
}

// OwnedRecordAt returns the i-th record owned by account.
func (s *Service) OwnedRecordAt(ctx context.Context, account id.AccountID, i uint64) (id.RecordID, error) {
	return s.registry.OwnedRecordAt(ctx, account, i)
}

// OwnedCount returns how many records account holds.
func (s *Service) OwnedCount(ctx context.Context, account id.AccountID) uint64 {
	return s.registry.OwnedCount(ctx, account)
}

// Transfer moves a record from one owner to another after the
// owner-or-approved-or-operator check.
func (s *Service) Transfer(ctx context.Context, from, to id.AccountID, record id.RecordID) (models.Record, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Transfer")
	defer span.End()

	caller := requestcontext.CallerID(ctx)
	moved, err := s.registry.Transfer(ctx, caller, from, to, record)
	if err != nil {
		return models.Record{}, s.translateNotFound(err, "record does not exist")
	}

	if s.metrics != nil {
		s.metrics.Transfers.Inc()
	}
	s.emit(ctx, events.Event{
		Type:   events.TypeRecordTransferred,
		Name:   moved.Name,
		Record: moved.ID,
		From:   from,
		To:     to,
	})
	s.logger.InfoContext(ctx, "record transferred",
		"record", moved.ID,
		"from", from,
		"to", to,
	)
	return moved, nil
}

// Approve sets the single approved party for a record.
func (s *Service) Approve(ctx context.Context, record id.RecordID, approved id.AccountID) error {
	caller := requestcontext.CallerID(ctx)
	if err := s.registry.Approve(ctx, caller, record, approved); err != nil {
		return s.translateNotFound(err, "record does not exist")
	}
	return nil
}

// SetOperator grants or revokes approved-for-all status over the caller's
// records.
func (s *Service) SetOperator(ctx context.Context, operator id.AccountID, approved bool) error {
	caller := requestcontext.CallerID(ctx)
	return s.registry.SetOperator(ctx, caller, operator, approved)
}

// UpdateFee replaces the registration fee. Administrator only.
func (s *Service) UpdateFee(ctx context.Context, newFee uint64) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	s.registry.SetFee(ctx, newFee)
	s.emit(ctx, events.Event{Type: events.TypeFeeUpdated, Amount: newFee})
	s.logger.InfoContext(ctx, "registration fee updated", "fee", newFee)
	return nil
}

// VerifyAccount adds account to the Verified-Account Set and stamps its
// current holdings. Administrator only.
func (s *Service) VerifyAccount(ctx context.Context, account id.AccountID) error {
	ctx, span := s.tracer.Start(ctx, "registry.VerifyAccount")
	defer span.End()

	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	stamped, err := s.registry.VerifyAccount(ctx, account)
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.Verifications.Inc()
	}
	s.emit(ctx, events.Event{Type: events.TypeAccountVerified, Account: account})
	s.logger.InfoContext(ctx, "account verified",
		"account", account,
		"records_stamped", len(stamped),
	)
	return nil
}

// Withdraw transfers the full held fee balance to the administrator.
// Fails if the treasury holds nothing.
func (s *Service) Withdraw(ctx context.Context) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Withdraw")
	defer span.End()

	if err := s.requireAdmin(ctx); err != nil {
		return 0, err
	}

	balance := s.ledger.BalanceOf(ctx, s.treasury)
	if balance == 0 {
		return 0, dErrors.New(dErrors.CodeResourceExhausted, "treasury holds no balance")
	}
	if err := s.ledger.Transfer(ctx, s.treasury, s.admin, balance); err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.Withdrawals.Inc()
	}
	s.emit(ctx, events.Event{
		Type:    events.TypeTokensWithdrawn,
		Account: s.admin,
		Amount:  balance,
	})
	s.logger.InfoContext(ctx, "treasury withdrawn", "amount", balance)
	return balance, nil
}

// IsAccountVerified reports whether account is in the Verified-Account Set.
func (s *Service) IsAccountVerified(ctx context.Context, account id.AccountID) bool {
	return s.registry.IsVerified(ctx, account)
}

// Fee returns the current registration fee.
func (s *Service) Fee(ctx context.Context) uint64 {
	return s.registry.Fee(ctx)
}

// FreeRegistrationsLeft returns the remaining bootstrap quota.
func (s *Service) FreeRegistrationsLeft(ctx context.Context) uint64 {
	return s.registry.FreeRegistrationsLeft(ctx)
}

func (s *Service) requireAdmin(ctx context.Context) error {
	if requestcontext.CallerID(ctx) != s.admin {
		return dErrors.New(dErrors.CodeForbidden, "administrator account required")
	}
	return nil
}

func (s *Service) translateNotFound(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	return err
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.emitter == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "event emission failed", "type", event.Type, "error", err)
	}
}
