package store

import (
	"context"
	"sync"
	"time"

	"namereg/internal/registry/access"
	"namereg/internal/registry/models"
	"namereg/internal/registry/ownerindex"
	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/platform/sentinel"
	"namereg/pkg/requestcontext"
)

// InMemory owns every canonical mapping of the registry under a single
// RWMutex. Holding one lock across validate-then-mutate makes each operation
// a serialized, all-or-nothing state transition; readers take the read lock
// and always see a consistent snapshot.
type InMemory struct {
	mu sync.RWMutex

	nextID   id.RecordID
	byName   map[string]id.RecordID
	names    map[id.RecordID]string
	resolved map[string]id.AccountID
	owners   map[id.RecordID]id.AccountID
	profiles map[id.RecordID]models.Profile
	created  map[id.RecordID]time.Time

	approvals map[id.RecordID]id.AccountID
	operators map[id.AccountID]map[id.AccountID]bool

	verified map[id.AccountID]bool

	freeLeft uint64
	fee      uint64

	index *ownerindex.Index
}

// NewInMemory creates a registry with the given bootstrap quota and fee.
// Record IDs start at 1; 0 stays reserved as "no record".
func NewInMemory(freeRegistrations, fee uint64) *InMemory {
	return &InMemory{
		nextID:    1,
		byName:    make(map[string]id.RecordID),
		names:     make(map[id.RecordID]string),
		resolved:  make(map[string]id.AccountID),
		owners:    make(map[id.RecordID]id.AccountID),
		profiles:  make(map[id.RecordID]models.Profile),
		created:   make(map[id.RecordID]time.Time),
		approvals: make(map[id.RecordID]id.AccountID),
		operators: make(map[id.AccountID]map[id.AccountID]bool),
		verified:  make(map[id.AccountID]bool),
		freeLeft:  freeRegistrations,
		fee:       fee,
		index:     ownerindex.New(),
	}
}

func (s *InMemory) IsNameAvailable(_ context.Context, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, taken := s.byName[name]
	return !taken
}

// Resolve returns the account a name resolves to, or the zero account for
// names that were never registered. It never fails.
func (s *InMemory) Resolve(_ context.Context, name string) id.AccountID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved[name]
}

func (s *InMemory) RecordByName(_ context.Context, name string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byName[name]
	if !ok {
		return models.Record{}, sentinel.ErrNotFound
	}
	return s.snapshot(record), nil
}

func (s *InMemory) Record(_ context.Context, record id.RecordID) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.names[record]; !ok {
		return models.Record{}, sentinel.ErrNotFound
	}
	return s.snapshot(record), nil
}

func (s *InMemory) OwnedRecordAt(_ context.Context, owner id.AccountID, i uint64) (id.RecordID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.At(owner, i)
}

func (s *InMemory) OwnedCount(_ context.Context, owner id.AccountID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Count(owner)
}

func (s *InMemory) Fee(_ context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fee
}

func (s *InMemory) FreeRegistrationsLeft(_ context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freeLeft
}

func (s *InMemory) IsVerified(_ context.Context, account id.AccountID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verified[account]
}

// RegisterName runs the full registration transition under the write lock.
// Preconditions fail in order: availability, then name validity. Payment (or
// quota decrement) settles before any mapping is written, so a failed pull
// leaves the counter, availability, and index untouched.
func (s *InMemory) RegisterName(ctx context.Context, name string, owner id.AccountID, pay func(fee uint64) error) (models.Record, error) {
	if owner.IsZero() {
		return models.Record{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[name]; taken {
		return models.Record{}, sentinel.ErrAlreadyUsed
	}
	if err := models.ValidateName(name); err != nil {
		return models.Record{}, err
	}

	if s.freeLeft > 0 {
		s.freeLeft--
	} else if err := pay(s.fee); err != nil {
		return models.Record{}, err
	}

	record := s.nextID
	s.nextID++

	s.byName[name] = record
	s.names[record] = name
	s.resolved[name] = owner
	s.owners[record] = owner
	// Verified is derived from the Verified-Account Set at creation time.
	s.profiles[record] = models.Profile{Verified: s.verified[owner]}
	s.created[record] = requestcontext.Now(ctx)
	s.index.Add(owner, record)

	return s.snapshot(record), nil
}

func (s *InMemory) UpdateProfile(_ context.Context, caller id.AccountID, record id.RecordID, update models.ProfileUpdate) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, record); err != nil {
		return models.Record{}, err
	}

	profile := s.profiles[record]
	profile.Twitter = update.Twitter
	profile.Telegram = update.Telegram
	profile.Discord = update.Discord
	profile.Image = update.Image
	profile.Bio = update.Bio
	s.profiles[record] = profile

	return s.snapshot(record), nil
}

// Transfer flips ownership and keeps every dependent mapping consistent in
// one critical section: resolved account, ownership index, approval reset,
// and the verified flag recomputed from the Verified-Account Set.
func (s *InMemory) Transfer(_ context.Context, caller, from, to id.AccountID, record id.RecordID) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(caller, record); err != nil {
		return models.Record{}, err
	}
	owner := s.owners[record]
	if from != owner {
		return models.Record{}, dErrors.New(dErrors.CodeBadRequest, "from is not the record's current owner")
	}
	if to.IsZero() {
		return models.Record{}, dErrors.New(dErrors.CodeValidation, "transfer to the zero account is not allowed")
	}

	// Remove must complete before add so a self-transfer cannot corrupt the
	// owner bucket.
	if err := s.index.Remove(from, record); err != nil {
		return models.Record{}, err
	}
	s.index.Add(to, record)

	s.owners[record] = to
	s.resolved[s.names[record]] = to
	delete(s.approvals, record)

	profile := s.profiles[record]
	profile.Verified = s.verified[to]
	s.profiles[record] = profile

	return s.snapshot(record), nil
}

func (s *InMemory) Approve(_ context.Context, caller id.AccountID, record id.RecordID, approved id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.owners[record]
	if !ok {
		return sentinel.ErrNotFound
	}
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	if caller != owner && !s.operators[owner][caller] {
		return dErrors.New(dErrors.CodeForbidden, "only the owner or an operator may approve")
	}
	if approved.IsZero() {
		delete(s.approvals, record)
		return nil
	}
	s.approvals[record] = approved
	return nil
}

func (s *InMemory) SetOperator(_ context.Context, owner, operator id.AccountID, approved bool) error {
	if owner.IsZero() || operator.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "owner and operator accounts are required")
	}
	if owner == operator {
		return dErrors.New(dErrors.CodeValidation, "cannot set self as operator")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !approved {
		delete(s.operators[owner], operator)
		return nil
	}
	if s.operators[owner] == nil {
		s.operators[owner] = make(map[id.AccountID]bool)
	}
	s.operators[owner][operator] = true
	return nil
}

// VerifyAccount is a snapshot operation: it stamps the records the account
// owns at this instant. Later acquisitions pick verification up through the
// set lookup done at registration and transfer time.
func (s *InMemory) VerifyAccount(_ context.Context, account id.AccountID) ([]id.RecordID, error) {
	if account.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "account is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.verified[account] = true

	stamped := s.index.Owned(account)
	for _, record := range stamped {
		profile := s.profiles[record]
		profile.Verified = true
		s.profiles[record] = profile
	}
	return stamped, nil
}

func (s *InMemory) SetFee(_ context.Context, fee uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fee = fee
}

// authorize builds the approval snapshot and runs the access guard. Callers
// must hold the write lock so the check and the mutation it gates see the
// same state.
func (s *InMemory) authorize(caller id.AccountID, record id.RecordID) error {
	owner, ok := s.owners[record]
	if !ok {
		return sentinel.ErrNotFound
	}
	return access.Authorize(caller, access.Approval{
		Owner:    owner,
		Approved: s.approvals[record],
		Operator: s.operators[owner][caller],
	})
}

// snapshot copies a record for return outside the lock. Callers must hold at
// least the read lock.
func (s *InMemory) snapshot(record id.RecordID) models.Record {
	return models.Record{
		ID:           record,
		Name:         s.names[record],
		Owner:        s.owners[record],
		Profile:      s.profiles[record],
		RegisteredAt: s.created[record],
	}
}
