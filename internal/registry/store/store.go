package store

import (
	"context"

	"namereg/internal/registry/models"
	id "namereg/pkg/domain"
)

// Registry is the authoritative state surface the service depends on. It is
// interface-driven so the domain logic stays testable and persistence can be
// swapped without rewiring business code.
//
// Implementations must apply every mutating operation atomically and in
// full-or-nothing fashion relative to all readers and other writers: no two
// mutations interleave, and no reader observes a partially-applied state.
type Registry interface {
	// Reads. Each observes a consistent snapshot.
	IsNameAvailable(ctx context.Context, name string) bool
	Resolve(ctx context.Context, name string) id.AccountID
	RecordByName(ctx context.Context, name string) (models.Record, error)
	Record(ctx context.Context, record id.RecordID) (models.Record, error)
	OwnedRecordAt(ctx context.Context, owner id.AccountID, i uint64) (id.RecordID, error)
	OwnedCount(ctx context.Context, owner id.AccountID) uint64
	Fee(ctx context.Context) uint64
	FreeRegistrationsLeft(ctx context.Context) uint64
	IsVerified(ctx context.Context, account id.AccountID) bool

	// RegisterName validates the name, settles payment via pay (skipped
	// while the free-registration quota lasts), and creates the record.
	// pay runs inside the critical section; if it errors, no state changes.
	RegisterName(ctx context.Context, name string, owner id.AccountID, pay func(fee uint64) error) (models.Record, error)

	// UpdateProfile fully replaces the caller-settable profile fields after
	// an owner-or-approved-or-operator check.
	UpdateProfile(ctx context.Context, caller id.AccountID, record id.RecordID, update models.ProfileUpdate) (models.Record, error)

	// Transfer moves a record between owners: authorization, owner flip,
	// resolved-account flip, ownership-index move, verified-flag
	// recomputation from the Verified-Account Set.
	Transfer(ctx context.Context, caller, from, to id.AccountID, record id.RecordID) (models.Record, error)

	// Approve sets the single approved party for a record (zero clears).
	Approve(ctx context.Context, caller id.AccountID, record id.RecordID, approved id.AccountID) error

	// SetOperator grants or revokes approved-for-all status for owner's
	// records.
	SetOperator(ctx context.Context, owner, operator id.AccountID, approved bool) error

	// VerifyAccount adds account to the Verified-Account Set and stamps
	// every record it currently owns, returning the stamped records.
	VerifyAccount(ctx context.Context, account id.AccountID) ([]id.RecordID, error)

	// SetFee replaces the registration fee.
	SetFee(ctx context.Context, fee uint64)
}
