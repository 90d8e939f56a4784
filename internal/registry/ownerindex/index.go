// Package ownerindex maintains, for every account, the enumerable set of
// record identifiers it owns.
//
// The index is not safe for concurrent use on its own; it is owned by the
// registry store and mutated only under the store's write lock.
package ownerindex

import (
	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
)

// Index is a per-account dense list of record IDs with O(1) add and O(1)
// swap-and-pop removal. A reverse map from record to its slot keeps removal
// constant-time regardless of how many records an account holds.
type Index struct {
	owned    map[id.AccountID][]id.RecordID
	position map[id.RecordID]int
}

// New creates an empty index.
func New() *Index {
	return &Index{
		owned:    make(map[id.AccountID][]id.RecordID),
		position: make(map[id.RecordID]int),
	}
}

// Add appends record to owner's list.
func (x *Index) Add(owner id.AccountID, record id.RecordID) {
	list := x.owned[owner]
	x.position[record] = len(list)
	x.owned[owner] = append(list, record)
}

// Remove deletes record from owner's list by swapping it with the last slot.
// A record absent from its owner's list is an invariant violation: the caller
// holds the only write path, so this is unreachable in correct operation.
func (x *Index) Remove(owner id.AccountID, record id.RecordID) error {
	list := x.owned[owner]
	pos, ok := x.position[record]
	if !ok || pos >= len(list) || list[pos] != record {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"record %d not in owner index for %q", record, owner)
	}

	last := len(list) - 1
	moved := list[last]
	list[pos] = moved
	x.position[moved] = pos
	list[last] = id.NoRecord
	x.owned[owner] = list[:last]
	delete(x.position, record)

	if len(x.owned[owner]) == 0 {
		delete(x.owned, owner)
	}
	return nil
}

// At returns the i-th record owned by owner. Order is arbitrary but stable
// between mutations.
func (x *Index) At(owner id.AccountID, i uint64) (id.RecordID, error) {
	list := x.owned[owner]
	if i >= uint64(len(list)) {
		return id.NoRecord, dErrors.Newf(dErrors.CodeOutOfRange,
			"index %d out of range for owner with %d records", i, len(list))
	}
	return list[i], nil
}

// Count returns how many records owner holds.
func (x *Index) Count(owner id.AccountID) uint64 {
	return uint64(len(x.owned[owner]))
}

// Owned returns a copy of owner's record list.
func (x *Index) Owned(owner id.AccountID) []id.RecordID {
	return append([]id.RecordID(nil), x.owned[owner]...)
}
