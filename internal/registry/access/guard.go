// Package access implements the authorization predicate shared by every
// mutating record operation.
package access

import (
	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
)

// Approval is a point-in-time snapshot of a record's approval state. The
// registry store builds it under its write lock so the check and the
// mutation it gates observe the same state.
type Approval struct {
	// Owner is the record's current owner.
	Owner id.AccountID
	// Approved is the single explicitly-approved party, zero if none.
	Approved id.AccountID
	// Operator reports whether the caller is an approved-for-all operator
	// for the current owner.
	Operator bool
}

// Authorize returns nil iff caller is the owner, the approved party, or an
// operator for the owner.
func Authorize(caller id.AccountID, a Approval) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity required")
	}
	if caller == a.Owner || (caller == a.Approved && !a.Approved.IsZero()) || a.Operator {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, "caller is not owner, approved, or operator")
}
