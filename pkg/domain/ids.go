// Package domain defines the identifier types shared across the service.
package domain

// AccountID identifies a balance-holding, record-owning account. It is an
// opaque non-empty string; the empty string is the zero-account sentinel.
type AccountID string

// ZeroAccount is the "no account" sentinel. Resolving an unregistered name
// yields it; transfers to it are rejected.
const ZeroAccount AccountID = ""

// IsZero reports whether the account is the zero-account sentinel.
func (a AccountID) IsZero() bool { return a == ZeroAccount }

func (a AccountID) String() string { return string(a) }

// RecordID identifies a registered-name record. IDs are allocated
// monotonically starting at 1; 0 is reserved as "no record".
type RecordID uint64

// NoRecord is the reserved "no record" identifier.
const NoRecord RecordID = 0

// IsZero reports whether the record ID is the reserved "no record" value.
func (r RecordID) IsZero() bool { return r == NoRecord }
