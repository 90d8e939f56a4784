// Package models holds the registry's domain entities and name rules.
package models

import (
	"time"

	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
)

// Profile is the mutable metadata attached to a record. It is created empty
// at registration and fully replaced on update; the Verified flag is derived
// from the Verified-Account Set and never set by profile updates.
type Profile struct {
	Twitter  string `json:"twitter"`
	Telegram string `json:"telegram"`
	Discord  string `json:"discord"`
	Image    string `json:"image"`
	Bio      string `json:"bio"`
	Verified bool   `json:"verified"`
}

// ProfileUpdate carries the five caller-settable profile fields. Omitted
// fields must be passed as empty strings; updates are full replacements.
type ProfileUpdate struct {
	Twitter  string
	Telegram string
	Discord  string
	Image    string
	Bio      string
}

// Record is a uniquely-owned registered name. The name is bound to the
// record at registration and never rebound.
type Record struct {
	ID           id.RecordID
	Name         string
	Owner        id.AccountID
	Profile      Profile
	RegisteredAt time.Time
}

// ValidateName enforces the name alphabet: non-empty, lowercase letters,
// digits, and hyphens only. Any disallowed character rejects the whole name.
func ValidateName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return dErrors.Newf(dErrors.CodeValidation,
				"name contains disallowed character %q; only a-z, 0-9 and '-' are allowed", c)
		}
	}
	return nil
}
