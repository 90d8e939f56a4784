// Package dErrors provides coded domain errors. Services return these so
// transport layers can translate them into protocol responses without
// inspecting error strings.
//
// Stores return pkg/platform/sentinel errors for infrastructure facts;
// services wrap or translate them into coded errors at the boundary.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and retry policy.
type Code string

const (
	// CodeValidation marks malformed input (empty name, disallowed
	// character). Never retried, never partially applied.
	CodeValidation Code = "validation_error"

	// CodeBadRequest marks a structurally invalid request body or parameter.
	CodeBadRequest Code = "bad_request"

	// CodeConflict marks a uniqueness clash (name already taken).
	CodeConflict Code = "conflict"

	// CodeUnauthorized marks a missing or failed caller identity.
	CodeUnauthorized Code = "unauthorized"

	// CodeForbidden marks an authenticated caller that fails the
	// owner/approved/operator check or lacks the administrator role.
	CodeForbidden Code = "forbidden"

	// CodeNotFound marks reads of unregistered names or nonexistent records.
	CodeNotFound Code = "not_found"

	// CodeOutOfRange marks an enumeration index past the owned count.
	CodeOutOfRange Code = "out_of_range"

	// CodeResourceExhausted marks payment pull failures and zero-balance
	// withdrawals. The operation failed atomically; nothing was applied.
	CodeResourceExhausted Code = "resource_exhausted"

	// CodeInvariantViolation marks states that are unreachable in correct
	// operation (record missing from its owner's index). Treated as fatal.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// yields nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from err. Uncoded errors yield
// an empty message so internal detail is never leaked to transports.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
