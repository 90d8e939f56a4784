// Package events defines the observability events the registry emits and the
// stores/sinks that receive them. Keep the event transport-agnostic so
// stores and sinks can fan out.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "namereg/pkg/domain"
)

// Type classifies a registry event.
type Type string

const (
	TypeNameRegistered    Type = "name_registered"
	TypeProfileUpdated    Type = "profile_updated"
	TypeFeeUpdated        Type = "fee_updated"
	TypeAccountVerified   Type = "account_verified"
	TypeRecordTransferred Type = "record_transferred"
	TypeTokensWithdrawn   Type = "tokens_withdrawn"
)

// Event is emitted from domain logic to capture key registry actions.
type Event struct {
	ID        uuid.UUID    `json:"id"`
	Type      Type         `json:"type"`
	Name      string       `json:"name,omitempty"`
	Record    id.RecordID  `json:"record,omitempty"`
	Account   id.AccountID `json:"account,omitempty"`
	From      id.AccountID `json:"from,omitempty"`
	To        id.AccountID `json:"to,omitempty"`
	Amount    uint64       `json:"amount,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Store persists emitted events for later inspection.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context, eventType Type) ([]Event, error)
}

// Sink receives events for delivery to an external system (e.g. Kafka).
// Sinks are best-effort: delivery failures must not fail the emitting
// operation.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
