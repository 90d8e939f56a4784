// Package postgres persists registry events in PostgreSQL for durable audit
// history.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"namereg/internal/events"
	id "namereg/pkg/domain"
)

// Store is a PostgreSQL-backed event log.
type Store struct {
	db *sql.DB
}

// New constructs the store. Call EnsureSchema before first use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the events table if missing. Kept as a single
// idempotent statement so deployments need no external migration tooling.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS registry_events (
    id         UUID PRIMARY KEY,
    type       TEXT NOT NULL,
    name       TEXT NOT NULL DEFAULT '',
    record     BIGINT NOT NULL DEFAULT 0,
    account    TEXT NOT NULL DEFAULT '',
    from_acct  TEXT NOT NULL DEFAULT '',
    to_acct    TEXT NOT NULL DEFAULT '',
    amount     BIGINT NOT NULL DEFAULT 0,
    request_id TEXT NOT NULL DEFAULT '',
    ts         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS registry_events_type_idx ON registry_events (type, ts);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure events schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event events.Event) error {
	const q = `
INSERT INTO registry_events (id, type, name, record, account, from_acct, to_acct, amount, request_id, ts)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.db.ExecContext(ctx, q,
		event.ID, string(event.Type), event.Name, int64(event.Record),
		string(event.Account), string(event.From), string(event.To),
		int64(event.Amount), event.RequestID, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// List returns events of the given type in emission order, or all events for
// the empty type.
func (s *Store) List(ctx context.Context, eventType events.Type) ([]events.Event, error) {
	const base = `
SELECT id, type, name, record, account, from_acct, to_acct, amount, request_id, ts
FROM registry_events`

	var (
		rows *sql.Rows
		err  error
	)
	if eventType == "" {
		rows, err = s.db.QueryContext(ctx, base+` ORDER BY ts`)
	} else {
		rows, err = s.db.QueryContext(ctx, base+` WHERE type = $1 ORDER BY ts`, string(eventType))
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var (
			e                  events.Event
			eventID            uuid.UUID
			typ, account       string
			from, to, reqID    string
			record, amount     int64
		)
		if err := rows.Scan(&eventID, &typ, &e.Name, &record, &account, &from, &to, &amount, &reqID, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.ID = eventID
		e.Type = events.Type(typ)
		e.Record = id.RecordID(record)
		e.Account = id.AccountID(account)
		e.From = id.AccountID(from)
		e.To = id.AccountID(to)
		e.Amount = uint64(amount)
		e.RequestID = reqID
		out = append(out, e)
	}
	return out, rows.Err()
}
