//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"namereg/internal/events"
	"namereg/pkg/testutil/containers"
)

func TestStoreRoundTrip(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	defer pg.DB.Close()

	ctx := context.Background()
	store := New(pg.DB)
	require.NoError(t, store.EnsureSchema(ctx))
	// Schema creation is idempotent.
	require.NoError(t, store.EnsureSchema(ctx))

	base := time.Now().UTC().Truncate(time.Microsecond)
	registered := events.Event{
		ID:        uuid.New(),
		Type:      events.TypeNameRegistered,
		Name:      "alice",
		Record:    1,
		Account:   "acct-alice",
		Amount:    5,
		RequestID: "req-1",
		Timestamp: base,
	}
	transferred := events.Event{
		ID:        uuid.New(),
		Type:      events.TypeRecordTransferred,
		Name:      "alice",
		Record:    1,
		From:      "acct-alice",
		To:        "acct-bob",
		Timestamp: base.Add(time.Second),
	}
	require.NoError(t, store.Append(ctx, registered))
	require.NoError(t, store.Append(ctx, transferred))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, registered.ID, all[0].ID)
	require.Equal(t, events.TypeNameRegistered, all[0].Type)
	require.Equal(t, "alice", all[0].Name)
	require.Equal(t, uint64(5), all[0].Amount)
	require.Equal(t, "req-1", all[0].RequestID)
	require.True(t, all[0].Timestamp.Equal(base))

	onlyTransfers, err := store.List(ctx, events.TypeRecordTransferred)
	require.NoError(t, err)
	require.Len(t, onlyTransfers, 1)
	require.Equal(t, transferred.ID, onlyTransfers[0].ID)
	require.Equal(t, "acct-bob", string(onlyTransfers[0].To))
}
