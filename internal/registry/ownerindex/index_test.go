package ownerindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "namereg/pkg/domain"
	dErrors "namereg/pkg/domain-errors"
)

func TestAddAndEnumerate(t *testing.T) {
	x := New()
	x.Add("alice", 1)
	x.Add("alice", 2)
	x.Add("bob", 3)

	assert.Equal(t, uint64(2), x.Count("alice"))
	assert.Equal(t, uint64(1), x.Count("bob"))

	first, err := x.At("alice", 0)
	require.NoError(t, err)
	second, err := x.At("alice", 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.RecordID{1, 2}, []id.RecordID{first, second})
}

func TestAtOutOfRange(t *testing.T) {
	x := New()
	x.Add("alice", 1)

	_, err := x.At("alice", 1)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeOutOfRange))

	_, err = x.At("nobody", 0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeOutOfRange))
}

func TestRemoveSwapsWithLast(t *testing.T) {
	x := New()
	x.Add("alice", 1)
	x.Add("alice", 2)
	x.Add("alice", 3)

	require.NoError(t, x.Remove("alice", 1))

	assert.Equal(t, uint64(2), x.Count("alice"))
	assert.ElementsMatch(t, []id.RecordID{2, 3}, x.Owned("alice"))

	// The moved record must still be removable after the swap.
	require.NoError(t, x.Remove("alice", 3))
	assert.Equal(t, []id.RecordID{2}, x.Owned("alice"))
}

func TestRemoveMissingIsInvariantViolation(t *testing.T) {
	x := New()
	x.Add("alice", 1)

	err := x.Remove("alice", 99)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	err = x.Remove("bob", 1)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestRemoveLastClearsBucket(t *testing.T) {
	x := New()
	x.Add("alice", 1)
	require.NoError(t, x.Remove("alice", 1))
	assert.Equal(t, uint64(0), x.Count("alice"))
	assert.Empty(t, x.Owned("alice"))
}

func TestMoveBetweenOwners(t *testing.T) {
	x := New()
	x.Add("alice", 1)
	x.Add("alice", 2)

	require.NoError(t, x.Remove("alice", 2))
	x.Add("bob", 2)

	assert.Equal(t, []id.RecordID{1}, x.Owned("alice"))
	assert.Equal(t, []id.RecordID{2}, x.Owned("bob"))
}
