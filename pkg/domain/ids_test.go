package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountIDZero(t *testing.T) {
	assert.True(t, ZeroAccount.IsZero())
	assert.True(t, AccountID("").IsZero())
	assert.False(t, AccountID("acct-a").IsZero())
	assert.Equal(t, "acct-a", AccountID("acct-a").String())
}

func TestRecordIDZero(t *testing.T) {
	assert.True(t, NoRecord.IsZero())
	assert.False(t, RecordID(1).IsZero())
}
