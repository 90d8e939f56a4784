package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "namereg/pkg/domain-errors"
)

func TestValidateName(t *testing.T) {
	valid := []string{"alice", "a", "0", "-", "alice-2024", "x9-y"}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), "expected %q to be valid", name)
	}

	invalid := []string{"", "Alice", "al ice", "al_ice", "alice!", "ALICE", "álice", "alice.eth"}
	for _, name := range invalid {
		err := ValidateName(name)
		assert.Error(t, err, "expected %q to be rejected", name)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), "expected validation code for %q", name)
	}
}
