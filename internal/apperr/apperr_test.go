package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{MissingField("rule", "code"), KindMissingField},
		{ImmutableField("section", "rule_id"), KindMissingField},
		{InvalidField("item", "sequence", "must be positive"), KindInvalidField},
		{Duplicate("rule", "code already registered"), KindDuplicate},
		{NotFound("module", "abc"), KindNotFound},
		{Forbidden("company", "not owned by caller"), KindForbidden},
		{DependentExists("section", "modules"), KindDependentExists},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.err), tt.err.Error())
	}

	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("list rules: %w", Duplicate("rule", "code already registered"))
	assert.True(t, IsDuplicate(err))
	assert.False(t, IsNotFound(err))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "rule: code is required", MissingField("rule", "code").Error())
	assert.Equal(t, "section: rule_id cannot be changed", ImmutableField("section", "rule_id").Error())
	assert.Equal(t, "section: still referenced by modules", DependentExists("section", "modules").Error())
	assert.Equal(t, "company: not owned by caller", Forbidden("company", "not owned by caller").Error())
}
