package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/normatec/catalog/internal/apperr"
)

// Field length limits per hierarchy level.
const (
	maxRuleCode        = 50
	maxRuleTitle       = 200
	maxRuleDescription = 1000
	maxRuleOrdinance   = 100

	maxSectionCode = 20
	maxSectionName = 150

	maxModuleCode = 20
	maxModuleName = 150

	maxItemCode        = 20
	maxItemDescription = 500
)

func requireText(entity, field, v string, max int) error {
	if strings.TrimSpace(v) == "" {
		return apperr.MissingField(entity, field)
	}
	return maxLen(entity, field, v, max)
}

func optionalText(entity, field, v string, max int) error {
	if v == "" {
		return nil
	}
	return maxLen(entity, field, v, max)
}

func maxLen(entity, field, v string, max int) error {
	if utf8.RuneCountInString(v) > max {
		return apperr.InvalidField(entity, field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}

func requirePositive(entity, field string, v int) error {
	if v <= 0 {
		return apperr.InvalidField(entity, field, "must be greater than zero")
	}
	return nil
}
