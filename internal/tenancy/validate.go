package tenancy

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/normatec/catalog/internal/apperr"
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
