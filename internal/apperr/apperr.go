// Package apperr defines the domain error taxonomy shared by every service.
// Validators raise these as soon as a condition is detected; nothing below
// the HTTP boundary catches or retries them.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindMissingField covers blank mandatory fields and attempts to change
	// an immutable field such as a parent reference.
	KindMissingField Kind = iota + 1
	// KindInvalidField covers present fields violating a length, range or
	// format constraint.
	KindInvalidField
	// KindDuplicate covers scoped or global uniqueness violations.
	KindDuplicate
	// KindNotFound covers unresolvable ids, including parent references.
	KindNotFound
	// KindForbidden covers ownership and privilege failures.
	KindForbidden
	// KindDependentExists covers deletion guards: a row still referenced by
	// dependent rows one level down cannot be removed.
	KindDependentExists
)

type Error struct {
	Kind   Kind
	Entity string
	Field  string
	Reason string
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Reason != "":
		return fmt.Sprintf("%s: %s %s", e.Entity, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("%s: invalid %s", e.Entity, e.Field)
	default:
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
}

func MissingField(entity, field string) error {
	return &Error{Kind: KindMissingField, Entity: entity, Field: field, Reason: "is required"}
}

func ImmutableField(entity, field string) error {
	return &Error{Kind: KindMissingField, Entity: entity, Field: field, Reason: "cannot be changed"}
}

func InvalidField(entity, field, reason string) error {
	return &Error{Kind: KindInvalidField, Entity: entity, Field: field, Reason: reason}
}

func Duplicate(entity, detail string) error {
	return &Error{Kind: KindDuplicate, Entity: entity, Reason: detail}
}

func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Entity: entity, Reason: fmt.Sprintf("%s not found", id)}
}

func Forbidden(entity, reason string) error {
	return &Error{Kind: KindForbidden, Entity: entity, Reason: reason}
}

func DependentExists(entity, dependent string) error {
	return &Error{Kind: KindDependentExists, Entity: entity, Reason: fmt.Sprintf("still referenced by %s", dependent)}
}

// KindOf returns the domain kind of err, or 0 for non-domain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool  { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }
func IsDuplicate(err error) bool { return KindOf(err) == KindDuplicate }
