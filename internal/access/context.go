// Package access carries per-request caller facts. The Context value is
// passed explicitly into every service call so ownership scoping stays
// testable without a simulated request pipeline.
package access

import (
	"context"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// Context identifies the caller of a service operation.
type Context struct {
	UserID uuid.UUID
	Email  string
	Roles  []string
}

// Privileged reports whether the caller is exempt from ownership scoping.
func (c Context) Privileged() bool {
	return c.HasRole(RoleAdmin)
}

func (c Context) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r == name {
			return true
		}
	}
	return false
}

type ctxKey struct{}

// WithContext attaches the caller identity to a request context. Only the
// HTTP middleware writes this; handlers read it back and hand the value to
// services as a plain argument.
func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

func FromContext(ctx context.Context) (Context, bool) {
	ac, ok := ctx.Value(ctxKey{}).(Context)
	return ac, ok
}
