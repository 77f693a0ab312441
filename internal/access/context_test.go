package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ac := Context{UserID: uuid.New(), Email: "ops@example.com", Roles: []string{"operator"}}

	ctx := WithContext(context.Background(), ac)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, ac, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}

func TestPrivileged(t *testing.T) {
	assert.True(t, Context{Roles: []string{"admin"}}.Privileged())
	assert.True(t, Context{Roles: []string{"viewer", "admin"}}.Privileged())
	assert.False(t, Context{Roles: []string{"operator"}}.Privileged())
	assert.False(t, Context{}.Privileged())
}
