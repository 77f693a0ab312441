package tenancy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normatec/catalog/internal/access"
	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/models"
)

func adminCaller() access.Context {
	return access.Context{UserID: uuid.New(), Roles: []string{"admin"}}
}

func TestUserCreate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore("admin", "operator")
	companies := newFakeCompanyStore()
	svc := NewUserService(users, companies, plainHasher{})
	ac := adminCaller()

	t.Run("valid", func(t *testing.T) {
		u, err := svc.Create(ctx, ac, CreateUser{
			Email:    "  Ana.Silva@Example.COM  ",
			FullName: "Ana Silva",
			Password: "correct-horse",
			Roles:    []string{"operator"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ana.silva@example.com", u.Email)
		assert.Equal(t, []string{"operator"}, u.RoleNames())
		assert.True(t, u.Active)
		assert.NotEqual(t, "correct-horse", u.PasswordHash)
	})

	t.Run("duplicate email is case-insensitive", func(t *testing.T) {
		_, err := svc.Create(ctx, ac, CreateUser{
			Email: "ANA.SILVA@example.com", FullName: "Shadow", Password: "long-enough",
		})
		assert.True(t, apperr.IsDuplicate(err))
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Create(ctx, ac, CreateUser{Email: "not-an-address", FullName: "X", Password: "long-enough"})
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Create(ctx, ac, CreateUser{Email: "b@example.com", FullName: "B", Password: "short"})
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Create(ctx, ac, CreateUser{
			Email: "c@example.com", FullName: "C", Password: "long-enough",
			Roles: []string{"operator", "superuser"},
		})
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})
}

func TestUserDeleteGuard(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	companies := newFakeCompanyStore()
	svc := NewUserService(users, companies, plainHasher{})
	ac := adminCaller()

	u, err := svc.Create(ctx, ac, CreateUser{Email: "owner@example.com", FullName: "Owner", Password: "long-enough"})
	require.NoError(t, err)

	co := &models.ClientCompany{ID: uuid.New(), UserID: u.ID, CorporateName: "Acme", TaxID: "123"}
	require.NoError(t, companies.Save(ctx, co))

	err = svc.Delete(ctx, ac, u.ID)
	assert.Equal(t, apperr.KindDependentExists, apperr.KindOf(err))

	delete(companies.companies, co.ID)
	require.NoError(t, svc.Delete(ctx, ac, u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUserAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeCompanyStore(), plainHasher{})
	ac := adminCaller()

	u, err := svc.Create(ctx, ac, CreateUser{Email: "login@example.com", FullName: "L", Password: "long-enough"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "Login@Example.com", "long-enough")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("failures are indistinct", func(t *testing.T) {
		_, badPass := svc.Authenticate(ctx, "login@example.com", "wrong")
		_, badUser := svc.Authenticate(ctx, "ghost@example.com", "long-enough")
		assert.True(t, apperr.IsForbidden(badPass))
		assert.True(t, apperr.IsForbidden(badUser))
		assert.Equal(t, badPass.Error(), badUser.Error())
	})

	t.Run("inactive account rejected", func(t *testing.T) {
		inactive := false
		_, err := svc.Update(ctx, ac, u.ID, UpdateUser{FullName: "L", Active: &inactive})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "login@example.com", "long-enough")
		assert.True(t, apperr.IsForbidden(err))
	})
}

func TestUserUpdatePassword(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeCompanyStore(), plainHasher{})
	ac := adminCaller()

	u, err := svc.Create(ctx, ac, CreateUser{Email: "p@example.com", FullName: "P", Password: "first-password"})
	require.NoError(t, err)

	// Blank password in an update means "keep".
	_, err = svc.Update(ctx, ac, u.ID, UpdateUser{FullName: "P"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "p@example.com", "first-password")
	assert.NoError(t, err)

	_, err = svc.Update(ctx, ac, u.ID, UpdateUser{FullName: "P", Password: "second-password"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "p@example.com", "second-password")
	assert.NoError(t, err)
}
