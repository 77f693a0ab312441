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

type companyFixture struct {
	users     *fakeUserStore
	companies *fakeCompanyStore
	svc       *CompanyService
	owner     *models.User
}

func newCompanyFixture(t *testing.T) *companyFixture {
	t.Helper()
	f := &companyFixture{
		users:     newFakeUserStore(),
		companies: newFakeCompanyStore(),
	}
	f.svc = NewCompanyService(f.companies, f.users, NewOwnershipResolver(f.companies))

	f.owner = &models.User{ID: uuid.New(), Email: "owner@example.com", FullName: "Owner", Active: true}
	require.NoError(t, f.users.Save(context.Background(), f.owner))
	return f
}

func (f *companyFixture) ownerCaller() access.Context {
	return access.Context{UserID: f.owner.ID, Roles: []string{"operator"}}
}

func TestCompanyCreate(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t)

	t.Run("owner defaults to the caller", func(t *testing.T) {
		c, err := f.svc.Create(ctx, f.ownerCaller(), CreateCompany{
			CorporateName: "Acme Ltda", TaxID: "11.222.333/0001-44",
		})
		require.NoError(t, err)
		assert.Equal(t, f.owner.ID, c.UserID)
		assert.True(t, c.Active)
	})

	t.Run("non-privileged caller cannot name another owner", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.ownerCaller(), CreateCompany{
			UserID: uuid.New(), CorporateName: "Front Co", TaxID: "99",
		})
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("privileged caller may name any existing owner", func(t *testing.T) {
		other := &models.User{ID: uuid.New(), Email: "other@example.com", FullName: "Other", Active: true}
		require.NoError(t, f.users.Save(ctx, other))

		c, err := f.svc.Create(ctx, adminCaller(), CreateCompany{
			UserID: other.ID, CorporateName: "Beta SA", TaxID: "55.666.777/0001-88",
		})
		require.NoError(t, err)
		assert.Equal(t, other.ID, c.UserID)
	})

	t.Run("owner must exist", func(t *testing.T) {
		_, err := f.svc.Create(ctx, adminCaller(), CreateCompany{
			UserID: uuid.New(), CorporateName: "Ghost Co", TaxID: "00",
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("duplicate tax id", func(t *testing.T) {
		_, err := f.svc.Create(ctx, adminCaller(), CreateCompany{
			UserID: f.owner.ID, CorporateName: "Clone", TaxID: "11.222.333/0001-44",
		})
		assert.True(t, apperr.IsDuplicate(err))
	})
}

func TestCompanyOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t)

	mine, err := f.svc.Create(ctx, f.ownerCaller(), CreateCompany{CorporateName: "Mine", TaxID: "1"})
	require.NoError(t, err)

	stranger := access.Context{UserID: uuid.New(), Roles: []string{"operator"}}

	t.Run("foreign read is forbidden, not masked as not-found", func(t *testing.T) {
		_, err := f.svc.Get(ctx, stranger, mine.ID)
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("privileged read passes", func(t *testing.T) {
		got, err := f.svc.Get(ctx, adminCaller(), mine.ID)
		require.NoError(t, err)
		assert.Equal(t, mine.ID, got.ID)
	})

	t.Run("list forces the caller as owner filter", func(t *testing.T) {
		// Asking for someone else's companies silently scopes to your own.
		_, err := f.svc.List(ctx, f.ownerCaller(), CompanyQuery{UserID: stranger.UserID}, newTestPage())
		require.NoError(t, err)

		where, args := f.companies.lastFilter.SQL(1)
		assert.Equal(t, " WHERE user_id = $1", where)
		assert.Equal(t, []any{f.owner.ID}, args)
	})

	t.Run("privileged list passes the requested owner through", func(t *testing.T) {
		_, err := f.svc.List(ctx, adminCaller(), CompanyQuery{UserID: stranger.UserID}, newTestPage())
		require.NoError(t, err)

		where, args := f.companies.lastFilter.SQL(1)
		assert.Equal(t, " WHERE user_id = $1", where)
		assert.Equal(t, []any{stranger.UserID}, args)
	})
}

func TestCompanyUpdate(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t)
	ac := f.ownerCaller()

	c, err := f.svc.Create(ctx, ac, CreateCompany{CorporateName: "Acme", TaxID: "1"})
	require.NoError(t, err)

	t.Run("ownership transfer is privileged-only", func(t *testing.T) {
		other := &models.User{ID: uuid.New(), Email: "o@example.com", FullName: "O", Active: true}
		require.NoError(t, f.users.Save(ctx, other))

		_, err := f.svc.Update(ctx, ac, c.ID, UpdateCompany{UserID: other.ID, CorporateName: "Acme"})
		assert.True(t, apperr.IsForbidden(err))

		got, err := f.svc.Update(ctx, adminCaller(), c.ID, UpdateCompany{UserID: other.ID, CorporateName: "Acme"})
		require.NoError(t, err)
		assert.Equal(t, other.ID, got.UserID)
	})
}

func TestCompanySoftDelete(t *testing.T) {
	ctx := context.Background()
	f := newCompanyFixture(t)
	ac := f.ownerCaller()

	c, err := f.svc.Create(ctx, ac, CreateCompany{CorporateName: "Acme", TaxID: "1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.SoftDelete(ctx, ac, c.ID))
	got, err := f.svc.Get(ctx, ac, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.False(t, got.Active)
	assert.NotNil(t, got.DeletedAt)

	t.Run("second delete is rejected", func(t *testing.T) {
		err := f.svc.SoftDelete(ctx, ac, c.ID)
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})

	t.Run("updates of a deleted company are rejected", func(t *testing.T) {
		_, err := f.svc.Update(ctx, ac, c.ID, UpdateCompany{CorporateName: "Zombie"})
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})
}
