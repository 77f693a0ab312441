package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

type itemFixture struct {
	items   *fakeItemStore
	modules *fakeModuleStore
	svc     *ItemService
	module  *models.RuleModule
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()
	f := &itemFixture{
		items:   newFakeItemStore(),
		modules: newFakeModuleStore(),
	}
	f.svc = NewItemService(f.items, f.modules, nil)

	f.module = &models.RuleModule{ID: uuid.New(), SectionID: uuid.New(), Code: "17.1.1", Name: "Ergonomics", Sequence: 1}
	require.NoError(t, f.modules.Save(context.Background(), f.module))
	return f
}

func TestItemCreate(t *testing.T) {
	ctx := context.Background()
	f := newItemFixture(t)
	ac := testCaller()

	root, err := f.svc.Create(ctx, ac, CreateItem{
		ModuleID: f.module.ID, Code: "17.1.1.a", Description: "Lifting posture", Sequence: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)

	t.Run("nested under a parent", func(t *testing.T) {
		child, err := f.svc.Create(ctx, ac, CreateItem{
			ModuleID: f.module.ID, ParentID: &root.ID,
			Code: "17.1.1.a.1", Description: "Maximum load", Sequence: 1,
		})
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, root.ID, *child.ParentID)
	})

	t.Run("parent must exist", func(t *testing.T) {
		ghost := uuid.New()
		_, err := f.svc.Create(ctx, ac, CreateItem{
			ModuleID: f.module.ID, ParentID: &ghost,
			Code: "17.1.1.b", Description: "Orphan", Sequence: 2,
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("parent must share the module", func(t *testing.T) {
		other := &models.RuleModule{ID: uuid.New(), SectionID: uuid.New(), Code: "18.1.1", Name: "Other", Sequence: 1}
		require.NoError(t, f.modules.Save(ctx, other))
		foreign, err := f.svc.Create(ctx, ac, CreateItem{
			ModuleID: other.ID, Code: "18.1.1.a", Description: "Foreign", Sequence: 1,
		})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, ac, CreateItem{
			ModuleID: f.module.ID, ParentID: &foreign.ID,
			Code: "17.1.1.c", Description: "Cross-module", Sequence: 3,
		})
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})

	t.Run("duplicate code within module", func(t *testing.T) {
		_, err := f.svc.Create(ctx, ac, CreateItem{
			ModuleID: f.module.ID, Code: "17.1.1.A", Description: "Shadow", Sequence: 4,
		})
		assert.True(t, apperr.IsDuplicate(err))
	})
}

func TestItemUpdateParent(t *testing.T) {
	ctx := context.Background()
	f := newItemFixture(t)
	ac := testCaller()

	a, err := f.svc.Create(ctx, ac, CreateItem{ModuleID: f.module.ID, Code: "a", Description: "A", Sequence: 1})
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, ac, CreateItem{ModuleID: f.module.ID, ParentID: &a.ID, Code: "b", Description: "B", Sequence: 1})
	require.NoError(t, err)
	c, err := f.svc.Create(ctx, ac, CreateItem{ModuleID: f.module.ID, ParentID: &b.ID, Code: "c", Description: "C", Sequence: 1})
	require.NoError(t, err)

	t.Run("self reference rejected", func(t *testing.T) {
		_, err := f.svc.Update(ctx, ac, a.ID, UpdateItem{ParentID: &a.ID, Code: "a", Description: "A", Sequence: 1})
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})

	t.Run("cycle rejected", func(t *testing.T) {
		// a -> b -> c, then pointing a at c would close the loop.
		_, err := f.svc.Update(ctx, ac, a.ID, UpdateItem{ParentID: &c.ID, Code: "a", Description: "A", Sequence: 1})
		assert.Equal(t, apperr.KindInvalidField, apperr.KindOf(err))
	})

	t.Run("module id is immutable", func(t *testing.T) {
		_, err := f.svc.Update(ctx, ac, a.ID, UpdateItem{ModuleID: uuid.New(), Code: "a", Description: "A", Sequence: 1})
		require.Error(t, err)
		assert.Equal(t, apperr.KindMissingField, apperr.KindOf(err))
	})

	t.Run("reparenting to a valid sibling passes", func(t *testing.T) {
		got, err := f.svc.Update(ctx, ac, c.ID, UpdateItem{ParentID: &a.ID, Code: "c", Description: "C", Sequence: 1})
		require.NoError(t, err)
		assert.Equal(t, a.ID, *got.ParentID)
	})

	t.Run("omitted parent leaves nesting unchanged", func(t *testing.T) {
		got, err := f.svc.Update(ctx, ac, b.ID, UpdateItem{Code: "b", Description: "B updated", Sequence: 1})
		require.NoError(t, err)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, a.ID, *got.ParentID)
	})

	t.Run("zero parent id detaches the item", func(t *testing.T) {
		root := uuid.Nil
		got, err := f.svc.Update(ctx, ac, b.ID, UpdateItem{ParentID: &root, Code: "b", Description: "B", Sequence: 1})
		require.NoError(t, err)
		assert.Nil(t, got.ParentID)
	})
}

func TestItemListFilter(t *testing.T) {
	ctx := context.Background()
	f := newItemFixture(t)
	ac := testCaller()

	it, err := f.svc.Create(ctx, ac, CreateItem{ModuleID: f.module.ID, Code: "17.1.1.a", Description: "Lifting", Sequence: 1})
	require.NoError(t, err)

	t.Run("module and active criteria", func(t *testing.T) {
		active := true
		_, err := f.svc.List(ctx, ItemQuery{ModuleID: f.module.ID, Active: &active}, filter.NewPage(0, 10))
		require.NoError(t, err)

		where, args := f.items.lastFilter.SQL(1)
		assert.Equal(t, " WHERE module_id = $1 AND active = $2", where)
		assert.Equal(t, []any{f.module.ID, true}, args)
	})

	t.Run("parent criterion is not skipped for roots", func(t *testing.T) {
		root := uuid.Nil
		_, err := f.svc.List(ctx, ItemQuery{ModuleID: f.module.ID, ParentID: &root}, filter.NewPage(0, 10))
		require.NoError(t, err)

		where, args := f.items.lastFilter.SQL(1)
		assert.Equal(t, " WHERE module_id = $1 AND parent_id = $2", where)
		assert.Equal(t, []any{f.module.ID, uuid.Nil}, args)
	})

	t.Run("text criteria render as substring matches", func(t *testing.T) {
		_, err := f.svc.List(ctx, ItemQuery{Code: it.Code, Text: "lift"}, filter.NewPage(0, 10))
		require.NoError(t, err)

		where, _ := f.items.lastFilter.SQL(1)
		assert.Equal(t, " WHERE LOWER(code) LIKE $1 AND LOWER(description) LIKE $2", where)
	})
}

func TestItemDelete(t *testing.T) {
	ctx := context.Background()
	f := newItemFixture(t)
	ac := testCaller()

	parent, err := f.svc.Create(ctx, ac, CreateItem{ModuleID: f.module.ID, Code: "p", Description: "Parent", Sequence: 1})
	require.NoError(t, err)
	child, err := f.svc.Create(ctx, ac, CreateItem{ModuleID: f.module.ID, ParentID: &parent.ID, Code: "ch", Description: "Child", Sequence: 1})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, ac, parent.ID)
	assert.Equal(t, apperr.KindDependentExists, apperr.KindOf(err))

	require.NoError(t, f.svc.Delete(ctx, ac, child.ID))
	require.NoError(t, f.svc.Delete(ctx, ac, parent.ID))
}
