package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

// In-memory stores backing the service tests. FindAll returns everything
// but records the filter it was handed, so list tests can assert the
// predicate the service composed.

type fakeRuleStore struct {
	rules map[uuid.UUID]*models.Rule
}

func newFakeRuleStore() *fakeRuleStore {
	return &fakeRuleStore{rules: make(map[uuid.UUID]*models.Rule)}
}

func (f *fakeRuleStore) FindByID(_ context.Context, id uuid.UUID) (*models.Rule, error) {
	r, ok := f.rules[id]
	if !ok {
		return nil, apperr.NotFound("rule", id.String())
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRuleStore) Save(_ context.Context, r *models.Rule) error {
	cp := *r
	f.rules[r.ID] = &cp
	return nil
}

func (f *fakeRuleStore) CodeExists(_ context.Context, code string) (bool, error) {
	for _, r := range f.rules {
		if strings.EqualFold(r.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRuleStore) FindAll(_ context.Context, _ *filter.Filter, _ filter.Page, _ []filter.Order) ([]models.Rule, int64, error) {
	var out []models.Rule
	for _, r := range f.rules {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

type fakeSectionStore struct {
	sections map[uuid.UUID]*models.RuleSection
}

func newFakeSectionStore() *fakeSectionStore {
	return &fakeSectionStore{sections: make(map[uuid.UUID]*models.RuleSection)}
}

func (f *fakeSectionStore) FindByID(_ context.Context, id uuid.UUID) (*models.RuleSection, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, apperr.NotFound("section", id.String())
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSectionStore) Save(_ context.Context, s *models.RuleSection) error {
	cp := *s
	f.sections[s.ID] = &cp
	return nil
}

func (f *fakeSectionStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.sections, id)
	return nil
}

func (f *fakeSectionStore) CodeExists(_ context.Context, ruleID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	for _, s := range f.sections {
		if s.RuleID == ruleID && s.ID != excludeID && strings.EqualFold(s.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSectionStore) SequenceExists(_ context.Context, ruleID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error) {
	for _, s := range f.sections {
		if s.RuleID == ruleID && s.ID != excludeID && s.Sequence == sequence {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSectionStore) FindAll(_ context.Context, _ *filter.Filter, _ filter.Page, _ []filter.Order) ([]models.RuleSection, int64, error) {
	var out []models.RuleSection
	for _, s := range f.sections {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeModuleStore struct {
	modules map[uuid.UUID]*models.RuleModule
}

func newFakeModuleStore() *fakeModuleStore {
	return &fakeModuleStore{modules: make(map[uuid.UUID]*models.RuleModule)}
}

func (f *fakeModuleStore) FindByID(_ context.Context, id uuid.UUID) (*models.RuleModule, error) {
	m, ok := f.modules[id]
	if !ok {
		return nil, apperr.NotFound("module", id.String())
	}
	cp := *m
	return &cp, nil
}

func (f *fakeModuleStore) Save(_ context.Context, m *models.RuleModule) error {
	cp := *m
	f.modules[m.ID] = &cp
	return nil
}

func (f *fakeModuleStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.modules, id)
	return nil
}

func (f *fakeModuleStore) CodeExists(_ context.Context, sectionID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	for _, m := range f.modules {
		if m.SectionID == sectionID && m.ID != excludeID && strings.EqualFold(m.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeModuleStore) SequenceExists(_ context.Context, sectionID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error) {
	for _, m := range f.modules {
		if m.SectionID == sectionID && m.ID != excludeID && m.Sequence == sequence {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeModuleStore) ExistsBySection(_ context.Context, sectionID uuid.UUID) (bool, error) {
	for _, m := range f.modules {
		if m.SectionID == sectionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeModuleStore) FindAll(_ context.Context, _ *filter.Filter, _ filter.Page, _ []filter.Order) ([]models.RuleModule, int64, error) {
	var out []models.RuleModule
	for _, m := range f.modules {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

type fakeItemStore struct {
	items      map[uuid.UUID]*models.RuleItem
	lastFilter *filter.Filter
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: make(map[uuid.UUID]*models.RuleItem)}
}

func (f *fakeItemStore) FindByID(_ context.Context, id uuid.UUID) (*models.RuleItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("item", id.String())
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemStore) Save(_ context.Context, it *models.RuleItem) error {
	cp := *it
	f.items[it.ID] = &cp
	return nil
}

func (f *fakeItemStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeItemStore) CodeExists(_ context.Context, moduleID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	for _, it := range f.items {
		if it.ModuleID == moduleID && it.ID != excludeID && strings.EqualFold(it.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeItemStore) ExistsByModule(_ context.Context, moduleID uuid.UUID) (bool, error) {
	for _, it := range f.items {
		if it.ModuleID == moduleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeItemStore) HasChildren(_ context.Context, parentID uuid.UUID) (bool, error) {
	for _, it := range f.items {
		if it.ParentID != nil && *it.ParentID == parentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeItemStore) FindAll(_ context.Context, flt *filter.Filter, _ filter.Page, _ []filter.Order) ([]models.RuleItem, int64, error) {
	f.lastFilter = flt
	var out []models.RuleItem
	for _, it := range f.items {
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

// eventRecorder captures published catalog events.
type eventRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (e *eventRecorder) CatalogChanged(_ context.Context, action, _ string, _ uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions = append(e.actions, action)
	return nil
}

// fakeCache stores marshalled values like the redis-backed cache would.
type fakeCache struct {
	entries map[string]models.Rule
	sets    int
	gets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]models.Rule)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) error {
	c.gets++
	r, ok := c.entries[key]
	if !ok {
		return apperr.NotFound("cache", key)
	}
	c.hits++
	*dest.(*models.Rule) = r
	return nil
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.sets++
	c.entries[key] = *value.(*models.Rule)
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}
