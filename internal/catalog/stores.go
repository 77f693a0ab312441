// Package catalog implements the regulatory-rule hierarchy: Rule →
// RuleSection → RuleModule → RuleItem, with items self-nesting one level at
// a time through their parent id. Every write runs the structural checks for
// its level before the store is touched; every list goes through the
// filter package.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

// RuleStore is the persistence contract for rules. FindByID returns an
// apperr.KindNotFound error for unknown ids.
type RuleStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rule, error)
	Save(ctx context.Context, r *models.Rule) error
	// CodeExists reports whether any rule carries code, compared
	// case-insensitively across the whole catalog.
	CodeExists(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.Rule, int64, error)
}

type SectionStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.RuleSection, error)
	Save(ctx context.Context, s *models.RuleSection) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CodeExists and SequenceExists are scoped to one rule; excludeID keeps
	// a row from colliding with itself on update.
	CodeExists(ctx context.Context, ruleID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
	SequenceExists(ctx context.Context, ruleID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.RuleSection, int64, error)
}

type ModuleStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.RuleModule, error)
	Save(ctx context.Context, m *models.RuleModule) error
	Delete(ctx context.Context, id uuid.UUID) error
	CodeExists(ctx context.Context, sectionID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
	SequenceExists(ctx context.Context, sectionID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error)
	// ExistsBySection backs the section deletion guard.
	ExistsBySection(ctx context.Context, sectionID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.RuleModule, int64, error)
}

type ItemStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.RuleItem, error)
	Save(ctx context.Context, it *models.RuleItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	CodeExists(ctx context.Context, moduleID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
	// ExistsByModule backs the module deletion guard, HasChildren the
	// leaf-only item deletion guard.
	ExistsByModule(ctx context.Context, moduleID uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, parentID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.RuleItem, int64, error)
}

// EventPublisher receives change notifications after a successful catalog
// mutation. Publishing failures are logged, never surfaced.
type EventPublisher interface {
	CatalogChanged(ctx context.Context, action, entityType string, entityID uuid.UUID) error
}

// Cache is the read-through cache used for single-rule lookups.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
