package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/access"
	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

// ItemService manages the leaves of the catalog. Items nest under other
// items of the same module; only leaves can be deleted.
type ItemService struct {
	items   ItemStore
	modules ModuleStore
	events  EventPublisher
}

func NewItemService(items ItemStore, modules ModuleStore, events EventPublisher) *ItemService {
	return &ItemService{items: items, modules: modules, events: events}
}

type CreateItem struct {
	ModuleID    uuid.UUID  `json:"module_id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
	Sequence    int        `json:"sequence"`
}

// UpdateItem's optional fields follow pointer-means-absent: a nil ParentID
// or Active leaves the stored value alone. A ParentID of the zero uuid
// detaches the item from its parent.
type UpdateItem struct {
	ModuleID    uuid.UUID  `json:"module_id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
	Sequence    int        `json:"sequence"`
	Active      *bool      `json:"active"`
}

type ItemQuery struct {
	ModuleID uuid.UUID  `json:"module_id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Code     string     `json:"code"`
	Text     string     `json:"text"`
	Active   *bool      `json:"active"`
}

func (s *ItemService) Create(ctx context.Context, ac access.Context, req CreateItem) (*models.RuleItem, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return nil, err
	}

	it := &models.RuleItem{
		ID:          uuid.New(),
		ModuleID:    req.ModuleID,
		ParentID:    req.ParentID,
		Code:        strings.TrimSpace(req.Code),
		Description: strings.TrimSpace(req.Description),
		Sequence:    req.Sequence,
		Active:      true,
	}
	it.Audit.StampCreate(ac.UserID, time.Now().UTC())

	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.publish(ctx, "item.created", it.ID)
	return it, nil
}

func (s *ItemService) validateCreate(ctx context.Context, req CreateItem) error {
	if req.ModuleID == uuid.Nil {
		return apperr.MissingField("item", "module_id")
	}
	if err := requireText("item", "code", req.Code, maxItemCode); err != nil {
		return err
	}
	if err := requireText("item", "description", req.Description, maxItemDescription); err != nil {
		return err
	}
	if err := requirePositive("item", "sequence", req.Sequence); err != nil {
		return err
	}

	if _, err := s.modules.FindByID(ctx, req.ModuleID); err != nil {
		return err
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, req.ModuleID, *req.ParentID, uuid.Nil); err != nil {
			return err
		}
	}

	taken, err := s.items.CodeExists(ctx, req.ModuleID, strings.TrimSpace(req.Code), uuid.Nil)
	if err != nil {
		return fmt.Errorf("check item code: %w", err)
	}
	if taken {
		return apperr.Duplicate("item", "code already registered for this module")
	}
	return nil
}

func (s *ItemService) Update(ctx context.Context, ac access.Context, id uuid.UUID, req UpdateItem) (*models.RuleItem, error) {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ModuleID != uuid.Nil && req.ModuleID != it.ModuleID {
		return nil, apperr.ImmutableField("item", "module_id")
	}
	if err := requireText("item", "code", req.Code, maxItemCode); err != nil {
		return nil, err
	}
	if err := requireText("item", "description", req.Description, maxItemDescription); err != nil {
		return nil, err
	}
	if err := requirePositive("item", "sequence", req.Sequence); err != nil {
		return nil, err
	}
	if req.ParentID != nil && *req.ParentID != uuid.Nil {
		if err := s.checkParent(ctx, it.ModuleID, *req.ParentID, it.ID); err != nil {
			return nil, err
		}
	}

	taken, err := s.items.CodeExists(ctx, it.ModuleID, strings.TrimSpace(req.Code), it.ID)
	if err != nil {
		return nil, fmt.Errorf("check item code: %w", err)
	}
	if taken {
		return nil, apperr.Duplicate("item", "code already registered for this module")
	}

	if req.ParentID != nil {
		if *req.ParentID == uuid.Nil {
			it.ParentID = nil
		} else {
			it.ParentID = req.ParentID
		}
	}
	it.Code = strings.TrimSpace(req.Code)
	it.Description = strings.TrimSpace(req.Description)
	it.Sequence = req.Sequence
	if req.Active != nil {
		it.Active = *req.Active
	}
	it.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	s.publish(ctx, "item.updated", it.ID)
	return it, nil
}

// checkParent verifies a parent reference: the parent must exist, belong to
// the same module, and not create a cycle through the item being written.
// The walk operates purely on id lookups against the item arena.
func (s *ItemService) checkParent(ctx context.Context, moduleID, parentID, selfID uuid.UUID) error {
	if parentID == selfID && selfID != uuid.Nil {
		return apperr.InvalidField("item", "parent_id", "cannot reference itself")
	}
	parent, err := s.items.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.ModuleID != moduleID {
		return apperr.InvalidField("item", "parent_id", "must belong to the same module")
	}
	// Walk up the parent chain to reject cycles.
	for cur := parent; cur.ParentID != nil; {
		if *cur.ParentID == selfID && selfID != uuid.Nil {
			return apperr.InvalidField("item", "parent_id", "would create a cycle")
		}
		cur, err = s.items.FindByID(ctx, *cur.ParentID)
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an item with no sub-items. Deleting a parent requires
// removing its children first.
func (s *ItemService) Delete(ctx context.Context, ac access.Context, id uuid.UUID) error {
	it, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}
	hasChildren, err := s.items.HasChildren(ctx, it.ID)
	if err != nil {
		return fmt.Errorf("check item children: %w", err)
	}
	if hasChildren {
		return apperr.DependentExists("item", "sub-items")
	}
	if err := s.items.Delete(ctx, it.ID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.publish(ctx, "item.deleted", it.ID)
	return nil
}

func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*models.RuleItem, error) {
	return s.items.FindByID(ctx, id)
}

func (s *ItemService) List(ctx context.Context, q ItemQuery, page filter.Page) (*filter.Result[models.RuleItem], error) {
	f := filter.New().
		EqualsID("module_id", q.ModuleID).
		ContainsFold("code", q.Code).
		ContainsFold("description", q.Text).
		EqualsBool("active", q.Active)
	if q.ParentID != nil {
		f.Equals("parent_id", *q.ParentID)
	}

	items, total, err := s.items.FindAll(ctx, f, page, nil)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return &filter.Result[models.RuleItem]{Items: items, Total: total, Page: page.Number, Size: page.Size}, nil
}

func (s *ItemService) publish(ctx context.Context, action string, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.CatalogChanged(ctx, action, "item", id); err != nil {
		slog.Warn("catalog event publish failed", "action", action, "item_id", id, "error", err)
	}
}
