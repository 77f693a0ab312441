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

// ModuleService manages the modules of a section. The owning section is
// fixed at creation; a module with items cannot be deleted.
type ModuleService struct {
	modules  ModuleStore
	sections SectionStore
	items    ItemStore
	events   EventPublisher
}

func NewModuleService(modules ModuleStore, sections SectionStore, items ItemStore, events EventPublisher) *ModuleService {
	return &ModuleService{modules: modules, sections: sections, items: items, events: events}
}

type CreateModule struct {
	SectionID uuid.UUID `json:"section_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Sequence  int       `json:"sequence"`
}

type UpdateModule struct {
	SectionID uuid.UUID `json:"section_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Sequence  int       `json:"sequence"`
	Active    *bool     `json:"active"`
}

type ModuleQuery struct {
	SectionID uuid.UUID `json:"section_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    *bool     `json:"active"`
}

func (s *ModuleService) Create(ctx context.Context, ac access.Context, req CreateModule) (*models.RuleModule, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return nil, err
	}

	m := &models.RuleModule{
		ID:        uuid.New(),
		SectionID: req.SectionID,
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		Sequence:  req.Sequence,
		Active:    true,
	}
	m.Audit.StampCreate(ac.UserID, time.Now().UTC())

	if err := s.modules.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save module: %w", err)
	}
	s.publish(ctx, "module.created", m.ID)
	return m, nil
}

func (s *ModuleService) validateCreate(ctx context.Context, req CreateModule) error {
	if req.SectionID == uuid.Nil {
		return apperr.MissingField("module", "section_id")
	}
	if err := requireText("module", "code", req.Code, maxModuleCode); err != nil {
		return err
	}
	if err := requireText("module", "name", req.Name, maxModuleName); err != nil {
		return err
	}
	if err := requirePositive("module", "sequence", req.Sequence); err != nil {
		return err
	}

	if _, err := s.sections.FindByID(ctx, req.SectionID); err != nil {
		return err
	}
	return s.checkUniqueness(ctx, req.SectionID, req.Code, req.Sequence, uuid.Nil)
}

func (s *ModuleService) Update(ctx context.Context, ac access.Context, id uuid.UUID, req UpdateModule) (*models.RuleModule, error) {
	m, err := s.modules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SectionID != uuid.Nil && req.SectionID != m.SectionID {
		return nil, apperr.ImmutableField("module", "section_id")
	}
	if err := requireText("module", "code", req.Code, maxModuleCode); err != nil {
		return nil, err
	}
	if err := requireText("module", "name", req.Name, maxModuleName); err != nil {
		return nil, err
	}
	if err := requirePositive("module", "sequence", req.Sequence); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, m.SectionID, req.Code, req.Sequence, m.ID); err != nil {
		return nil, err
	}

	m.Code = strings.TrimSpace(req.Code)
	m.Name = strings.TrimSpace(req.Name)
	m.Sequence = req.Sequence
	if req.Active != nil {
		m.Active = *req.Active
	}
	m.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.modules.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save module: %w", err)
	}
	s.publish(ctx, "module.updated", m.ID)
	return m, nil
}

func (s *ModuleService) Delete(ctx context.Context, ac access.Context, id uuid.UUID) error {
	m, err := s.modules.FindByID(ctx, id)
	if err != nil {
		return err
	}
	inUse, err := s.items.ExistsByModule(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("check module items: %w", err)
	}
	if inUse {
		return apperr.DependentExists("module", "items")
	}
	if err := s.modules.Delete(ctx, m.ID); err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	s.publish(ctx, "module.deleted", m.ID)
	return nil
}

func (s *ModuleService) Get(ctx context.Context, id uuid.UUID) (*models.RuleModule, error) {
	return s.modules.FindByID(ctx, id)
}

func (s *ModuleService) List(ctx context.Context, q ModuleQuery, page filter.Page) (*filter.Result[models.RuleModule], error) {
	f := filter.New().
		EqualsID("section_id", q.SectionID).
		ContainsFold("code", q.Code).
		ContainsFold("name", q.Name).
		EqualsBool("active", q.Active)

	items, total, err := s.modules.FindAll(ctx, f, page, []filter.Order{filter.Asc("sequence")})
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return &filter.Result[models.RuleModule]{Items: items, Total: total, Page: page.Number, Size: page.Size}, nil
}

func (s *ModuleService) checkUniqueness(ctx context.Context, sectionID uuid.UUID, code string, sequence int, excludeID uuid.UUID) error {
	taken, err := s.modules.CodeExists(ctx, sectionID, strings.TrimSpace(code), excludeID)
	if err != nil {
		return fmt.Errorf("check module code: %w", err)
	}
	if taken {
		return apperr.Duplicate("module", "code already registered for this section")
	}
	taken, err = s.modules.SequenceExists(ctx, sectionID, sequence, excludeID)
	if err != nil {
		return fmt.Errorf("check module sequence: %w", err)
	}
	if taken {
		return apperr.Duplicate("module", "sequence already registered for this section")
	}
	return nil
}

func (s *ModuleService) publish(ctx context.Context, action string, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.CatalogChanged(ctx, action, "module", id); err != nil {
		slog.Warn("catalog event publish failed", "action", action, "module_id", id, "error", err)
	}
}
