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

// SectionService manages the sections of a rule. Code and sequence are each
// unique among the sections of one rule; a section with modules cannot be
// deleted.
type SectionService struct {
	sections SectionStore
	rules    RuleStore
	modules  ModuleStore
	events   EventPublisher
}

func NewSectionService(sections SectionStore, rules RuleStore, modules ModuleStore, events EventPublisher) *SectionService {
	return &SectionService{sections: sections, rules: rules, modules: modules, events: events}
}

type CreateSection struct {
	RuleID   uuid.UUID `json:"rule_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Sequence int       `json:"sequence"`
}

type UpdateSection struct {
	RuleID   uuid.UUID `json:"rule_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Sequence int       `json:"sequence"`
	Active   *bool     `json:"active"`
}

type SectionQuery struct {
	RuleID uuid.UUID `json:"rule_id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Active *bool     `json:"active"`
}

func (s *SectionService) Create(ctx context.Context, ac access.Context, req CreateSection) (*models.RuleSection, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return nil, err
	}

	sec := &models.RuleSection{
		ID:       uuid.New(),
		RuleID:   req.RuleID,
		Code:     strings.TrimSpace(req.Code),
		Name:     strings.TrimSpace(req.Name),
		Sequence: req.Sequence,
		Active:   true,
	}
	sec.Audit.StampCreate(ac.UserID, time.Now().UTC())

	if err := s.sections.Save(ctx, sec); err != nil {
		return nil, fmt.Errorf("save section: %w", err)
	}
	s.publish(ctx, "section.created", sec.ID)
	return sec, nil
}

func (s *SectionService) validateCreate(ctx context.Context, req CreateSection) error {
	if req.RuleID == uuid.Nil {
		return apperr.MissingField("section", "rule_id")
	}
	if err := requireText("section", "code", req.Code, maxSectionCode); err != nil {
		return err
	}
	if err := requireText("section", "name", req.Name, maxSectionName); err != nil {
		return err
	}
	if err := requirePositive("section", "sequence", req.Sequence); err != nil {
		return err
	}

	if _, err := s.rules.FindByID(ctx, req.RuleID); err != nil {
		return err
	}
	return s.checkUniqueness(ctx, req.RuleID, req.Code, req.Sequence, uuid.Nil)
}

func (s *SectionService) Update(ctx context.Context, ac access.Context, id uuid.UUID, req UpdateSection) (*models.RuleSection, error) {
	sec, err := s.sections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RuleID != uuid.Nil && req.RuleID != sec.RuleID {
		return nil, apperr.ImmutableField("section", "rule_id")
	}
	if err := requireText("section", "code", req.Code, maxSectionCode); err != nil {
		return nil, err
	}
	if err := requireText("section", "name", req.Name, maxSectionName); err != nil {
		return nil, err
	}
	if err := requirePositive("section", "sequence", req.Sequence); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, sec.RuleID, req.Code, req.Sequence, sec.ID); err != nil {
		return nil, err
	}

	sec.Code = strings.TrimSpace(req.Code)
	sec.Name = strings.TrimSpace(req.Name)
	sec.Sequence = req.Sequence
	if req.Active != nil {
		sec.Active = *req.Active
	}
	sec.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.sections.Save(ctx, sec); err != nil {
		return nil, fmt.Errorf("save section: %w", err)
	}
	s.publish(ctx, "section.updated", sec.ID)
	return sec, nil
}

// Delete removes a section that has no modules left. Deletion is strictly
// bottom-up: modules first, then their section.
func (s *SectionService) Delete(ctx context.Context, ac access.Context, id uuid.UUID) error {
	sec, err := s.sections.FindByID(ctx, id)
	if err != nil {
		return err
	}
	inUse, err := s.modules.ExistsBySection(ctx, sec.ID)
	if err != nil {
		return fmt.Errorf("check section modules: %w", err)
	}
	if inUse {
		return apperr.DependentExists("section", "modules")
	}
	if err := s.sections.Delete(ctx, sec.ID); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	s.publish(ctx, "section.deleted", sec.ID)
	return nil
}

func (s *SectionService) Get(ctx context.Context, id uuid.UUID) (*models.RuleSection, error) {
	return s.sections.FindByID(ctx, id)
}

// List presents sections in normative order: sequence ascending.
func (s *SectionService) List(ctx context.Context, q SectionQuery, page filter.Page) (*filter.Result[models.RuleSection], error) {
	f := filter.New().
		EqualsID("rule_id", q.RuleID).
		ContainsFold("code", q.Code).
		ContainsFold("name", q.Name).
		EqualsBool("active", q.Active)

	items, total, err := s.sections.FindAll(ctx, f, page, []filter.Order{filter.Asc("sequence")})
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return &filter.Result[models.RuleSection]{Items: items, Total: total, Page: page.Number, Size: page.Size}, nil
}

func (s *SectionService) checkUniqueness(ctx context.Context, ruleID uuid.UUID, code string, sequence int, excludeID uuid.UUID) error {
	taken, err := s.sections.CodeExists(ctx, ruleID, strings.TrimSpace(code), excludeID)
	if err != nil {
		return fmt.Errorf("check section code: %w", err)
	}
	if taken {
		return apperr.Duplicate("section", "code already registered for this rule")
	}
	taken, err = s.sections.SequenceExists(ctx, ruleID, sequence, excludeID)
	if err != nil {
		return fmt.Errorf("check section sequence: %w", err)
	}
	if taken {
		return apperr.Duplicate("section", "sequence already registered for this rule")
	}
	return nil
}

func (s *SectionService) publish(ctx context.Context, action string, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.CatalogChanged(ctx, action, "section", id); err != nil {
		slog.Warn("catalog event publish failed", "action", action, "section_id", id, "error", err)
	}
}
