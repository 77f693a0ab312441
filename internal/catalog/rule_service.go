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

const ruleCacheTTL = 5 * time.Minute

// RuleService manages the roots of the catalog. Rule codes are globally
// unique and immutable; rules are soft-deleted, never removed.
type RuleService struct {
	rules  RuleStore
	cache  Cache
	events EventPublisher
}

func NewRuleService(rules RuleStore, cache Cache, events EventPublisher) *RuleService {
	return &RuleService{rules: rules, cache: cache, events: events}
}

type CreateRule struct {
	Code          string     `json:"code"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Ordinance     string     `json:"ordinance"`
	OrdinanceDate *time.Time `json:"ordinance_date"`
}

type UpdateRule struct {
	Code          string     `json:"code"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Ordinance     *string    `json:"ordinance"`
	OrdinanceDate *time.Time `json:"ordinance_date"`
	Active        *bool      `json:"active"`
}

type RuleQuery struct {
	Code          string     `json:"code"`
	Title         string     `json:"title"`
	Active        *bool      `json:"active"`
	Deleted       *bool      `json:"deleted"`
	OrdinanceFrom *time.Time `json:"ordinance_from"`
	OrdinanceTo   *time.Time `json:"ordinance_to"`
}

func (s *RuleService) Create(ctx context.Context, ac access.Context, req CreateRule) (*models.Rule, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return nil, err
	}

	r := &models.Rule{
		ID:            uuid.New(),
		Code:          strings.TrimSpace(req.Code),
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Ordinance:     req.Ordinance,
		OrdinanceDate: req.OrdinanceDate,
		Active:        true,
	}
	r.Audit.StampCreate(ac.UserID, time.Now().UTC())

	if err := s.rules.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save rule: %w", err)
	}
	s.publish(ctx, "rule.created", r.ID)
	return r, nil
}

func (s *RuleService) validateCreate(ctx context.Context, req CreateRule) error {
	if err := requireText("rule", "code", req.Code, maxRuleCode); err != nil {
		return err
	}
	if err := requireText("rule", "title", req.Title, maxRuleTitle); err != nil {
		return err
	}
	if err := optionalText("rule", "description", req.Description, maxRuleDescription); err != nil {
		return err
	}
	if err := optionalText("rule", "ordinance", req.Ordinance, maxRuleOrdinance); err != nil {
		return err
	}

	taken, err := s.rules.CodeExists(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return fmt.Errorf("check rule code: %w", err)
	}
	if taken {
		return apperr.Duplicate("rule", "code already registered")
	}
	return nil
}

// Update changes the mutable attributes of a rule. Code is immutable and
// uniqueness is therefore never re-checked here.
func (s *RuleService) Update(ctx context.Context, ac access.Context, id uuid.UUID, req UpdateRule) (*models.Rule, error) {
	r, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Code != "" && !strings.EqualFold(req.Code, r.Code) {
		return nil, apperr.ImmutableField("rule", "code")
	}
	if err := requireText("rule", "title", req.Title, maxRuleTitle); err != nil {
		return nil, err
	}

	r.Title = strings.TrimSpace(req.Title)
	if req.Description != nil {
		if err := optionalText("rule", "description", *req.Description, maxRuleDescription); err != nil {
			return nil, err
		}
		r.Description = *req.Description
	}
	if req.Ordinance != nil {
		if err := optionalText("rule", "ordinance", *req.Ordinance, maxRuleOrdinance); err != nil {
			return nil, err
		}
		r.Ordinance = *req.Ordinance
	}
	if req.OrdinanceDate != nil {
		r.OrdinanceDate = req.OrdinanceDate
	}
	if req.Active != nil {
		r.Active = *req.Active
	}
	r.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.rules.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("save rule: %w", err)
	}
	s.invalidate(ctx, r.ID)
	s.publish(ctx, "rule.updated", r.ID)
	return r, nil
}

// SoftDelete marks a rule deleted and inactive. Calling it on an already
// deleted rule is a no-op, never an error.
func (s *RuleService) SoftDelete(ctx context.Context, ac access.Context, id uuid.UUID) error {
	r, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r.Deleted {
		return nil
	}
	r.Deleted = true
	r.Active = false
	r.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.rules.Save(ctx, r); err != nil {
		return fmt.Errorf("save rule: %w", err)
	}
	s.invalidate(ctx, r.ID)
	s.publish(ctx, "rule.deleted", r.ID)
	return nil
}

// Restore clears the deleted flag; the rule stays inactive until an update
// re-activates it. Idempotent like SoftDelete.
func (s *RuleService) Restore(ctx context.Context, ac access.Context, id uuid.UUID) error {
	r, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.Deleted {
		return nil
	}
	r.Deleted = false
	r.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.rules.Save(ctx, r); err != nil {
		return fmt.Errorf("save rule: %w", err)
	}
	s.invalidate(ctx, r.ID)
	s.publish(ctx, "rule.restored", r.ID)
	return nil
}

func (s *RuleService) Get(ctx context.Context, id uuid.UUID) (*models.Rule, error) {
	key := ruleCacheKey(id)
	if s.cache != nil {
		var cached models.Rule
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	r, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, r, ruleCacheTTL); err != nil {
			slog.Warn("rule cache set failed", "rule_id", id, "error", err)
		}
	}
	return r, nil
}

// List returns one page of rules matching every present criterion. Rules
// are always ordered ascending by code so pagination stays stable.
func (s *RuleService) List(ctx context.Context, q RuleQuery, page filter.Page) (*filter.Result[models.Rule], error) {
	f := filter.New().
		ContainsFold("code", q.Code).
		ContainsFold("title", q.Title).
		EqualsBool("active", q.Active).
		EqualsBool("deleted", q.Deleted).
		TimeRange("ordinance_date", q.OrdinanceFrom, q.OrdinanceTo)

	items, total, err := s.rules.FindAll(ctx, f, page, []filter.Order{filter.Asc("code")})
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return &filter.Result[models.Rule]{Items: items, Total: total, Page: page.Number, Size: page.Size}, nil
}

func (s *RuleService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ruleCacheKey(id)); err != nil {
		slog.Warn("rule cache invalidation failed", "rule_id", id, "error", err)
	}
}

func (s *RuleService) publish(ctx context.Context, action string, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.CatalogChanged(ctx, action, "rule", id); err != nil {
		slog.Warn("catalog event publish failed", "action", action, "rule_id", id, "error", err)
	}
}

func ruleCacheKey(id uuid.UUID) string {
	return "catalog:rule:" + id.String()
}
