package tenancy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/access"
	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const (
	maxLocationName        = 100
	maxLocationCode        = 20
	maxLocationType        = 30
	maxLocationDescription = 500
	maxAddressStreet       = 150
	maxAddressCity         = 100
	maxAddressState        = 50
	maxAddressZip          = 15
)

// LocationService manages company locations. A location carries no owner
// field of its own; every check walks location → company → user.
type LocationService struct {
	locations LocationStore
	owners    *OwnershipResolver
}

func NewLocationService(locations LocationStore, owners *OwnershipResolver) *LocationService {
	return &LocationService{locations: locations, owners: owners}
}

type CreateLocation struct {
	CompanyID   uuid.UUID      `json:"company_id"`
	Name        string         `json:"name"`
	Code        string         `json:"code"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Address     models.Address `json:"address"`
}

type UpdateLocation struct {
	CompanyID   uuid.UUID       `json:"company_id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Type        *string         `json:"type"`
	Description *string         `json:"description"`
	Address     *models.Address `json:"address"`
}

type LocationQuery struct {
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	City      string    `json:"city"`
	State     string    `json:"state"`
}

func (s *LocationService) Create(ctx context.Context, ac access.Context, req CreateLocation) (*models.Location, error) {
	if req.CompanyID == uuid.Nil {
		return nil, apperr.MissingField("location", "company_id")
	}

	// Ownership is settled before the payload is inspected: resolves
	// existence and the two-hop chain in one step.
	if _, err := s.owners.ResolveCompany(ctx, ac, req.CompanyID); err != nil {
		return nil, err
	}

	if err := s.validateFields(req.Name, req.Code, req.Type, req.Description, req.Address); err != nil {
		return nil, err
	}

	taken, err := s.locations.CodeExists(ctx, req.CompanyID, strings.TrimSpace(req.Code), uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check location code: %w", err)
	}
	if taken {
		return nil, apperr.Duplicate("location", "code already registered for this company")
	}

	l := &models.Location{
		ID:          uuid.New(),
		CompanyID:   req.CompanyID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		Type:        req.Type,
		Description: req.Description,
		Address:     req.Address,
	}
	l.Audit.StampCreate(ac.UserID, time.Now().UTC())

	if err := s.locations.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("save location: %w", err)
	}
	return l, nil
}

func (s *LocationService) Get(ctx context.Context, ac access.Context, id uuid.UUID) (*models.Location, error) {
	l, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.owners.AuthorizeLocation(ctx, ac, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LocationService) Update(ctx context.Context, ac access.Context, id uuid.UUID, req UpdateLocation) (*models.Location, error) {
	l, err := s.Get(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	if req.CompanyID != uuid.Nil && req.CompanyID != l.CompanyID {
		return nil, apperr.ImmutableField("location", "company_id")
	}
	if err := requireText("location", "name", req.Name, maxLocationName); err != nil {
		return nil, err
	}
	if err := requireText("location", "code", req.Code, maxLocationCode); err != nil {
		return nil, err
	}

	taken, err := s.locations.CodeExists(ctx, l.CompanyID, strings.TrimSpace(req.Code), l.ID)
	if err != nil {
		return nil, fmt.Errorf("check location code: %w", err)
	}
	if taken {
		return nil, apperr.Duplicate("location", "code already registered for this company")
	}

	l.Name = strings.TrimSpace(req.Name)
	l.Code = strings.TrimSpace(req.Code)
	if req.Type != nil {
		if err := optionalText("location", "type", *req.Type, maxLocationType); err != nil {
			return nil, err
		}
		l.Type = *req.Type
	}
	if req.Description != nil {
		if err := optionalText("location", "description", *req.Description, maxLocationDescription); err != nil {
			return nil, err
		}
		l.Description = *req.Description
	}
	if req.Address != nil {
		if err := validateAddress(*req.Address); err != nil {
			return nil, err
		}
		l.Address = *req.Address
	}
	l.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.locations.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("save location: %w", err)
	}
	return l, nil
}

func (s *LocationService) Delete(ctx context.Context, ac access.Context, id uuid.UUID) error {
	l, err := s.Get(ctx, ac, id)
	if err != nil {
		return err
	}
	if err := s.locations.Delete(ctx, l.ID); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

// Search lists locations. A non-privileged caller must name a company —
// there is no implicit "all companies you own" expansion — and must own the
// company named.
func (s *LocationService) Search(ctx context.Context, ac access.Context, q LocationQuery, page filter.Page) (*filter.Result[models.Location], error) {
	if !ac.Privileged() {
		if q.CompanyID == uuid.Nil {
			return nil, apperr.InvalidField("location", "company_id", "is required for this search")
		}
		if _, err := s.owners.ResolveCompany(ctx, ac, q.CompanyID); err != nil {
			return nil, err
		}
	}

	f := filter.New().
		EqualsID("company_id", q.CompanyID).
		ContainsFold("name", q.Name).
		ContainsFold("code", q.Code).
		EqualsString("type", q.Type).
		ContainsFold("address_city", q.City).
		EqualsFold("address_state", q.State)

	items, total, err := s.locations.FindAll(ctx, f, page, nil)
	if err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}
	return &filter.Result[models.Location]{Items: items, Total: total, Page: page.Number, Size: page.Size}, nil
}

func (s *LocationService) validateFields(name, code, typ, description string, addr models.Address) error {
	if err := requireText("location", "name", name, maxLocationName); err != nil {
		return err
	}
	if err := requireText("location", "code", code, maxLocationCode); err != nil {
		return err
	}
	if err := optionalText("location", "type", typ, maxLocationType); err != nil {
		return err
	}
	if err := optionalText("location", "description", description, maxLocationDescription); err != nil {
		return err
	}
	return validateAddress(addr)
}

func validateAddress(a models.Address) error {
	if err := optionalText("location", "street", a.Street, maxAddressStreet); err != nil {
		return err
	}
	if err := optionalText("location", "city", a.City, maxAddressCity); err != nil {
		return err
	}
	if err := optionalText("location", "state", a.State, maxAddressState); err != nil {
		return err
	}
	return optionalText("location", "zip_code", a.ZipCode, maxAddressZip)
}
