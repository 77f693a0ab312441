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
	maxCompanyCorporateName = 150
	maxCompanyTradeName     = 150
	maxCompanyTaxID         = 20
	maxCompanyPhone         = 20
	maxCompanyEmail         = 100
)

// CompanyService manages client companies. Every operation is ownership
// scoped: a non-privileged caller may only touch companies they own, and a
// soft-deleted company rejects further mutation.
type CompanyService struct {
	companies CompanyStore
	users     UserStore
	owners    *OwnershipResolver
}

func NewCompanyService(companies CompanyStore, users UserStore, owners *OwnershipResolver) *CompanyService {
	return &CompanyService{companies: companies, users: users, owners: owners}
}

type CreateCompany struct {
	UserID        uuid.UUID `json:"user_id"`
	CorporateName string    `json:"corporate_name"`
	TradeName     string    `json:"trade_name"`
	TaxID         string    `json:"tax_id"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
}

type UpdateCompany struct {
	UserID        uuid.UUID `json:"user_id"`
	CorporateName string    `json:"corporate_name"`
	TradeName     *string   `json:"trade_name"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Active        *bool     `json:"active"`
}

type CompanyQuery struct {
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	TaxID   string    `json:"tax_id"`
	Active  *bool     `json:"active"`
	Deleted *bool     `json:"deleted"`
}

func (s *CompanyService) Create(ctx context.Context, ac access.Context, req CreateCompany) (*models.ClientCompany, error) {
	ownerID := req.UserID
	if !ac.Privileged() {
		// A non-privileged caller naming a different owner is rejected
		// outright; an omitted owner defaults to the caller.
		if ownerID != uuid.Nil && ownerID != ac.UserID {
			return nil, apperr.Forbidden("company", "cannot create for another user")
		}
		ownerID = ac.UserID
	}
	if ownerID == uuid.Nil {
		return nil, apperr.MissingField("company", "user_id")
	}
	if err := s.validateFields("company", req.CorporateName, req.TradeName, req.TaxID, req.Phone, req.Email); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	taken, err := s.companies.TaxIDExists(ctx, strings.TrimSpace(req.TaxID), uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check company tax id: %w", err)
	}
	if taken {
		return nil, apperr.Duplicate("company", "tax id already registered")
	}

	c := &models.ClientCompany{
		ID:            uuid.New(),
		UserID:        ownerID,
		CorporateName: strings.TrimSpace(req.CorporateName),
		TradeName:     strings.TrimSpace(req.TradeName),
		TaxID:         strings.TrimSpace(req.TaxID),
		Phone:         req.Phone,
		Email:         req.Email,
		Active:        true,
	}
	c.Audit.StampCreate(ac.UserID, time.Now().UTC())

	if err := s.companies.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save company: %w", err)
	}
	return c, nil
}

func (s *CompanyService) Get(ctx context.Context, ac access.Context, id uuid.UUID) (*models.ClientCompany, error) {
	return s.owners.ResolveCompany(ctx, ac, id)
}

func (s *CompanyService) Update(ctx context.Context, ac access.Context, id uuid.UUID, req UpdateCompany) (*models.ClientCompany, error) {
	c, err := s.owners.ResolveCompany(ctx, ac, id)
	if err != nil {
		return nil, err
	}
	if c.Deleted {
		return nil, apperr.InvalidField("company", "deleted", "cannot modify a deleted company")
	}
	if req.UserID != uuid.Nil && req.UserID != c.UserID {
		// Only a privileged caller may reassign ownership, and only to an
		// existing user.
		if !ac.Privileged() {
			return nil, apperr.Forbidden("company", "cannot transfer to another user")
		}
		if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
			return nil, err
		}
		c.UserID = req.UserID
	}
	if err := requireText("company", "corporate_name", req.CorporateName, maxCompanyCorporateName); err != nil {
		return nil, err
	}

	c.CorporateName = strings.TrimSpace(req.CorporateName)
	if req.TradeName != nil {
		if err := optionalText("company", "trade_name", *req.TradeName, maxCompanyTradeName); err != nil {
			return nil, err
		}
		c.TradeName = strings.TrimSpace(*req.TradeName)
	}
	if req.Phone != nil {
		if err := optionalText("company", "phone", *req.Phone, maxCompanyPhone); err != nil {
			return nil, err
		}
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		if err := optionalText("company", "email", *req.Email, maxCompanyEmail); err != nil {
			return nil, err
		}
		c.Email = *req.Email
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	c.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.companies.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("save company: %w", err)
	}
	return c, nil
}

// SoftDelete marks a company deleted. Unlike rule soft-deletion this is not
// idempotent: a second call is a mutation of a deleted company and is
// rejected.
func (s *CompanyService) SoftDelete(ctx context.Context, ac access.Context, id uuid.UUID) error {
	c, err := s.owners.ResolveCompany(ctx, ac, id)
	if err != nil {
		return err
	}
	if c.Deleted {
		return apperr.InvalidField("company", "deleted", "cannot modify a deleted company")
	}
	now := time.Now().UTC()
	c.Deleted = true
	c.Active = false
	c.DeletedAt = &now
	c.Audit.StampUpdate(ac.UserID, now)

	if err := s.companies.Save(ctx, c); err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}

// List scopes results to the caller: a non-privileged caller always gets
// rows owned by their own id, whatever owner filter they supplied.
func (s *CompanyService) List(ctx context.Context, ac access.Context, q CompanyQuery, page filter.Page) (*filter.Result[models.ClientCompany], error) {
	ownerID := q.UserID
	if !ac.Privileged() {
		ownerID = ac.UserID
	}

	f := filter.New()
	if ownerID != uuid.Nil {
		f.Equals("user_id", ownerID)
	}
	f.ContainsFold("corporate_name", q.Name).
		EqualsString("tax_id", q.TaxID).
		EqualsBool("active", q.Active).
		EqualsBool("deleted", q.Deleted)

	items, total, err := s.companies.FindAll(ctx, f, page, nil)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return &filter.Result[models.ClientCompany]{Items: items, Total: total, Page: page.Number, Size: page.Size}, nil
}

func (s *CompanyService) validateFields(entity, corporateName, tradeName, taxID, phone, email string) error {
	if err := requireText(entity, "corporate_name", corporateName, maxCompanyCorporateName); err != nil {
		return err
	}
	if err := optionalText(entity, "trade_name", tradeName, maxCompanyTradeName); err != nil {
		return err
	}
	if err := requireText(entity, "tax_id", taxID, maxCompanyTaxID); err != nil {
		return err
	}
	if err := optionalText(entity, "phone", phone, maxCompanyPhone); err != nil {
		return err
	}
	return optionalText(entity, "email", email, maxCompanyEmail)
}
