package tenancy

import (
	"context"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/access"
	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/models"
)

// OwnershipResolver decides whether a tenant-scoped resource belongs to the
// caller. Companies carry their owner directly; locations resolve two hops
// through their company.
type OwnershipResolver struct {
	companies CompanyStore
}

func NewOwnershipResolver(companies CompanyStore) *OwnershipResolver {
	return &OwnershipResolver{companies: companies}
}

// AuthorizeCompany checks an already-loaded company against the caller.
// Privileged callers pass unconditionally.
func (r *OwnershipResolver) AuthorizeCompany(ac access.Context, c *models.ClientCompany) error {
	if ac.Privileged() {
		return nil
	}
	if c.UserID != ac.UserID {
		return apperr.Forbidden("company", "not owned by caller")
	}
	return nil
}

// ResolveCompany loads a company by id and checks ownership. A mismatch is
// ForbiddenAccess, never a masked not-found.
func (r *OwnershipResolver) ResolveCompany(ctx context.Context, ac access.Context, companyID uuid.UUID) (*models.ClientCompany, error) {
	c, err := r.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := r.AuthorizeCompany(ac, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AuthorizeLocation resolves the two-hop chain location → company → user.
func (r *OwnershipResolver) AuthorizeLocation(ctx context.Context, ac access.Context, l *models.Location) error {
	if ac.Privileged() {
		return nil
	}
	_, err := r.ResolveCompany(ctx, ac, l.CompanyID)
	return err
}
