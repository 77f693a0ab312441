// Package tenancy implements the ownership chain User ← ClientCompany ←
// Location and the access scoping applied to every tenant-scoped read and
// write. A non-privileged caller only ever sees or touches rows that
// resolve to their own user id.
package tenancy

import (
	"context"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	RolesByName(ctx context.Context, names []string) ([]models.Role, error)
	FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.User, int64, error)
}

type CompanyStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ClientCompany, error)
	Save(ctx context.Context, c *models.ClientCompany) error
	TaxIDExists(ctx context.Context, taxID string, excludeID uuid.UUID) (bool, error)
	// ExistsByUser backs the user deletion guard.
	ExistsByUser(ctx context.Context, userID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.ClientCompany, int64, error)
}

type LocationStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Save(ctx context.Context, l *models.Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	CodeExists(ctx context.Context, companyID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
	FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.Location, int64, error)
}

// PasswordHasher is the hashing collaborator; the concrete bcrypt
// implementation lives in the auth package.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
