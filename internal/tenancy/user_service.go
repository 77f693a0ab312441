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
	maxUserEmail    = 100
	maxUserFullName = 150
	minPasswordLen  = 8
)

// UserService manages accounts. User administration is a privileged
// surface; the routes wiring it require the admin role.
type UserService struct {
	users     UserStore
	companies CompanyStore
	hasher    PasswordHasher
}

func NewUserService(users UserStore, companies CompanyStore, hasher PasswordHasher) *UserService {
	return &UserService{users: users, companies: companies, hasher: hasher}
}

type CreateUser struct {
	Email    string         `json:"email"`
	FullName string         `json:"full_name"`
	Password string         `json:"password"`
	Roles    []string       `json:"roles"`
	Address  models.Address `json:"address"`
}

type UpdateUser struct {
	FullName string          `json:"full_name"`
	Password string          `json:"password"`
	Roles    []string        `json:"roles"`
	Active   *bool           `json:"active"`
	Address  *models.Address `json:"address"`
}

type UserQuery struct {
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Roles       []string   `json:"roles"`
	Active      *bool      `json:"active"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	CreatedFrom *time.Time `json:"created_from"`
	CreatedTo   *time.Time `json:"created_to"`
}

func (s *UserService) Create(ctx context.Context, ac access.Context, req CreateUser) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if err := requireText("user", "email", email, maxUserEmail); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.InvalidField("user", "email", "is not a valid address")
	}
	if err := requireText("user", "full_name", req.FullName, maxUserFullName); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperr.InvalidField("user", "password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}

	taken, err := s.users.EmailExists(ctx, email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check user email: %w", err)
	}
	if taken {
		return nil, apperr.Duplicate("user", "email already registered")
	}

	roles, err := s.resolveRoles(ctx, req.Roles)
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Active:       true,
		Address:      req.Address,
		Roles:        roles,
	}
	u.Audit.StampCreate(ac.UserID, time.Now().UTC())

	if err := s.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, ac access.Context, id uuid.UUID, req UpdateUser) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireText("user", "full_name", req.FullName, maxUserFullName); err != nil {
		return nil, err
	}

	u.FullName = strings.TrimSpace(req.FullName)
	if req.Password != "" {
		if len(req.Password) < minPasswordLen {
			return nil, apperr.InvalidField("user", "password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
		}
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if req.Roles != nil {
		roles, err := s.resolveRoles(ctx, req.Roles)
		if err != nil {
			return nil, err
		}
		u.Roles = roles
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	u.Audit.StampUpdate(ac.UserID, time.Now().UTC())

	if err := s.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

// Delete removes a user that owns no companies; ownership must be
// transferred or the companies deleted first.
func (s *UserService) Delete(ctx context.Context, ac access.Context, id uuid.UUID) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	owns, err := s.companies.ExistsByUser(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("check user companies: %w", err)
	}
	if owns {
		return apperr.DependentExists("user", "companies")
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// List filters users. The role criterion joins the user-role association
// and deduplicates, so a user holding several requested roles appears once.
func (s *UserService) List(ctx context.Context, q UserQuery, page filter.Page) (*filter.Result[models.User], error) {
	f := filter.New().
		ContainsFold("u.email", q.Email).
		ContainsFold("u.full_name", q.Name).
		EqualsBool("u.active", q.Active).
		ContainsFold("u.address_city", q.City).
		EqualsFold("u.address_state", q.State).
		TimeRange("u.created_at", q.CreatedFrom, q.CreatedTo)
	if len(q.Roles) > 0 {
		f.Join("JOIN user_roles ur ON ur.user_id = u.id JOIN roles r ON r.id = ur.role_id").
			Distinct().
			InStrings("r.name", q.Roles)
	}

	items, total, err := s.users.FindAll(ctx, f, page, []filter.Order{filter.Asc("u.email")})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &filter.Result[models.User]{Items: items, Total: total, Page: page.Number, Size: page.Size}, nil
}

// Authenticate verifies credentials for token issuance. Failures are
// deliberately indistinct.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, apperr.Forbidden("user", "invalid credentials")
	}
	if !u.Active {
		return nil, apperr.Forbidden("user", "invalid credentials")
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, apperr.Forbidden("user", "invalid credentials")
	}
	return u, nil
}

func (s *UserService) resolveRoles(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	roles, err := s.users.RolesByName(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve roles: %w", err)
	}
	if len(roles) != len(names) {
		return nil, apperr.InvalidField("user", "roles", "contains an unknown role")
	}
	return roles, nil
}
