package tenancy

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
	roles map[string]models.Role
}

func newFakeUserStore(roleNames ...string) *fakeUserStore {
	f := &fakeUserStore{
		users: make(map[uuid.UUID]*models.User),
		roles: make(map[string]models.Role),
	}
	for _, name := range roleNames {
		f.roles[name] = models.Role{ID: uuid.New(), Name: name}
	}
	return f
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user", id.String())
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user", email)
}

func (f *fakeUserStore) Save(_ context.Context, u *models.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for _, u := range f.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) RolesByName(_ context.Context, names []string) ([]models.Role, error) {
	var out []models.Role
	for _, n := range names {
		if r, ok := f.roles[n]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeUserStore) FindAll(_ context.Context, _ *filter.Filter, _ filter.Page, _ []filter.Order) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

type fakeCompanyStore struct {
	companies  map[uuid.UUID]*models.ClientCompany
	lastFilter *filter.Filter
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{companies: make(map[uuid.UUID]*models.ClientCompany)}
}

func (f *fakeCompanyStore) FindByID(_ context.Context, id uuid.UUID) (*models.ClientCompany, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, apperr.NotFound("company", id.String())
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyStore) Save(_ context.Context, c *models.ClientCompany) error {
	cp := *c
	f.companies[c.ID] = &cp
	return nil
}

func (f *fakeCompanyStore) TaxIDExists(_ context.Context, taxID string, excludeID uuid.UUID) (bool, error) {
	for _, c := range f.companies {
		if c.ID != excludeID && c.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCompanyStore) ExistsByUser(_ context.Context, userID uuid.UUID) (bool, error) {
	for _, c := range f.companies {
		if c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCompanyStore) FindAll(_ context.Context, flt *filter.Filter, _ filter.Page, _ []filter.Order) ([]models.ClientCompany, int64, error) {
	f.lastFilter = flt
	var out []models.ClientCompany
	for _, c := range f.companies {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeLocationStore struct {
	locations  map[uuid.UUID]*models.Location
	lastFilter *filter.Filter
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{locations: make(map[uuid.UUID]*models.Location)}
}

func (f *fakeLocationStore) FindByID(_ context.Context, id uuid.UUID) (*models.Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return nil, apperr.NotFound("location", id.String())
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLocationStore) Save(_ context.Context, l *models.Location) error {
	cp := *l
	f.locations[l.ID] = &cp
	return nil
}

func (f *fakeLocationStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.locations, id)
	return nil
}

func (f *fakeLocationStore) CodeExists(_ context.Context, companyID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	for _, l := range f.locations {
		if l.CompanyID == companyID && l.ID != excludeID && strings.EqualFold(l.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLocationStore) FindAll(_ context.Context, flt *filter.Filter, _ filter.Page, _ []filter.Order) ([]models.Location, int64, error) {
	f.lastFilter = flt
	var out []models.Location
	for _, l := range f.locations {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func newTestPage() filter.Page {
	return filter.NewPage(0, 50)
}

// plainHasher avoids bcrypt rounds in tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return apperr.Forbidden("user", "invalid credentials")
	}
	return nil
}
