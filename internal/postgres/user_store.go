package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const userCols = "u.id, u.email, u.full_name, u.password_hash, u.active, u.address_street, u.address_city, u.address_state, u.address_zip_code, u.created_at, u.updated_at, u.created_by, u.updated_by"

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(ctx, "SELECT "+userCols+" FROM users u WHERE u.id = $1", id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapNotFound(err, "user", id.String())
	}
	if err := s.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx, "SELECT "+userCols+" FROM users u WHERE LOWER(u.email) = LOWER($1)", email)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapNotFound(err, "user", email)
	}
	if err := s.loadRoles(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Save upserts the user row and rewrites its role set.
func (s *UserStore) Save(ctx context.Context, u *models.User) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, full_name, password_hash, active, address_street, address_city, address_state, address_zip_code, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   password_hash = EXCLUDED.password_hash,
		   active = EXCLUDED.active,
		   address_street = EXCLUDED.address_street,
		   address_city = EXCLUDED.address_city,
		   address_state = EXCLUDED.address_state,
		   address_zip_code = EXCLUDED.address_zip_code,
		   updated_at = EXCLUDED.updated_at,
		   updated_by = EXCLUDED.updated_by`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.Active,
		u.Address.Street, u.Address.City, u.Address.State, u.Address.ZipCode,
		u.Audit.CreatedAt, u.Audit.UpdatedAt, u.Audit.CreatedBy, u.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM user_roles WHERE user_id = $1", u.ID); err != nil {
		return fmt.Errorf("clear user roles: %w", err)
	}
	for _, r := range u.Roles {
		if _, err := tx.Exec(ctx,
			"INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)", u.ID, r.ID,
		); err != nil {
			return fmt.Errorf("insert user role: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *UserStore) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)",
		email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user email exists: %w", err)
	}
	return exists, nil
}

func (s *UserStore) RolesByName(ctx context.Context, names []string) ([]models.Role, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name FROM roles WHERE name = ANY($1)", names)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var out []models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *UserStore) FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.User, int64, error) {
	where, args := f.SQL(1)

	// Role criteria join a fan-out association; DISTINCT keeps a user
	// matching several requested roles from appearing more than once.
	countQ := "SELECT COUNT(DISTINCT u.id) FROM users u" + f.JoinSQL() + where
	var total int64
	if err := s.db.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	sel := "SELECT "
	if f.IsDistinct() {
		sel = "SELECT DISTINCT "
	}
	q := sel + userCols + " FROM users u" + f.JoinSQL() + where + filter.OrderSQL(orders) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit(), p.Offset())
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		if err := s.loadRoles(ctx, &out[i]); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (s *UserStore) loadRoles(ctx context.Context, u *models.User) error {
	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.name FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = $1 ORDER BY r.name`, u.ID)
	if err != nil {
		return fmt.Errorf("query user roles: %w", err)
	}
	defer rows.Close()

	u.Roles = nil
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return fmt.Errorf("scan user role: %w", err)
		}
		u.Roles = append(u.Roles, r)
	}
	return rows.Err()
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Active,
		&u.Address.Street, &u.Address.City, &u.Address.State, &u.Address.ZipCode,
		&u.Audit.CreatedAt, &u.Audit.UpdatedAt, &u.Audit.CreatedBy, &u.Audit.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
