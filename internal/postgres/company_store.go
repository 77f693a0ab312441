package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const companyCols = "id, user_id, corporate_name, trade_name, tax_id, phone, email, active, deleted, deleted_at, created_at, updated_at, created_by, updated_by"

type CompanyStore struct {
	db *pgxpool.Pool
}

func NewCompanyStore(db *pgxpool.Pool) *CompanyStore {
	return &CompanyStore{db: db}
}

func (s *CompanyStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ClientCompany, error) {
	row := s.db.QueryRow(ctx, "SELECT "+companyCols+" FROM client_companies WHERE id = $1", id)
	c, err := scanCompany(row)
	if err != nil {
		return nil, mapNotFound(err, "company", id.String())
	}
	return c, nil
}

func (s *CompanyStore) Save(ctx context.Context, c *models.ClientCompany) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO client_companies (id, user_id, corporate_name, trade_name, tax_id, phone, email, active, deleted, deleted_at, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO UPDATE SET
		   user_id = EXCLUDED.user_id,
		   corporate_name = EXCLUDED.corporate_name,
		   trade_name = EXCLUDED.trade_name,
		   phone = EXCLUDED.phone,
		   email = EXCLUDED.email,
		   active = EXCLUDED.active,
		   deleted = EXCLUDED.deleted,
		   deleted_at = EXCLUDED.deleted_at,
		   updated_at = EXCLUDED.updated_at,
		   updated_by = EXCLUDED.updated_by`,
		c.ID, c.UserID, c.CorporateName, c.TradeName, c.TaxID, c.Phone, c.Email,
		c.Active, c.Deleted, c.DeletedAt,
		c.Audit.CreatedAt, c.Audit.UpdatedAt, c.Audit.CreatedBy, c.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert company: %w", err)
	}
	return nil
}

func (s *CompanyStore) TaxIDExists(ctx context.Context, taxID string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM client_companies WHERE tax_id = $1 AND id <> $2)",
		taxID, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("company tax id exists: %w", err)
	}
	return exists, nil
}

func (s *CompanyStore) ExistsByUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM client_companies WHERE user_id = $1)", userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("companies by user: %w", err)
	}
	return exists, nil
}

func (s *CompanyStore) FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.ClientCompany, int64, error) {
	where, args := f.SQL(1)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM client_companies"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	q := "SELECT " + companyCols + " FROM client_companies" + where + filter.OrderSQL(orders) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit(), p.Offset())
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var out []models.ClientCompany
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func scanCompany(row rowScanner) (*models.ClientCompany, error) {
	var c models.ClientCompany
	err := row.Scan(&c.ID, &c.UserID, &c.CorporateName, &c.TradeName, &c.TaxID, &c.Phone, &c.Email,
		&c.Active, &c.Deleted, &c.DeletedAt,
		&c.Audit.CreatedAt, &c.Audit.UpdatedAt, &c.Audit.CreatedBy, &c.Audit.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
