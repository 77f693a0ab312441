package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const locationCols = "id, company_id, name, code, type, description, address_street, address_city, address_state, address_zip_code, created_at, updated_at, created_by, updated_by"

type LocationStore struct {
	db *pgxpool.Pool
}

func NewLocationStore(db *pgxpool.Pool) *LocationStore {
	return &LocationStore{db: db}
}

func (s *LocationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	row := s.db.QueryRow(ctx, "SELECT "+locationCols+" FROM locations WHERE id = $1", id)
	l, err := scanLocation(row)
	if err != nil {
		return nil, mapNotFound(err, "location", id.String())
	}
	return l, nil
}

func (s *LocationStore) Save(ctx context.Context, l *models.Location) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO locations (id, company_id, name, code, type, description, address_street, address_city, address_state, address_zip_code, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   code = EXCLUDED.code,
		   type = EXCLUDED.type,
		   description = EXCLUDED.description,
		   address_street = EXCLUDED.address_street,
		   address_city = EXCLUDED.address_city,
		   address_state = EXCLUDED.address_state,
		   address_zip_code = EXCLUDED.address_zip_code,
		   updated_at = EXCLUDED.updated_at,
		   updated_by = EXCLUDED.updated_by`,
		l.ID, l.CompanyID, l.Name, l.Code, l.Type, l.Description,
		l.Address.Street, l.Address.City, l.Address.State, l.Address.ZipCode,
		l.Audit.CreatedAt, l.Audit.UpdatedAt, l.Audit.CreatedBy, l.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}

func (s *LocationStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM locations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func (s *LocationStore) CodeExists(ctx context.Context, companyID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM locations
		  WHERE company_id = $1 AND LOWER(code) = LOWER($2) AND id <> $3)`,
		companyID, code, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("location code exists: %w", err)
	}
	return exists, nil
}

func (s *LocationStore) FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.Location, int64, error) {
	where, args := f.SQL(1)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM locations"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count locations: %w", err)
	}

	q := "SELECT " + locationCols + " FROM locations" + where + filter.OrderSQL(orders) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit(), p.Offset())
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var out []models.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, *l)
	}
	return out, total, rows.Err()
}

func scanLocation(row rowScanner) (*models.Location, error) {
	var l models.Location
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Code, &l.Type, &l.Description,
		&l.Address.Street, &l.Address.City, &l.Address.State, &l.Address.ZipCode,
		&l.Audit.CreatedAt, &l.Audit.UpdatedAt, &l.Audit.CreatedBy, &l.Audit.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
