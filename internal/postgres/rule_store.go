package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const ruleCols = "id, code, title, description, ordinance, ordinance_date, active, deleted, created_at, updated_at, created_by, updated_by"

type RuleStore struct {
	db *pgxpool.Pool
}

func NewRuleStore(db *pgxpool.Pool) *RuleStore {
	return &RuleStore{db: db}
}

func (s *RuleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Rule, error) {
	row := s.db.QueryRow(ctx, "SELECT "+ruleCols+" FROM rules WHERE id = $1", id)
	r, err := scanRule(row)
	if err != nil {
		return nil, mapNotFound(err, "rule", id.String())
	}
	return r, nil
}

func (s *RuleStore) Save(ctx context.Context, r *models.Rule) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rules (id, code, title, description, ordinance, ordinance_date, active, deleted, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title,
		   description = EXCLUDED.description,
		   ordinance = EXCLUDED.ordinance,
		   ordinance_date = EXCLUDED.ordinance_date,
		   active = EXCLUDED.active,
		   deleted = EXCLUDED.deleted,
		   updated_at = EXCLUDED.updated_at,
		   updated_by = EXCLUDED.updated_by`,
		r.ID, r.Code, r.Title, r.Description, r.Ordinance, r.OrdinanceDate, r.Active, r.Deleted,
		r.Audit.CreatedAt, r.Audit.UpdatedAt, r.Audit.CreatedBy, r.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert rule: %w", err)
	}
	return nil
}

func (s *RuleStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM rules WHERE LOWER(code) = LOWER($1))", code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("rule code exists: %w", err)
	}
	return exists, nil
}

func (s *RuleStore) FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.Rule, int64, error) {
	where, args := f.SQL(1)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM rules"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rules: %w", err)
	}

	q := "SELECT " + ruleCols + " FROM rules" + where + filter.OrderSQL(orders) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit(), p.Offset())
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var out []models.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*models.Rule, error) {
	var r models.Rule
	err := row.Scan(&r.ID, &r.Code, &r.Title, &r.Description, &r.Ordinance, &r.OrdinanceDate,
		&r.Active, &r.Deleted, &r.Audit.CreatedAt, &r.Audit.UpdatedAt, &r.Audit.CreatedBy, &r.Audit.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
