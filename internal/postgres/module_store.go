package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const moduleCols = "id, section_id, code, name, sequence, active, created_at, updated_at, created_by, updated_by"

type ModuleStore struct {
	db *pgxpool.Pool
}

func NewModuleStore(db *pgxpool.Pool) *ModuleStore {
	return &ModuleStore{db: db}
}

func (s *ModuleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RuleModule, error) {
	row := s.db.QueryRow(ctx, "SELECT "+moduleCols+" FROM rule_modules WHERE id = $1", id)
	m, err := scanModule(row)
	if err != nil {
		return nil, mapNotFound(err, "module", id.String())
	}
	return m, nil
}

func (s *ModuleStore) Save(ctx context.Context, m *models.RuleModule) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rule_modules (id, section_id, code, name, sequence, active, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   code = EXCLUDED.code,
		   name = EXCLUDED.name,
		   sequence = EXCLUDED.sequence,
		   active = EXCLUDED.active,
		   updated_at = EXCLUDED.updated_at,
		   updated_by = EXCLUDED.updated_by`,
		m.ID, m.SectionID, m.Code, m.Name, m.Sequence, m.Active,
		m.Audit.CreatedAt, m.Audit.UpdatedAt, m.Audit.CreatedBy, m.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert module: %w", err)
	}
	return nil
}

func (s *ModuleStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM rule_modules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete module: %w", err)
	}
	return nil
}

func (s *ModuleStore) CodeExists(ctx context.Context, sectionID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rule_modules
		  WHERE section_id = $1 AND LOWER(code) = LOWER($2) AND id <> $3)`,
		sectionID, code, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("module code exists: %w", err)
	}
	return exists, nil
}

func (s *ModuleStore) SequenceExists(ctx context.Context, sectionID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rule_modules
		  WHERE section_id = $1 AND sequence = $2 AND id <> $3)`,
		sectionID, sequence, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("module sequence exists: %w", err)
	}
	return exists, nil
}

func (s *ModuleStore) ExistsBySection(ctx context.Context, sectionID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM rule_modules WHERE section_id = $1)", sectionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("modules by section: %w", err)
	}
	return exists, nil
}

func (s *ModuleStore) FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.RuleModule, int64, error) {
	where, args := f.SQL(1)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM rule_modules"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count modules: %w", err)
	}

	q := "SELECT " + moduleCols + " FROM rule_modules" + where + filter.OrderSQL(orders) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit(), p.Offset())
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query modules: %w", err)
	}
	defer rows.Close()

	var out []models.RuleModule
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan module: %w", err)
		}
		out = append(out, *m)
	}
	return out, total, rows.Err()
}

func scanModule(row rowScanner) (*models.RuleModule, error) {
	var m models.RuleModule
	err := row.Scan(&m.ID, &m.SectionID, &m.Code, &m.Name, &m.Sequence, &m.Active,
		&m.Audit.CreatedAt, &m.Audit.UpdatedAt, &m.Audit.CreatedBy, &m.Audit.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
