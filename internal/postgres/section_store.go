package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const sectionCols = "id, rule_id, code, name, sequence, active, created_at, updated_at, created_by, updated_by"

type SectionStore struct {
	db *pgxpool.Pool
}

func NewSectionStore(db *pgxpool.Pool) *SectionStore {
	return &SectionStore{db: db}
}

func (s *SectionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RuleSection, error) {
	row := s.db.QueryRow(ctx, "SELECT "+sectionCols+" FROM rule_sections WHERE id = $1", id)
	sec, err := scanSection(row)
	if err != nil {
		return nil, mapNotFound(err, "section", id.String())
	}
	return sec, nil
}

func (s *SectionStore) Save(ctx context.Context, sec *models.RuleSection) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rule_sections (id, rule_id, code, name, sequence, active, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   code = EXCLUDED.code,
		   name = EXCLUDED.name,
		   sequence = EXCLUDED.sequence,
		   active = EXCLUDED.active,
		   updated_at = EXCLUDED.updated_at,
		   updated_by = EXCLUDED.updated_by`,
		sec.ID, sec.RuleID, sec.Code, sec.Name, sec.Sequence, sec.Active,
		sec.Audit.CreatedAt, sec.Audit.UpdatedAt, sec.Audit.CreatedBy, sec.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert section: %w", err)
	}
	return nil
}

func (s *SectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM rule_sections WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

func (s *SectionStore) CodeExists(ctx context.Context, ruleID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rule_sections
		  WHERE rule_id = $1 AND LOWER(code) = LOWER($2) AND id <> $3)`,
		ruleID, code, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("section code exists: %w", err)
	}
	return exists, nil
}

func (s *SectionStore) SequenceExists(ctx context.Context, ruleID uuid.UUID, sequence int, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rule_sections
		  WHERE rule_id = $1 AND sequence = $2 AND id <> $3)`,
		ruleID, sequence, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("section sequence exists: %w", err)
	}
	return exists, nil
}

func (s *SectionStore) FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.RuleSection, int64, error) {
	where, args := f.SQL(1)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM rule_sections"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}

	q := "SELECT " + sectionCols + " FROM rule_sections" + where + filter.OrderSQL(orders) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit(), p.Offset())
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var out []models.RuleSection
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, *sec)
	}
	return out, total, rows.Err()
}

func scanSection(row rowScanner) (*models.RuleSection, error) {
	var sec models.RuleSection
	err := row.Scan(&sec.ID, &sec.RuleID, &sec.Code, &sec.Name, &sec.Sequence, &sec.Active,
		&sec.Audit.CreatedAt, &sec.Audit.UpdatedAt, &sec.Audit.CreatedBy, &sec.Audit.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &sec, nil
}
