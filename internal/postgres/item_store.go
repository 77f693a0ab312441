package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

const itemCols = "id, module_id, parent_id, code, description, sequence, active, created_at, updated_at, created_by, updated_by"

type ItemStore struct {
	db *pgxpool.Pool
}

func NewItemStore(db *pgxpool.Pool) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RuleItem, error) {
	row := s.db.QueryRow(ctx, "SELECT "+itemCols+" FROM rule_items WHERE id = $1", id)
	it, err := scanItem(row)
	if err != nil {
		return nil, mapNotFound(err, "item", id.String())
	}
	return it, nil
}

func (s *ItemStore) Save(ctx context.Context, it *models.RuleItem) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rule_items (id, module_id, parent_id, code, description, sequence, active, created_at, updated_at, created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		   parent_id = EXCLUDED.parent_id,
		   code = EXCLUDED.code,
		   description = EXCLUDED.description,
		   sequence = EXCLUDED.sequence,
		   active = EXCLUDED.active,
		   updated_at = EXCLUDED.updated_at,
		   updated_by = EXCLUDED.updated_by`,
		it.ID, it.ModuleID, it.ParentID, it.Code, it.Description, it.Sequence, it.Active,
		it.Audit.CreatedAt, it.Audit.UpdatedAt, it.Audit.CreatedBy, it.Audit.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM rule_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (s *ItemStore) CodeExists(ctx context.Context, moduleID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rule_items
		  WHERE module_id = $1 AND LOWER(code) = LOWER($2) AND id <> $3)`,
		moduleID, code, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("item code exists: %w", err)
	}
	return exists, nil
}

func (s *ItemStore) ExistsByModule(ctx context.Context, moduleID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM rule_items WHERE module_id = $1)", moduleID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("items by module: %w", err)
	}
	return exists, nil
}

func (s *ItemStore) HasChildren(ctx context.Context, parentID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM rule_items WHERE parent_id = $1)", parentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("item children: %w", err)
	}
	return exists, nil
}

func (s *ItemStore) FindAll(ctx context.Context, f *filter.Filter, p filter.Page, orders []filter.Order) ([]models.RuleItem, int64, error) {
	where, args := f.SQL(1)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM rule_items"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	q := "SELECT " + itemCols + " FROM rule_items" + where + filter.OrderSQL(orders) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit(), p.Offset())
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var out []models.RuleItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, *it)
	}
	return out, total, rows.Err()
}

func scanItem(row rowScanner) (*models.RuleItem, error) {
	var it models.RuleItem
	err := row.Scan(&it.ID, &it.ModuleID, &it.ParentID, &it.Code, &it.Description, &it.Sequence, &it.Active,
		&it.Audit.CreatedAt, &it.Audit.UpdatedAt, &it.Audit.CreatedBy, &it.Audit.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
