// Package audit writes and queries the mutation trail. Every successful
// write to a catalog or tenancy entity leaves one audit_logs row.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/access"
	"github.com/normatec/catalog/internal/filter"
	"github.com/normatec/catalog/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type Entry struct {
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Details    map[string]interface{}
}

func (s *Service) Record(ctx context.Context, ac access.Context, entry Entry) error {
	details, _ := json.Marshal(entry.Details)

	var actorID *uuid.UUID
	if ac.UserID != uuid.Nil {
		actorID = &ac.UserID
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, details)
		 VALUES ($1, $2, $3, $4, $5)`,
		actorID, entry.Action, entry.EntityType, entry.EntityID, details,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

type Query struct {
	ActorID    uuid.UUID
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
}

func (s *Service) List(ctx context.Context, q Query, page filter.Page) (*filter.Result[models.AuditLog], error) {
	f := filter.New().
		EqualsID("actor_id", q.ActorID).
		EqualsString("action", q.Action).
		EqualsString("entity_type", q.EntityType).
		TimeRange("created_at", q.From, q.To)

	where, args := f.SQL(1)

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit logs: %w", err)
	}

	query := "SELECT id, actor_id, action, entity_type, entity_id, details, created_at FROM audit_logs" +
		where + " ORDER BY created_at DESC" +
		fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit(), page.Offset())

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.EntityType, &l.EntityID, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return &filter.Result[models.AuditLog]{Items: logs, Total: total, Page: page.Number, Size: page.Size}, nil
}
