package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditInfo is the write-tracking metadata embedded in every entity.
// It is a composed value, not a base type; the Stamp helpers are the only
// writers.
type AuditInfo struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy uuid.UUID `json:"updated_by" db:"updated_by"`
}

func (a *AuditInfo) StampCreate(by uuid.UUID, at time.Time) {
	a.CreatedAt = at
	a.UpdatedAt = at
	a.CreatedBy = by
	a.UpdatedBy = by
}

func (a *AuditInfo) StampUpdate(by uuid.UUID, at time.Time) {
	a.UpdatedAt = at
	a.UpdatedBy = by
}
