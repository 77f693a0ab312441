package models

import (
	"time"

	"github.com/google/uuid"
)

// Rule is a versioned regulatory standard, the root of the catalog
// hierarchy. Its code is globally unique (case-insensitive) and immutable
// after creation. Rules are soft-deleted, never physically removed.
type Rule struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Code          string     `json:"code" db:"code"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description,omitempty" db:"description"`
	Ordinance     string     `json:"ordinance,omitempty" db:"ordinance"`
	OrdinanceDate *time.Time `json:"ordinance_date,omitempty" db:"ordinance_date"`
	Active        bool       `json:"active" db:"active"`
	Deleted       bool       `json:"deleted" db:"deleted"`
	Audit         AuditInfo  `json:"audit"`
}

// RuleSection is a direct child of a Rule. Code and sequence are each
// unique among the siblings of one rule.
type RuleSection struct {
	ID       uuid.UUID `json:"id" db:"id"`
	RuleID   uuid.UUID `json:"rule_id" db:"rule_id"`
	Code     string    `json:"code" db:"code"`
	Name     string    `json:"name" db:"name"`
	Sequence int       `json:"sequence" db:"sequence"`
	Active   bool      `json:"active" db:"active"`
	Audit    AuditInfo `json:"audit"`
}

// RuleModule is a direct child of a RuleSection. The owning section cannot
// change after creation.
type RuleModule struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SectionID uuid.UUID `json:"section_id" db:"section_id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Sequence  int       `json:"sequence" db:"sequence"`
	Active    bool      `json:"active" db:"active"`
	Audit     AuditInfo `json:"audit"`
}

// RuleItem is a child of a RuleModule and, optionally, of another RuleItem
// ("12.4.1" under "12.4"). Items form an arena keyed by id with ParentID
// references; there are no embedded child pointers.
type RuleItem struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ModuleID    uuid.UUID  `json:"module_id" db:"module_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	Code        string     `json:"code" db:"code"`
	Description string     `json:"description" db:"description"`
	Sequence    int        `json:"sequence" db:"sequence"`
	Active      bool       `json:"active" db:"active"`
	Audit       AuditInfo  `json:"audit"`
}
