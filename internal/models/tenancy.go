package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Active       bool      `json:"active" db:"active"`
	Address      Address   `json:"address"`
	Roles        []Role    `json:"roles,omitempty"`
	Audit        AuditInfo `json:"audit"`
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type Role struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Address is an embedded value object; its fields are flattened into
// address_* columns and filterable like any top-level field.
type Address struct {
	Street  string `json:"street,omitempty" db:"address_street"`
	City    string `json:"city,omitempty" db:"address_city"`
	State   string `json:"state,omitempty" db:"address_state"`
	ZipCode string `json:"zip_code,omitempty" db:"address_zip_code"`
}

// ClientCompany is owned by exactly one User. Non-privileged callers may
// only touch companies whose UserID matches their own id.
type ClientCompany struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	CorporateName string     `json:"corporate_name" db:"corporate_name"`
	TradeName     string     `json:"trade_name,omitempty" db:"trade_name"`
	TaxID         string     `json:"tax_id" db:"tax_id"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	Email         string     `json:"email,omitempty" db:"email"`
	Active        bool       `json:"active" db:"active"`
	Deleted       bool       `json:"deleted" db:"deleted"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	Audit         AuditInfo  `json:"audit"`
}

// Location belongs to one ClientCompany and carries no direct owner field;
// ownership is resolved through the company's UserID.
type Location struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CompanyID   uuid.UUID `json:"company_id" db:"company_id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	Type        string    `json:"type,omitempty" db:"type"`
	Description string    `json:"description,omitempty" db:"description"`
	Address     Address   `json:"address"`
	Audit       AuditInfo `json:"audit"`
}
