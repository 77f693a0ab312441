// Package postgres holds the pgx-backed entity stores. Uniqueness checks
// here are advisory (check-then-act); the schema-level unique constraints
// in migrations/ are the durable backstop when concurrent writers race.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/normatec/catalog/internal/apperr"
)

// mapNotFound converts pgx's sentinel into the domain not-found kind.
func mapNotFound(err error, entity, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return err
}
