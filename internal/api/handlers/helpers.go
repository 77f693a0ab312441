package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/access"
	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/filter"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the error taxonomy onto transport statuses; this
// is the only place that mapping lives.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindMissingField, apperr.KindInvalidField:
		status = http.StatusBadRequest
	case apperr.KindDuplicate, apperr.KindDependentExists:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func caller(r *http.Request) access.Context {
	ac, _ := access.FromContext(r.Context())
	return ac
}

func pageFromRequest(r *http.Request) filter.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return filter.NewPage(page, size)
}

func boolParam(r *http.Request, name string) *bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func timeParam(r *http.Request, name string) *time.Time {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

// recordAudit writes a trail entry for a completed mutation. Audit
// failures are logged, never surfaced to the client.
func recordAudit(r *http.Request, trail *audit.Service, action, entityType string, id uuid.UUID) {
	if trail == nil {
		return
	}
	entityID := &id
	if id == uuid.Nil {
		entityID = nil
	}
	err := trail.Record(r.Context(), caller(r), audit.Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	})
	if err != nil {
		slog.Warn("audit record failed", "action", action, "entity_type", entityType, "error", err)
	}
}

func uuidParam(r *http.Request, name string) uuid.UUID {
	v := r.URL.Query().Get(name)
	if v == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil
	}
	return id
}
