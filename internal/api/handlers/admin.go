package handlers

import (
	"net/http"

	"github.com/normatec/catalog/internal/audit"
)

// AdminHandler exposes the audit trail to privileged callers.
type AdminHandler struct {
	trail *audit.Service
}

func NewAdminHandler(trail *audit.Service) *AdminHandler {
	return &AdminHandler{trail: trail}
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := audit.Query{
		ActorID:    uuidParam(r, "actor_id"),
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entity_type"),
		From:       timeParam(r, "from"),
		To:         timeParam(r, "to"),
	}

	result, err := h.trail.List(r.Context(), q, pageFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
