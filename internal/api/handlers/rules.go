package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/catalog"
)

type RuleHandler struct {
	svc   *catalog.RuleService
	trail *audit.Service
}

func NewRuleHandler(svc *catalog.RuleService, trail *audit.Service) *RuleHandler {
	return &RuleHandler{svc: svc, trail: trail}
}

func (h *RuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateRule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rule, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "rule.created", "rule", rule.ID)
	writeJSON(w, http.StatusCreated, rule)
}

func (h *RuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule ID"})
		return
	}

	rule, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (h *RuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule ID"})
		return
	}

	var req catalog.UpdateRule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rule, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "rule.updated", "rule", rule.ID)
	writeJSON(w, http.StatusOK, rule)
}

func (h *RuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule ID"})
		return
	}

	if err := h.svc.SoftDelete(r.Context(), caller(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "rule.deleted", "rule", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RuleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule ID"})
		return
	}

	if err := h.svc.Restore(r.Context(), caller(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "rule.restored", "rule", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := catalog.RuleQuery{
		Code:          r.URL.Query().Get("code"),
		Title:         r.URL.Query().Get("title"),
		Active:        boolParam(r, "active"),
		Deleted:       boolParam(r, "deleted"),
		OrdinanceFrom: timeParam(r, "ordinance_from"),
		OrdinanceTo:   timeParam(r, "ordinance_to"),
	}

	result, err := h.svc.List(r.Context(), q, pageFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
