package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/catalog"
)

type SectionHandler struct {
	svc   *catalog.SectionService
	trail *audit.Service
}

func NewSectionHandler(svc *catalog.SectionService, trail *audit.Service) *SectionHandler {
	return &SectionHandler{svc: svc, trail: trail}
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateSection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	section, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "section.created", "section", section.ID)
	writeJSON(w, http.StatusCreated, section)
}

func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid section ID"})
		return
	}

	section, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid section ID"})
		return
	}

	var req catalog.UpdateSection
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	section, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "section.updated", "section", section.ID)
	writeJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid section ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), caller(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "section.deleted", "section", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := catalog.SectionQuery{
		RuleID: uuidParam(r, "rule_id"),
		Code:   r.URL.Query().Get("code"),
		Name:   r.URL.Query().Get("name"),
		Active: boolParam(r, "active"),
	}

	result, err := h.svc.List(r.Context(), q, pageFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
