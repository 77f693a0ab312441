package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/catalog"
)

type ModuleHandler struct {
	svc   *catalog.ModuleService
	trail *audit.Service
}

func NewModuleHandler(svc *catalog.ModuleService, trail *audit.Service) *ModuleHandler {
	return &ModuleHandler{svc: svc, trail: trail}
}

func (h *ModuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateModule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	module, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "module.created", "module", module.ID)
	writeJSON(w, http.StatusCreated, module)
}

func (h *ModuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid module ID"})
		return
	}

	module, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, module)
}

func (h *ModuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid module ID"})
		return
	}

	var req catalog.UpdateModule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	module, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "module.updated", "module", module.ID)
	writeJSON(w, http.StatusOK, module)
}

func (h *ModuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid module ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), caller(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "module.deleted", "module", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ModuleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := catalog.ModuleQuery{
		SectionID: uuidParam(r, "section_id"),
		Code:      r.URL.Query().Get("code"),
		Name:      r.URL.Query().Get("name"),
		Active:    boolParam(r, "active"),
	}

	result, err := h.svc.List(r.Context(), q, pageFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
