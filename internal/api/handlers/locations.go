package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/tenancy"
)

type LocationHandler struct {
	svc   *tenancy.LocationService
	trail *audit.Service
}

func NewLocationHandler(svc *tenancy.LocationService, trail *audit.Service) *LocationHandler {
	return &LocationHandler{svc: svc, trail: trail}
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tenancy.CreateLocation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	location, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "location.created", "location", location.ID)
	writeJSON(w, http.StatusCreated, location)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid location ID"})
		return
	}

	location, err := h.svc.Get(r.Context(), caller(r), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid location ID"})
		return
	}

	var req tenancy.UpdateLocation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	location, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "location.updated", "location", location.ID)
	writeJSON(w, http.StatusOK, location)
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid location ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), caller(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "location.deleted", "location", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LocationHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := tenancy.LocationQuery{
		CompanyID: uuidParam(r, "company_id"),
		Name:      r.URL.Query().Get("name"),
		Code:      r.URL.Query().Get("code"),
		Type:      r.URL.Query().Get("type"),
		City:      r.URL.Query().Get("city"),
		State:     r.URL.Query().Get("state"),
	}

	result, err := h.svc.Search(r.Context(), caller(r), q, pageFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
