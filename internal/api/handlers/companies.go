package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/tenancy"
)

type CompanyHandler struct {
	svc   *tenancy.CompanyService
	trail *audit.Service
}

func NewCompanyHandler(svc *tenancy.CompanyService, trail *audit.Service) *CompanyHandler {
	return &CompanyHandler{svc: svc, trail: trail}
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tenancy.CreateCompany
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	company, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "company.created", "company", company.ID)
	writeJSON(w, http.StatusCreated, company)
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid company ID"})
		return
	}

	company, err := h.svc.Get(r.Context(), caller(r), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid company ID"})
		return
	}

	var req tenancy.UpdateCompany
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	company, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "company.updated", "company", company.ID)
	writeJSON(w, http.StatusOK, company)
}

func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid company ID"})
		return
	}

	if err := h.svc.SoftDelete(r.Context(), caller(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "company.deleted", "company", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := tenancy.CompanyQuery{
		UserID:  uuidParam(r, "user_id"),
		Name:    r.URL.Query().Get("name"),
		TaxID:   r.URL.Query().Get("tax_id"),
		Active:  boolParam(r, "active"),
		Deleted: boolParam(r, "deleted"),
	}

	result, err := h.svc.List(r.Context(), caller(r), q, pageFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
