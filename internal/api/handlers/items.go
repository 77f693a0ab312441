package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/normatec/catalog/internal/audit"
	"github.com/normatec/catalog/internal/catalog"
)

type ItemHandler struct {
	svc   *catalog.ItemService
	trail *audit.Service
}

func NewItemHandler(svc *catalog.ItemService, trail *audit.Service) *ItemHandler {
	return &ItemHandler{svc: svc, trail: trail}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Create(r.Context(), caller(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "item.created", "item", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req catalog.UpdateItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, err := h.svc.Update(r.Context(), caller(r), id, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "item.updated", "item", item.ID)
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), caller(r), id); err != nil {
		writeDomainError(w, err)
		return
	}
	recordAudit(r, h.trail, "item.deleted", "item", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := catalog.ItemQuery{
		ModuleID: uuidParam(r, "module_id"),
		Code:     r.URL.Query().Get("code"),
		Text:     r.URL.Query().Get("text"),
		Active:   boolParam(r, "active"),
	}
	if parent := r.URL.Query().Get("parent_id"); parent != "" {
		if pid, err := uuid.Parse(parent); err == nil {
			q.ParentID = &pid
		}
	}

	result, err := h.svc.List(r.Context(), q, pageFromRequest(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
