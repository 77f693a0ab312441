package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/normatec/catalog/internal/apperr"
	"github.com/normatec/catalog/internal/filter"
)

func TestWriteDomainErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.MissingField("rule", "code"), http.StatusBadRequest},
		{apperr.InvalidField("item", "sequence", "must be positive"), http.StatusBadRequest},
		{apperr.ImmutableField("section", "rule_id"), http.StatusBadRequest},
		{apperr.Duplicate("rule", "code already registered"), http.StatusConflict},
		{apperr.DependentExists("section", "modules"), http.StatusConflict},
		{apperr.NotFound("module", "x"), http.StatusNotFound},
		{apperr.Forbidden("company", "not owned by caller"), http.StatusForbidden},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeDomainError(rec, tt.err)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestWriteDomainErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, assert.AnError)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), "internal error")
}

func TestPageFromRequest(t *testing.T) {
	tests := []struct {
		query      string
		wantNumber int
		wantSize   int
	}{
		{"", 0, filter.DefaultPageSize},
		{"?page=2&page_size=25", 2, 25},
		{"?page=-1&page_size=0", 0, filter.DefaultPageSize},
		{"?page=0&page_size=1000", 0, filter.MaxPageSize},
		{"?page=abc&page_size=xyz", 0, filter.DefaultPageSize},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/rules"+tt.query, nil)
		p := pageFromRequest(r)
		assert.Equal(t, tt.wantNumber, p.Number, tt.query)
		assert.Equal(t, tt.wantSize, p.Size, tt.query)
	}
}

func TestBoolParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?active=true&bad=maybe", nil)

	got := boolParam(r, "active")
	if assert.NotNil(t, got) {
		assert.True(t, *got)
	}
	assert.Nil(t, boolParam(r, "bad"))
	assert.Nil(t, boolParam(r, "absent"))
}
