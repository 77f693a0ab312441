package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normatec/catalog/internal/access"
	"github.com/normatec/catalog/internal/models"
)

const testSecret = "test-secret-not-for-production"

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		Email: "ops@example.com",
		Roles: []models.Role{{ID: uuid.New(), Name: "operator"}},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	u := testUser()
	issuer := NewTokenIssuer(testSecret, time.Hour)
	token, err := issuer.Issue(u)
	require.NoError(t, err)

	mw := NewJWTMiddleware(testSecret)

	var got access.Context
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = access.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, []string{"operator"}, got.Roles)
}

func TestAuthenticateRejections(t *testing.T) {
	mw := NewJWTMiddleware(testSecret)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenIssuer("another-secret", time.Hour).Issue(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := NewTokenIssuer(testSecret, -time.Minute).Issue(testUser())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequirePrivileged(t *testing.T) {
	var ran bool
	handler := RequirePrivileged(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	}))

	t.Run("admin passes", func(t *testing.T) {
		ran = false
		ac := access.Context{UserID: uuid.New(), Roles: []string{"admin"}}
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(access.WithContext(req.Context(), ac))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.True(t, ran)
	})

	t.Run("operator rejected", func(t *testing.T) {
		ran = false
		ac := access.Context{UserID: uuid.New(), Roles: []string{"operator"}}
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(access.WithContext(req.Context(), ac))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.False(t, ran)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		ran = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.False(t, ran)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher()
	hash, err := h.Hash("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.NoError(t, h.Compare(hash, "correct-horse-battery"))
	assert.Error(t, h.Compare(hash, "wrong"))
}
