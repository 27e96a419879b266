package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/cache"
	"github.com/bimakw/aptos-dex-aggregator/internal/session"
)

func newSessionRouter() chi.Router {
	manager := session.NewManager(cache.NewInMemorySessionStore(), time.Hour, zerolog.Nop())
	h := NewSessionHandler(manager)

	r := chi.NewRouter()
	r.Use(manager.Middleware)
	r.Post("/api/v1/session", h.Login)
	r.Get("/api/v1/session", h.Current)
	r.Delete("/api/v1/session", h.Logout)
	return r
}

func TestSessionLifecycle(t *testing.T) {
	r := newSessionRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/session",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created session.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Ada", created.Profile.Name)
	assert.NotEmpty(t, created.Profile.ID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Equal(t, created.ID, cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var current session.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&current))
	assert.Equal(t, created, current)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil)
	req.Header.Set(session.HeaderName, created.ID)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req.Header.Set(session.HeaderName, created.ID)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no_session", decodeError(t, rec).Error)
}

func TestLoginRejectsEmptyProfile(t *testing.T) {
	r := newSessionRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/session", strings.NewReader(`{"name":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_profile", decodeError(t, rec).Error)
}

func TestLogoutWithoutSession(t *testing.T) {
	r := newSessionRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
