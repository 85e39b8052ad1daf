package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/npcbot/internal/handler"
)

const testAPIKey = "test-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Options{APIKey: testAPIKey, Version: "1.2.3", MaxBodyBytes: DefaultMaxBodyBytes}, nil, Services{})
}

func TestNewRouter_Routes(t *testing.T) {
	routes, ok := newTestRouter(t).(chi.Routes)
	require.True(t, ok)

	registered := map[string]bool{}
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	})
	require.NoError(t, err)

	want := []string{
		"GET /healthz",
		"GET /readyz",
		"GET /version",
		"GET /api/v1/tenants/{tenant}/characters",
		"POST /api/v1/tenants/{tenant}/characters",
		"POST /api/v1/tenants/{tenant}/characters:delete-all",
		"GET /api/v1/tenants/{tenant}/export",
		"POST /api/v1/tenants/{tenant}/import",
		"GET /api/v1/tenants/{tenant}/characters/{name}",
		"PATCH /api/v1/tenants/{tenant}/characters/{name}",
		"DELETE /api/v1/tenants/{tenant}/characters/{name}",
		"POST /api/v1/tenants/{tenant}/characters/{name}/access",
		"GET /api/v1/tenants/{tenant}/characters/{name}/inventory",
		"POST /api/v1/tenants/{tenant}/characters/{name}/inventory",
		"PATCH /api/v1/tenants/{tenant}/characters/{name}/inventory/{item}",
		"DELETE /api/v1/tenants/{tenant}/characters/{name}/inventory/{item}",
		"POST /api/v1/tenants/{tenant}/characters/{name}/inventory/{item}/stock",
		"POST /api/v1/tenants/{tenant}/characters/{name}/inventory/{item}/buy",
		"GET /api/v1/admin/cache/stats",
		"GET /swagger/*",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestNewRouter_PublicAndProtected(t *testing.T) {
	router := newTestRouter(t)

	t.Run("healthz needs no key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	})

	t.Run("version reports the configured build", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "1.2.3")
	})

	t.Run("swagger ui needs no key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "swagger-ui")
	})

	t.Run("api rejects a missing key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tenants/g/characters", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("delete-all reaches its handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/g/characters:delete-all", strings.NewReader(`{"confirm":true}`))
		req.Header.Set(HeaderAPIKey, testAPIKey)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		// No actor header, so the handler answers before touching the service
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), handler.ErrMsgMissingActor)
	})
}
