package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/npcbot/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(ip, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":1234"
	return req
}

func TestRateLimitMiddleware_PerTenant(t *testing.T) {
	tracker := NewActivityTracker(RateLimit{Requests: 3, Window: time.Minute})
	handler := RateLimitMiddleware(nil, tracker)(okHandler())
	const ip = "192.168.1.100"
	before := testutil.ToFloat64(metrics.HTTPRateLimited)

	for i := range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom(ip, "/api/v1/tenants/guild-1/characters"))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom(ip, "/api/v1/tenants/guild-1/characters/Bob"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get(HeaderRetryAfter))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRateLimited)-before)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom(ip, "/api/v1/tenants/guild-2/characters"))
	assert.Equal(t, http.StatusOK, rec.Code, "another tenant has its own budget")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.1.1.1", "/api/v1/tenants/guild-1/characters"))
	assert.Equal(t, http.StatusOK, rec.Code, "another client has its own budget")

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.Equal(t, 4, tracker.requests[clientKey{tenant: "guild-1", ip: ip}])
}

func TestRateLimitMiddleware_TrustedProxyClients(t *testing.T) {
	tracker := NewActivityTracker(RateLimit{Requests: 1, Window: time.Minute})
	handler := RateLimitMiddleware([]string{"10.0.0.1"}, tracker)(okHandler())

	send := func(client string) int {
		req := requestFrom("10.0.0.1", "/api/v1/tenants/g/export")
		req.Header.Set(HeaderForwardedFor, client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1"))
	assert.Equal(t, http.StatusOK, send("2.2.2.2"), "clients behind one proxy are counted apart")
	assert.Equal(t, http.StatusTooManyRequests, send("1.1.1.1"))
}

func TestActivityTracker_WindowReset(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewActivityTracker(RateLimit{Requests: 1, Window: time.Minute})
	tracker.now = func() time.Time { return now }
	tracker.windowStart = now
	key := clientKey{tenant: "g", ip: "10.0.0.5"}

	tracker.RecordFailedAuth("10.0.0.5", "g")
	ok, _ := tracker.Allow(key)
	require.True(t, ok)

	now = now.Add(20 * time.Second)
	ok, retry := tracker.Allow(key)
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	now = now.Add(time.Minute)
	ok, _ = tracker.Allow(key)
	assert.True(t, ok, "a new window starts with a fresh budget")

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	assert.Zero(t, tracker.failedAuth["10.0.0.5"])
	assert.Equal(t, 1, tracker.requests[key])
}

func TestNewActivityTracker_Defaults(t *testing.T) {
	tracker := NewActivityTracker(RateLimit{Requests: 10})
	assert.Equal(t, 10, tracker.limits.Requests)
	assert.Equal(t, defaultRateWindow, tracker.limits.Window)
	assert.Equal(t, defaultAuthFailureAlertAt, tracker.limits.AuthFailureAlertAt)
}

func TestTenantFromPath(t *testing.T) {
	tests := map[string]string{
		"/api/v1/tenants/guild-1/characters":            "guild-1",
		"/api/v1/tenants/guild-1/characters:delete-all": "guild-1",
		"/api/v1/tenants/guild-1":                       "guild-1",
		"/api/v1/admin/cache/stats":                     "",
		"/healthz":                                      "",
	}
	for path, want := range tests {
		assert.Equal(t, want, tenantFromPath(path), path)
	}
}

func TestRetrySeconds(t *testing.T) {
	assert.Equal(t, 1, retrySeconds(0))
	assert.Equal(t, 1, retrySeconds(300*time.Millisecond))
	assert.Equal(t, 2, retrySeconds(1100*time.Millisecond))
	assert.Equal(t, 60, retrySeconds(time.Minute))
}
