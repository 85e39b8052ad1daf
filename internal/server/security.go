package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/metrics"
)

// RateLimit bounds how hard one client may drive one tenant
type RateLimit struct {
	Requests           int           // per tenant and client address in one window
	Window             time.Duration // counters reset when it elapses
	AuthFailureAlertAt int           // failed keys from one address before an alert is logged
}

// DefaultRateLimit returns the limits used when none are configured
func DefaultRateLimit() RateLimit {
	return RateLimit{
		Requests:           defaultRequestsPerWindow,
		Window:             defaultRateWindow,
		AuthFailureAlertAt: defaultAuthFailureAlertAt,
	}
}

func (l RateLimit) withDefaults() RateLimit {
	d := DefaultRateLimit()
	if l.Requests <= 0 {
		l.Requests = d.Requests
	}
	if l.Window <= 0 {
		l.Window = d.Window
	}
	if l.AuthFailureAlertAt <= 0 {
		l.AuthFailureAlertAt = d.AuthFailureAlertAt
	}
	return l
}

// clientKey is the unit the rate limit is applied to. Guilds share the bot
// and often sit behind the same proxy, so one busy guild must not use up
// another's budget.
type clientKey struct {
	tenant string
	ip     string
}

// ActivityTracker counts requests per tenant and client, and failed API keys
// per client, within a fixed window.
type ActivityTracker struct {
	limits RateLimit
	now    func() time.Time

	mu          sync.Mutex
	windowStart time.Time
	requests    map[clientKey]int
	failedAuth  map[string]int
}

// NewActivityTracker creates a tracker; zero fields in limits take the defaults
func NewActivityTracker(limits RateLimit) *ActivityTracker {
	t := &ActivityTracker{
		limits: limits.withDefaults(),
		now:    time.Now,
	}
	t.windowStart = t.now()
	t.requests = make(map[clientKey]int)
	t.failedAuth = make(map[string]int)
	return t
}

// RecordFailedAuth counts a rejected API key from ip. Failures are not split by
// tenant so rotating the tenant in the path does not hide a brute force.
func (t *ActivityTracker) RecordFailedAuth(ip, tenant string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollWindow()
	t.failedAuth[ip]++
	if n := t.failedAuth[ip]; n >= t.limits.AuthFailureAlertAt {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "tenant_id", tenant, "count", n)
	}
}

// Allow counts one request for key. When the key is over its limit it returns
// false and how long until the window resets.
func (t *ActivityTracker) Allow(key clientKey) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollWindow()
	t.requests[key]++
	n := t.requests[key]
	if n <= t.limits.Requests {
		return true, 0
	}
	if (n-t.limits.Requests)%highRateLogEvery == 1 {
		slog.Warn(SecurityAlertHighRate, "ip", key.ip, "tenant_id", key.tenant, "count_in_window", n)
	}
	return false, t.windowStart.Add(t.limits.Window).Sub(t.now())
}

// rollWindow starts a new window once the current one has elapsed.
// Caller must hold the mutex.
func (t *ActivityTracker) rollWindow() {
	now := t.now()
	if now.Sub(t.windowStart) < t.limits.Window {
		return
	}
	clear(t.requests)
	clear(t.failedAuth)
	t.windowStart = now
}

// tenantFromPath returns the {tenant} segment of a tenant scoped API path.
// The middleware runs before chi has matched a route, so URL params are not
// available yet.
func tenantFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, tenantPathPrefix)
	if !ok {
		return ""
	}
	tenant, _, _ := strings.Cut(rest, "/")
	return tenant
}

func isPublicPath(path string) bool {
	return slices.ContainsFunc(PublicPaths, func(prefix string) bool {
		return strings.HasPrefix(path, prefix)
	})
}

// AuthMiddleware requires the shared API key on everything but PublicPaths
func AuthMiddleware(apiKey string, trustedProxies []string, tracker *ActivityTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := extractIP(r, trustedProxies)
			tenant := tenantFromPath(r.URL.Path)
			tracker.RecordFailedAuth(ip, tenant)
			metrics.HTTPAuthFailures.Inc()

			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"path", r.URL.Path,
				"tenant_id", tenant,
				"has_key", providedKey != "",
				"ip", ip)

			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// RateLimitMiddleware rejects a client that has used up its budget for the
// tenant in the request path. Requests outside a tenant share one budget per
// client.
func RateLimitMiddleware(trustedProxies []string, tracker *ActivityTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey{tenant: tenantFromPath(r.URL.Path), ip: extractIP(r, trustedProxies)}
			ok, retryAfter := tracker.Allow(key)
			if !ok {
				metrics.HTTPRateLimited.Inc()
				logger.FromContext(r.Context()).Warn(LogMsgRateLimited,
					"ip", key.ip, "tenant_id", key.tenant, "path", r.URL.Path)
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(retrySeconds(retryAfter)))
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// retrySeconds rounds up so clients never retry before the window resets
func retrySeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP returns the client address. X-Forwarded-For is only believed when
// the direct peer is a trusted proxy, and then only its rightmost hop.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}
	if !slices.Contains(trustedProxies, remoteIP) {
		return remoteIP
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remoteIP
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}
