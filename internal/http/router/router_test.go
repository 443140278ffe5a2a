package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krasavchik01/rbbb-sub002/internal/auth"
	"github.com/krasavchik01/rbbb-sub002/internal/config"
	"github.com/krasavchik01/rbbb-sub002/internal/http/middleware"
	"github.com/krasavchik01/rbbb-sub002/internal/http/router"
	"github.com/krasavchik01/rbbb-sub002/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCache struct{ err error }

func (f fakeCache) Ping(ctx context.Context) error { return f.err }

type fakeRemote bool

func (f fakeRemote) RemoteReachable(ctx context.Context) bool { return bool(f) }

func newHandler(t *testing.T, cache router.CacheChecker, remote router.RemoteStatus) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App:       config.AppConfig{Name: "rbbb-api", Environment: "development"},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	rt := router.NewRouter(cfg, logger, m, reg, cache, remote,
		auth.NewMiddleware(logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		router.Handlers{},
	)
	return rt.Setup()
}

func get(h http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newHandler(t, fakeCache{}, fakeRemote(false))

	rec := get(h, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReady(t *testing.T) {
	type body struct {
		Status string                       `json:"status"`
		Checks map[string]map[string]string `json:"checks"`
	}

	t.Run("cache up, remote down", func(t *testing.T) {
		rec := get(newHandler(t, fakeCache{}, fakeRemote(false)), "/health/ready", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var b body
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		assert.Equal(t, "healthy", b.Status)
		assert.Equal(t, "unreachable", b.Checks["remote"]["status"])
	})

	t.Run("cache down", func(t *testing.T) {
		rec := get(newHandler(t, fakeCache{err: errors.New("disk gone")}, fakeRemote(true)), "/health/ready", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var b body
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		assert.Equal(t, "unhealthy", b.Status)
		assert.Equal(t, "disk gone", b.Checks["cache"]["error"])
		assert.Equal(t, "reachable", b.Checks["remote"]["status"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHandler(t, fakeCache{}, fakeRemote(true))
	get(h, "/health", nil)

	rec := get(h, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/health")
}

func TestAPIRequiresIdentity(t *testing.T) {
	h := newHandler(t, fakeCache{}, fakeRemote(true))

	rec := get(h, "/api/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(h, "/api/projects", map[string]string{
		auth.HeaderUserID:   "emp-1",
		auth.HeaderUserRole: "janitor",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForceSyncRequiresPermission(t *testing.T) {
	h := newHandler(t, fakeCache{}, fakeRemote(true))

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.Header.Set(auth.HeaderUserID, "emp-7")
	req.Header.Set(auth.HeaderUserRole, "assistant")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTemplateImportRequiresPermission(t *testing.T) {
	h := newHandler(t, fakeCache{}, fakeRemote(true))

	req := httptest.NewRequest(http.MethodPost, "/api/templates/import", nil)
	req.Header.Set(auth.HeaderUserID, "emp-8")
	req.Header.Set(auth.HeaderUserRole, "manager_1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
