package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	usershttp "github.com/aussiebroadwan/userdir/internal/users/http"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/idx"
	"github.com/aussiebroadwan/userdir/pkg/usersdk"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestLivez(t *testing.T) {
	env := newTestEnv(t, httpx.DefaultRateLimits())

	rec := env.do(t, http.MethodGet, "/livez", nil)
	requireStatus(t, rec, http.StatusOK)

	resp := decode[usersdk.HealthResponse](t, rec)
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "test", resp.Version)
	require.Nil(t, resp.Checks)
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t, httpx.DefaultRateLimits())

	rec := env.do(t, http.MethodGet, "/readyz", nil)
	requireStatus(t, rec, http.StatusOK)

	resp := decode[usersdk.HealthResponse](t, rec)
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, &usersdk.HealthChecks{Database: "ok"}, resp.Checks)
}

func TestReadyz_DatabaseDown(t *testing.T) {
	h := usershttp.ReadyzHandler(time.Now(), "test", pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	resp := decode[usersdk.HealthResponse](t, rec)
	require.Equal(t, "degraded", resp.Status)
	require.Equal(t, "unavailable", resp.Checks.Database)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, httpx.DefaultRateLimits())

	env.do(t, http.MethodGet, "/users/"+idx.New().String(), nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(),
		`userdir_http_requests_total{method="GET",route="GET /users/{id}",status="404"} 1`)
}

func TestSwaggerUI(t *testing.T) {
	env := newTestEnv(t, httpx.DefaultRateLimits())

	rec := env.do(t, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "User Directory Service API")
	require.Contains(t, rec.Body.String(), "/users/{id}")
}

func TestRequestIDPropagation(t *testing.T) {
	env := newTestEnv(t, httpx.DefaultRateLimits())

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
