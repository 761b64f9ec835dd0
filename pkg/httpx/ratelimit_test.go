package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{"remote addr", "192.168.1.1:12345", nil, "192.168.1.1"},
		{"remote addr without port", "192.168.1.1", nil, "192.168.1.1"},
		{"forwarded for first hop", "192.168.1.1:12345", map[string]string{"X-Forwarded-For": "203.0.113.1, 192.168.1.1"}, "203.0.113.1"},
		{"real ip", "192.168.1.1:12345", map[string]string{"X-Real-IP": " 203.0.113.2 "}, "203.0.113.2"},
		{"empty forwarded for", "192.168.1.1:12345", map[string]string{"X-Forwarded-For": " , 10.0.0.1"}, "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, httpx.IPKeyExtractor(req))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Second, Burst: 5})(okHandler())

		for i := range 5 {
			rec := hit(h, "192.168.1.1:12345")
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}
	})

	t.Run("blocks requests over limit with detail body", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler())

		require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:12345").Code)

		rec := hit(h, "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Contains(t, body["detail"], "Too many requests")
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2})(okHandler())

		for range 2 {
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:12345").Code)
		}
		require.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:12345").Code)
		require.Equal(t, http.StatusOK, hit(h, "192.168.1.2:12345").Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(okHandler())

		for range 3 {
			require.Equal(t, http.StatusOK, hit(h, "192.168.1.1:12345").Code)
		}
	})
}

func TestDefaultRateLimits(t *testing.T) {
	limits := httpx.DefaultRateLimits()

	for name, cfg := range map[string]httpx.RateLimitConfig{
		"write": limits.Write,
		"read":  limits.Read,
		"probe": limits.Probe,
	} {
		t.Run(name, func(t *testing.T) {
			require.Positive(t, cfg.RequestsPerWindow)
			require.Positive(t, cfg.Window)
			require.Positive(t, cfg.Burst)
		})
	}

	require.Less(t, limits.Write.RequestsPerWindow, limits.Read.RequestsPerWindow)
	require.Less(t, limits.Read.RequestsPerWindow, limits.Probe.RequestsPerWindow)
}

func BenchmarkRateLimitMiddleware(b *testing.B) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1_000_000, Window: time.Second, Burst: 1_000_000})(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	b.ResetTimer()
	for range b.N {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}
