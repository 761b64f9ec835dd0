package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("nonsense"))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "users", Version: "test", Env: "test", Format: "json", Output: &buf})
	t.Cleanup(func() { slog.SetDefault(slogx.Discard()) })

	var seenID string
	h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = slogx.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-123", seenID)
	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "http_request", entry["msg"])
	require.Equal(t, "req-123", entry["req_id"])
	require.Equal(t, "users", entry["service"])
	require.EqualValues(t, http.StatusTeapot, entry["status"])
	require.EqualValues(t, len("short and stout"), entry["bytes"])
}

func TestHTTPMiddlewareGeneratesRequestID(t *testing.T) {
	h := slogx.HTTPMiddleware(slogx.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, rec.Header().Get(slogx.RequestIDHeader), 26)
}

func TestFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Same(t, slog.Default(), slogx.FromContext(req.Context()))
	require.Empty(t, slogx.RequestID(req.Context()))
}
