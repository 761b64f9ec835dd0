package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	usershttp "github.com/aussiebroadwan/userdir/internal/users/http"
	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddleware(t *testing.T) {
	env := newTestEnv(t, httpx.DefaultRateLimits())

	var seen store.Handle
	h := usershttp.SessionMiddleware(env.store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = store.FromContext(r.Context(), nil)
		require.NoError(t, seen.(store.Session).Ping(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)

	// Released after the handler returns.
	require.Error(t, seen.(store.Session).Ping(t.Context()))
	require.Zero(t, env.store.DB().Stats().InUse)
}

func TestSessionMiddleware_ReleasedOnPanic(t *testing.T) {
	env := newTestEnv(t, httpx.DefaultRateLimits())

	h := usershttp.SessionMiddleware(env.store)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	require.Panics(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Zero(t, env.store.DB().Stats().InUse)
}
