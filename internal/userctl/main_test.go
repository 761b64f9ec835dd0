package userctl

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	usershttp "github.com/aussiebroadwan/userdir/internal/users/http"
	"github.com/aussiebroadwan/userdir/internal/users/service"
	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "userctl-pepper-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// newBackend starts the users service over a fresh SQLite database.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "users.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	r := usershttp.NewRouter("test", st, nil, httpx.DefaultRateLimits(), slogx.Discard())
	r.UserService = &service.UserService{Store: st, Hasher: cryptox.Argon2Hasher{}}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}
