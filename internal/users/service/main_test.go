package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/userdir/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/userdir/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-pepper-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "users.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return &UserService{Store: newTestStore(t), Hasher: cryptox.Argon2Hasher{}}
}
