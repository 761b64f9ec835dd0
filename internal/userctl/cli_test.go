package userctl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/userdir/pkg/usersdk"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBackendURL(t *testing.T) {
	tests := map[string]string{
		"":                       "http://backend:8000/",
		"  ":                     "http://backend:8000/",
		"http://localhost:8000":  "http://localhost:8000/",
		"http://localhost:8000/": "http://localhost:8000/",
	}
	for in, want := range tests {
		require.Equal(t, want, normalizeBackendURL(in), "input %q", in)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, rest, err := loadConfig([]string{"list"})
	require.NoError(t, err)
	require.Equal(t, "http://backend:8000/", cfg.BackendURL)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Equal(t, []string{"list"}, rest)

	t.Setenv("BACKEND_URL", "http://from-env:8000")
	cfg, _, err = loadConfig([]string{"list"})
	require.NoError(t, err)
	require.Equal(t, "http://from-env:8000/", cfg.BackendURL)

	cfg, rest, err = loadConfig([]string{"--backend-url", "http://from-flag:9000", "get", "--x"})
	require.NoError(t, err)
	require.Equal(t, "http://from-flag:9000/", cfg.BackendURL)
	require.Equal(t, []string{"get", "--x"}, rest)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "userctl.yaml"),
		[]byte("backend_url: http://from-file:8000\ntimeout: 3s\n"), 0o600))

	cfg, _, err := loadConfig([]string{"list"})
	require.NoError(t, err)
	require.Equal(t, "http://from-file:8000/", cfg.BackendURL)
	require.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestRun_CreateListGet(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newBackend(t)

	res := run(t, "--backend-url", srv.URL, "create",
		"--name", "Ann", "--surname", "Lee", "--age", "30",
		"--email", "ann@x.com", "--password", "secret")
	require.Equal(t, ExitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "User created successfully!")
	require.Contains(t, res.stdout, "ann@x.com")
	require.NotContains(t, res.stdout, "secret")

	var id string
	for _, line := range strings.Split(res.stdout, "\n") {
		if strings.HasPrefix(line, "id:") {
			id = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		}
	}
	require.Len(t, id, 26)

	res = run(t, "--backend-url", srv.URL, "list")
	require.Equal(t, ExitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "Total users: 1")
	require.Contains(t, res.stdout, "ID")
	require.Contains(t, res.stdout, id)

	res = run(t, "--backend-url", srv.URL, "get", id)
	require.Equal(t, ExitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "Lee")

	res = run(t, "--backend-url", srv.URL, "create",
		"--name", "Ann", "--surname", "Lee", "--age", "30",
		"--email", "ann@x.com", "--password", "other")
	require.Equal(t, ExitError, res.code)
	require.Equal(t, "Error: The user with this email already exists in the system.\n", res.stderr)
}

func TestRun_ListEmpty(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newBackend(t)

	res := run(t, "--backend-url", srv.URL, "list", "--skip", "0", "--limit", "10")
	require.Equal(t, ExitOK, res.code, res.stderr)
	require.Equal(t, "Total users: 0\nNo users found.\n", res.stdout)
}

func TestRun_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newBackend(t)

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{
			name:   "client side validation",
			args:   []string{"create", "--name", "Ann", "--surname", "Lee", "--age", "30", "--email", "nope", "--password", "x"},
			code:   ExitError,
			stderr: "Validation errors:\n- email: value is not a valid email address\n",
		},
		{
			name:   "missing age",
			args:   []string{"create", "--name", "Ann", "--surname", "Lee", "--email", "a@x.com", "--password", "x"},
			code:   ExitError,
			stderr: "Validation errors:\n- age: field required\n",
		},
		{
			name:   "limit too large",
			args:   []string{"list", "--limit", "5000"},
			code:   ExitError,
			stderr: "- limit:",
		},
		{
			name:   "not found",
			args:   []string{"get", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"},
			code:   ExitError,
			stderr: "Error: User not found\n",
		},
		{
			name:   "server side validation",
			args:   []string{"get", "not-a-ulid"},
			code:   ExitError,
			stderr: "Validation errors:\n- id: must be a valid ULID\n",
		},
		{
			name:   "get without id",
			args:   []string{"get"},
			code:   ExitUsage,
			stderr: "exactly one user id",
		},
		{
			name:   "get with blank id",
			args:   []string{"get", " "},
			code:   ExitError,
			stderr: "Error: user id is required\n",
		},
		{
			name:   "unknown command",
			args:   []string{"delete"},
			code:   ExitUsage,
			stderr: `unknown command "delete"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, append([]string{"--backend-url", srv.URL}, tt.args...)...)
			require.Equal(t, tt.code, res.code)
			require.Contains(t, res.stderr, tt.stderr)
		})
	}
}

func TestRun_Health(t *testing.T) {
	t.Chdir(t.TempDir())
	srv := newBackend(t)

	res := run(t, "--backend-url", srv.URL, "health")
	require.Equal(t, ExitOK, res.code, res.stderr)
	require.Contains(t, res.stdout, "live:  ok (version test")
	require.Contains(t, res.stdout, "ready: ok (database ok)")
}

func TestRun_Usage(t *testing.T) {
	t.Chdir(t.TempDir())

	require.Equal(t, ExitUsage, run(t).code)
	require.Equal(t, ExitOK, run(t, "help").code)
	require.Equal(t, ExitOK, run(t, "--help").code)
	require.Equal(t, ExitUsage, run(t, "--bogus").code)
}

func TestRun_BackendDown(t *testing.T) {
	t.Chdir(t.TempDir())

	res := run(t, "--backend-url", "http://127.0.0.1:1", "--timeout", "1s", "list")
	require.Equal(t, ExitError, res.code)
	require.True(t, strings.HasPrefix(res.stderr, "Error: failed to send request"), res.stderr)
}

func TestRenderError_ServerValidationShape(t *testing.T) {
	var buf strings.Builder
	renderError(&buf, &usersdk.APIError{
		StatusCode: 422,
		Fields: []usersdk.ValidationDetail{
			{Loc: []string{"body", "age"}, Msg: "must be greater than or equal to 0"},
			{Loc: []string{"body", "email"}},
		},
	})
	require.Equal(t, "Validation errors:\n- age: must be greater than or equal to 0\n- email: Invalid value\n", buf.String())
}
