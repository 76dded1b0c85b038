package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api/apitest"
	"github.com/suratku/suratku/internal/cli"
)

// harness runs the root command against a fake API with an isolated home
// directory.
type harness struct {
	t   *testing.T
	srv *apitest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitest.NewServer(t)
	t.Setenv("SURATKU_HOME", t.TempDir())
	t.Setenv("SURATKU_API_URL", srv.BaseURL())
	t.Setenv("SURATKU_CACHE_ENABLED", "false")
	t.Setenv("SURATKU_LOG_LEVEL", "error")
	t.Setenv("SURATKU_OUTPUT_FORMAT", "table")
	t.Setenv("SURATKU_TIMEZONE", "UTC")
	return &harness{t: t, srv: srv}
}

// run executes args with stdin as input and returns stdout and stderr.
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// login signs in as one of the seeded accounts.
func (h *harness) login(email string) {
	h.t.Helper()
	out, _, err := h.run(apitest.Password+"\n", "login", "--email", email)
	require.NoError(h.t, err)
	require.Contains(h.t, out, "Berhasil masuk sebagai")
}

// requireExitCode asserts err carries the given process exit status.
func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, code, exitErr.Code)
}
