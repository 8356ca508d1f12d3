package command

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/yndnr/redline/internal/testutil/redistest"
)

// result is one finished run of the CLI.
type result struct {
	code   int
	stdout string
	stderr string
}

// isolate points HOME at a temp dir so no real config or store is touched,
// and clears environment that would change flag resolution.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"REDISCLI_AUTH", "REDLINE_HOST", "REDLINE_PORT", "REDLINE_OUTPUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

// run executes redline with args.
func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), append([]string{"redline"}, args...), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// serverArgs returns the -h/-p flags for srv.
func serverArgs(srv *redistest.Server, extra ...string) []string {
	return append([]string{"-h", srv.Host(), "-p", srv.PortString()}, extra...)
}

func newMemoryServer(t *testing.T, password string) (*redistest.Server, *redistest.Memory) {
	t.Helper()
	mem := redistest.NewMemory()
	mem.Password = password
	return redistest.NewServer(t, mem.Handler()), mem
}
