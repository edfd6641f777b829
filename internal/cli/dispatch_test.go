package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tugas/internal/cli"
	"tugas/internal/commands"
	"tugas/internal/config"
	"tugas/internal/exitcode"
	"tugas/internal/service"
	"tugas/internal/testutil"
)

// testFactory creates a store factory that returns the given FakeStore.
func testFactory(store *testutil.FakeStore) cli.StoreFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		return store, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (string, string, int) {
	t.Helper()
	// Keep .env files and TUGAS_* settings on the test machine out of the way.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TUGAS_BACKEND", "")
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, d, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	stdout, stderr, code := run(t, d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	stdout, _, code := run(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "tugas 0.1.0\n" {
		t.Errorf("expected 'tugas 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, d, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, d, "add", "--deadline")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -deadline\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask("a", "Buy milk", "2000-01-01T00:00", false)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(store))

	stdout, stderr, code := run(t, d)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	expected := "   1  [!] Buy milk  2000-01-01T00:00  Waktu habis!\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_UnknownBackend(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeStore()))

	_, stderr, code := run(t, d, "list", "--backend", "sqlite")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown backend: sqlite\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_BackendFlagReachesFactory(t *testing.T) {
	var got string
	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		got = cfg.Backend
		return testutil.NewFakeStore(), nil
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, _, code := run(t, d, "list", "--backend", "redis", "--quiet")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got != config.BackendRedis {
		t.Errorf("expected factory to see backend redis, got %q", got)
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
		want string
	}{
		{service.NewStoreError("connect", service.KindAuth, errors.New("bad password")), exitcode.AuthError, "error: auth error: "},
		{service.NewStoreError("connect", service.KindUnavailable, errors.New("refused")), exitcode.BackendError, "error: backend error: "},
		{errors.New("redis: URL not set (TUGAS_REDIS_URL)"), exitcode.AuthError, "error: redis: URL not set"},
	}
	for _, tc := range cases {
		factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
			return nil, tc.err
		}
		d := cli.NewDispatcher(commands.DefaultRegistry, factory)

		_, stderr, code := run(t, d, "list")

		if code != tc.code {
			t.Errorf("%v: expected exit code %d, got %d", tc.err, tc.code, code)
		}
		if !strings.HasPrefix(stderr, tc.want) {
			t.Errorf("%v: expected %q prefix, got %q", tc.err, tc.want, stderr)
		}
	}
}

func TestDispatcher_GoogleTasksNeedsLogin(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.OAuthClientFile), []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}
	called := false
	factory := func(ctx context.Context, cfg *config.Config) (service.Store, error) {
		called = true
		return testutil.NewFakeStore(), nil
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, d, "list", "--config", dir, "--backend", "googletasks")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: tugas login)\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if called {
		t.Error("factory should not be called before login")
	}
}

func TestDispatcher_StdinReachesCommand(t *testing.T) {
	store := testutil.NewFakeStore()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(store))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TUGAS_BACKEND", "")

	var stdout, stderr bytes.Buffer
	in := strings.NewReader("Read a book\n2025-02-01T20:00\n")
	code := d.Run(context.Background(), []string{"add"}, in, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	tasks := store.Snapshot()
	if len(tasks) != 1 || tasks[0].Text != "Read a book" {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}
