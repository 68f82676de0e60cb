package cli_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gtodo/internal/backend/rest"
	"gtodo/internal/cli"
	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
	"gtodo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// restFactory builds the real REST client, as main does.
func restFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	return rest.New(cfg)
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var outBuf, errBuf bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help", "--config", t.TempDir())

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
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService()), "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "gtodo 0.1.0\n" {
		t.Errorf("expected 'gtodo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "add", "--due")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -due\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_CommandFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	dir := t.TempDir()

	stdout, stderr, code := run(t, testFactory(svc), "add", "--config", dir, "--due", "2024-01-01T10:00", "Buy", "milk")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	// Flag values do not leak into the next invocation.
	_, stderr, code = run(t, testFactory(svc), "add", "--config", dir, "Walk", "dog")
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	tasks := svc.Tasks()
	if len(tasks) != 2 || tasks[0].DueDate.IsZero() || !tasks[1].DueDate.IsZero() {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestDispatcher_NegativeTimeout(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "list", "--config", t.TempDir(), "--timeout", "-1s")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid timeout: -1s\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidServer(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "servers", "--config", t.TempDir(), "--server", "localhost:8081")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr != "error: invalid server address: localhost:8081\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_ServersFromFlags(t *testing.T) {
	stdout, _, code := run(t, nil, "servers", "--config", t.TempDir(), "--server", "http://a:1/", "--server", "https://b")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "1  http://a:1  (primary)\n2  https://b  (fallback)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_ServersFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"servers": ["http://one:8081", "http://two:5050"]}`)
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), data, 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, code := run(t, nil, "servers", "--config", dir)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "1  http://one:8081  (primary)\n2  http://two:5050  (fallback)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, nil, "servers", "--config", dir)
	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid config.json") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NoFactory(t *testing.T) {
	_, stderr, code := run(t, nil, "list", "--config", t.TempDir())

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr != "error: no backend configured\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, errors.New("cannot connect")
	}
	_, stderr, code := run(t, factory, "list", "--config", t.TempDir())

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if stderr != "error: cannot connect\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_DebugLogging(t *testing.T) {
	_, stderr, code := run(t, nil, "servers", "--config", t.TempDir(), "--debug")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "level=DEBUG") || !strings.Contains(stderr, "command=servers") {
		t.Errorf("expected debug log, got %q", stderr)
	}
	if !strings.Contains(stderr, "config_found=false") {
		t.Errorf("expected missing config.json to be logged, got %q", stderr)
	}
}

func TestDispatcher_DebugLogsConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(`{"timeout": "1s"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, nil, "servers", "--config", dir, "--debug")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "config_found=true") {
		t.Errorf("expected config.json to be logged as found, got %q", stderr)
	}
	if !strings.Contains(stderr, "timeout=1s") {
		t.Errorf("expected timeout from config.json, got %q", stderr)
	}
}

// End to end against two HTTP backends: the primary is down, every command
// goes through to the secondary.
func TestDispatcher_EndToEndWithFallback(t *testing.T) {
	primary := testutil.NewFakeAPI(t)
	primary.Close()
	secondary := testutil.NewFakeAPI(t)
	secondary.Seed("Walk dog", true)

	common := []string{"--config", t.TempDir(), "--server", primary.URL(), "--server", secondary.URL()}
	withCommon := func(cmd string, args ...string) []string {
		out := append([]string{cmd}, common...)
		return append(out, args...)
	}

	stdout, stderr, code := run(t, restFactory, withCommon("add", "--due", "2024-01-01T10:00", "Buy", "milk")...)
	if code != exitcode.Success || stdout != "ok\n" {
		t.Fatalf("add: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	stdout, stderr, code = run(t, restFactory, withCommon("list")...)
	expected := "   1  [x] Walk dog  due —  created 2024-01-01 09:00\n" +
		"   2  [ ] Buy milk  due 2024-01-01 10:00  created 2024-01-01 09:00\n"
	if code != exitcode.Success || stdout != expected {
		t.Fatalf("list: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	stdout, stderr, code = run(t, restFactory, withCommon("done", "2")...)
	if code != exitcode.Success || stdout != "ok\n" {
		t.Fatalf("done: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	stdout, stderr, code = run(t, restFactory, withCommon("rm", "1")...)
	if code != exitcode.Success || stdout != "ok\n" {
		t.Fatalf("rm: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	tasks := secondary.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || !tasks[0].Completed {
		t.Errorf("unexpected backend state: %+v", tasks)
	}
}

func TestDispatcher_EndToEndAllServersDown(t *testing.T) {
	primary := testutil.NewFakeAPI(t)
	primary.Close()
	secondary := testutil.NewFakeAPI(t)
	secondary.FailWith(http.StatusInternalServerError)

	_, stderr, code := run(t, restFactory, "list", "--config", t.TempDir(), "--server", primary.URL(), "--server", secondary.URL())

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: HTTP 500\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
