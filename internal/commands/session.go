package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
	"gtodo/internal/state"
)

// failureReporter prints store failures as error lines and remembers the
// last one so a one-shot command can pick its exit code.
type failureReporter struct {
	cfg    *config.Config
	errOut io.Writer
	last   error
}

func (f *failureReporter) report(op string, err error) {
	f.last = err
	f.cfg.Log().Debug("operation failed", "op", op, "error", err)

	switch {
	case errors.Is(err, state.ErrTitleRequired):
		fmt.Fprintln(f.errOut, "error: title required")
	case errors.Is(err, service.ErrInvalidDateTime):
		fmt.Fprintf(f.errOut, "error: %v\n", err)
	default:
		fmt.Fprintf(f.errOut, "error: backend error: %v\n", err)
	}
}

// exitCode maps the last reported failure to an exit code.
func (f *failureReporter) exitCode() int {
	if errors.Is(f.last, state.ErrTitleRequired) || errors.Is(f.last, service.ErrInvalidDateTime) {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// newStore creates a store whose failures go to the returned reporter.
func newStore(cfg *config.Config, svc service.Service, errOut io.Writer) (*state.Store, *failureReporter) {
	reporter := &failureReporter{cfg: cfg, errOut: errOut}
	return state.New(svc, state.WithFailureHandler(reporter.report)), reporter
}

// mount creates a store and performs the initial load.
// Returns a non-zero exit code if the load failed.
func mount(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*state.Store, *failureReporter, int) {
	store, reporter := newStore(cfg, svc, errOut)
	if store.Load(ctx) == state.Failed {
		return store, reporter, reporter.exitCode()
	}
	return store, reporter, exitcode.Success
}

// printRefError prints a task reference error and returns its exit code.
func printRefError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}
