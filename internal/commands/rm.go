package commands

import (
	"context"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
	"gtodo/internal/state"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	noFlags
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "gtodo rm <ref>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return printRefError(errOut, err)
	}

	store, reporter, code := mount(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	// An id reference is sent as-is; the server decides whether it exists.
	id := ref.ID
	if !ref.ByID {
		task, err := ref.Resolve(store.Tasks())
		if err != nil {
			return printRefError(errOut, err)
		}
		id = task.ID
	}

	if store.Delete(ctx, id) == state.Failed {
		return reporter.exitCode()
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
