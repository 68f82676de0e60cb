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
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	noFlags
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "gtodo done <ref>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return printRefError(errOut, err)
	}

	store, reporter, code := mount(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	task, err := ref.Resolve(store.Tasks())
	if err != nil {
		return printRefError(errOut, err)
	}

	switch store.Complete(ctx, task.ID) {
	case state.Failed:
		return reporter.exitCode()
	case state.Skipped:
		if !cfg.Quiet {
			fmt.Fprintln(out, "already completed")
		}
	default:
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
