package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/output"
	"gtodo/internal/service"
	"gtodo/internal/state"
)

// shellPrompt is printed before every input line.
const shellPrompt = "> "

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive shell. It keeps one store for the
// whole session and re-renders the list after every state change.
type ShellCmd struct {
	noFlags
	noAliases

	in io.Reader
}

// SetInput sets the input reader (for testing). Defaults to os.Stdin.
func (c *ShellCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Synopsis() string   { return "Interactive task list" }
func (c *ShellCmd) Usage() string      { return "gtodo shell" }
func (c *ShellCmd) NeedsService() bool { return true }

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	store, _ := newStore(cfg, svc, errOut)
	unsubscribe := store.Subscribe(func(snap state.Snapshot) {
		output.FormatSnapshot(out, snap)
	})
	defer unsubscribe()

	// Mount. A failed load leaves the list empty; render it anyway.
	if store.Load(ctx) != state.Applied {
		output.FormatSnapshot(out, store.Snapshot())
	}

	// Scan blocks on the reader and cannot be interrupted. On cancellation
	// the loop below returns and this goroutine stays parked on stdin until
	// the process exits, or ends at EOF when the reader is finite.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if !cfg.Quiet {
			fmt.Fprint(out, shellPrompt)
		}
		select {
		case <-ctx.Done():
			return exitcode.Success
		case line, ok := <-lines:
			if !ok {
				return exitcode.Success
			}
			if quit := c.exec(ctx, store, line, out, errOut); quit {
				return exitcode.Success
			}
		}
	}
}

// exec runs one shell line. Returns true when the session should end.
func (c *ShellCmd) exec(ctx context.Context, store *state.Store, line string, out, errOut io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	verb := fields[0]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), verb))

	switch verb {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(out, shellHelpText)
	case "list", "ls":
		output.FormatSnapshot(out, store.Snapshot())
	case "title":
		store.SetTitle(rest)
	case "due":
		store.SetDueDate(rest)
	case "submit":
		store.Create(ctx)
	case "add":
		store.SetTitle(rest)
		store.Create(ctx)
	case "done", "complete":
		ref, err := ParseTaskRef(fields[1:])
		if err != nil {
			printRefError(errOut, err)
			return false
		}
		task, err := ref.Resolve(store.Tasks())
		if err != nil {
			printRefError(errOut, err)
			return false
		}
		if store.Complete(ctx, task.ID) == state.Skipped {
			fmt.Fprintln(out, "already completed")
		}
	case "rm", "delete":
		ref, err := ParseTaskRef(fields[1:])
		if err != nil {
			printRefError(errOut, err)
			return false
		}
		id := ref.ID
		if !ref.ByID {
			task, err := ref.Resolve(store.Tasks())
			if err != nil {
				printRefError(errOut, err)
				return false
			}
			id = task.ID
		}
		store.Delete(ctx, id)
	default:
		fmt.Fprintf(errOut, "error: unknown command: %s (type \"help\")\n", verb)
	}
	return false
}

const shellHelpText = `Commands:
  list              Show the task list
  title <text>      Set the new-task title
  due <when>        Set the new-task due date (e.g. 2024-01-01T10:00)
  submit            Create a task from the title and due date
  add <title>       Set the title and submit
  done <ref>        Mark a task completed (ref: N or id:<id>)
  rm <ref>          Delete a task
  help              Show this help
  quit              Leave the shell
`
