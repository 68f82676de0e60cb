package commands

import (
	"context"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	noFlags
	noAliases
}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "gtodo help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-38s %s\n", "gtodo", "List all tasks")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-38s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

const commonFlagsText = `
Common flags:
  --config <dir>        Override config directory
  --server <url>        Server address; repeat to set the fallback order
  --timeout <duration>  Bound each backend call (default: none)
  --quiet               Suppress informational output
  --debug               Print debug logs to stderr

Task references:
  N                     Position in the list (as printed by gtodo list)
  id:<id>               Server-assigned identifier
`
