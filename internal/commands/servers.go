package commands

import (
	"context"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/output"
	"gtodo/internal/service"
)

func init() {
	Register(&ServersCmd{})
}

// ServersCmd prints the base addresses in the order they are tried.
type ServersCmd struct {
	noFlags
	noAliases
}

func (c *ServersCmd) Name() string       { return "servers" }
func (c *ServersCmd) Synopsis() string   { return "Print server addresses in try order" }
func (c *ServersCmd) Usage() string      { return "gtodo servers" }
func (c *ServersCmd) NeedsService() bool { return false }

func (c *ServersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	output.FormatServers(out, cfg.Servers)
	return exitcode.Success
}
