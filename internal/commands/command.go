// Package commands implements the gtodo subcommands and the registry the
// dispatcher looks them up in.
package commands

import (
	"context"
	"flag"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/service"
)

// Command is one gtodo subcommand.
type Command interface {
	Name() string
	Aliases() []string

	// Synopsis and Usage feed the help output.
	Synopsis() string
	Usage() string

	// NeedsService reports whether Run gets a backend. When false the
	// dispatcher passes a nil service and no server is contacted.
	NeedsService() bool

	// RegisterFlags adds command flags next to the common ones.
	// It runs once per invocation and must reset every flag to its default.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional args left after flag
	// parsing and returns the process exit code. Errors go to errOut as
	// "error: ..." lines.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// noFlags is embedded by commands without flags of their own.
type noFlags struct{}

func (noFlags) RegisterFlags(*flag.FlagSet) {}

// noAliases is embedded by commands reachable only by their name.
type noAliases struct{}

func (noAliases) Aliases() []string { return nil }
