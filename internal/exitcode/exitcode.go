// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion, including deliberate no-ops.
	Success = 0

	// UserError indicates a user error (bad args, bad task reference, bad input).
	UserError = 1

	// ConfigError indicates an unusable configuration (config.json, server list).
	ConfigError = 2

	// BackendError indicates that every server failed for a request.
	BackendError = 3
)
