// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"tugas/internal/config"
	"tugas/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or writes tasks.
	// Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// store is nil if NeedsStore() returns false.
	// in is read by commands that prompt for missing values.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int
}
