// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"tugas/internal/commands"
	"tugas/internal/config"
	"tugas/internal/exitcode"
	"tugas/internal/service"
)

// StoreFactory opens the task store described by cfg.
// A store that implements io.Closer is closed after the command.
type StoreFactory func(ctx context.Context, cfg *config.Config) (service.Store, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, in, out, errOut)
	}

	// Flags require a command.
	if strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
		return exitcode.UserError
	}
	return d.dispatch(ctx, args[0], args[1:], in, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configDir, backendName string
	var quiet, debug bool
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&backendName, "backend", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&quiet, "q", false, "")
	fs.BoolVar(&debug, "debug", false, "")
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A dash after the first positional was not parsed as a flag.
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") && positional[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if backendName != "" {
		cfg.Backend = backendName
	}
	if !config.ValidBackend(cfg.Backend) {
		fmt.Fprintf(errOut, "error: unknown backend: %s\n", cfg.Backend)
		return exitcode.UserError
	}
	cfg.Log = newLogger(errOut, debug)

	var store service.Store
	if cmd.NeedsStore() {
		var code int
		store, code = d.openStore(ctx, cfg, errOut)
		if code != exitcode.Success {
			return code
		}
		if c, ok := store.(io.Closer); ok {
			defer func() {
				if err := c.Close(); err != nil {
					cfg.Logger().WithError(err).Debug("closing store")
				}
			}()
		}
	}

	return cmd.Run(ctx, cfg, store, positional, in, out, errOut)
}

func (d *Dispatcher) openStore(ctx context.Context, cfg *config.Config, errOut io.Writer) (service.Store, int) {
	if cfg.Backend == config.BackendGoogleTasks {
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return nil, exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintf(errOut, "error: not logged in (run: tugas login)\n")
			return nil, exitcode.AuthError
		}
	}
	if d.factory == nil {
		fmt.Fprintf(errOut, "error: no task store for backend %s\n", cfg.Backend)
		return nil, exitcode.BackendError
	}

	store, err := d.factory(ctx, cfg)
	if err != nil {
		var serr *service.StoreError
		switch {
		case service.IsAuth(err):
			fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			return nil, exitcode.AuthError
		case errors.As(err, &serr):
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return nil, exitcode.BackendError
		default:
			// Missing or malformed settings.
			fmt.Fprintf(errOut, "error: %s\n", err)
			return nil, exitcode.AuthError
		}
	}
	cfg.Logger().WithField("backend", cfg.Backend).Debug("task store opened")
	return store, exitcode.Success
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument: "):
		return msg
	case strings.HasPrefix(msg, "flag provided but not defined: "):
		return "unknown flag: " + strings.TrimPrefix(msg, "flag provided but not defined: ")
	}
	return msg
}

// newLogger logs to errOut at error level, or debug with --debug.
func newLogger(errOut io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(errOut)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.ErrorLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
