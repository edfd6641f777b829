package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"tugas/internal/config"
	"tugas/internal/exitcode"
	"tugas/internal/server"
	"tugas/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr    string
	reload  string
	origins string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the task list over HTTP" }
func (c *ServeCmd) Usage() string {
	return "tugas serve [--addr <addr>] [--reload <schedule>] [--origins <list>]"
}
func (c *ServeCmd) NeedsStore() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.StringVar(&c.reload, "reload", "", "")
	fs.StringVar(&c.origins, "origins", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.reload != "" {
		if err := server.ValidateSchedule(c.reload); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	opts := server.Options{
		Addr:       c.addr,
		ReloadSpec: c.reload,
		Location:   cfg.Loc(),
		Clock:      clock,
	}
	if opts.Addr == "" {
		opts.Addr = cfg.Addr
	}
	if opts.Addr == "" {
		opts.Addr = config.DefaultAddr
	}
	for _, o := range strings.Split(c.origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			opts.AllowedOrigins = append(opts.AllowedOrigins, o)
		}
	}

	srv := server.New(store, opts, serverLogger(cfg, errOut))
	if err := srv.Run(ctx); err != nil {
		var serr *service.StoreError
		if errors.As(err, &serr) {
			return reportError(errOut, err)
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// serverLogger logs JSON lines at info level, or debug with --debug.
func serverLogger(cfg *config.Config, errOut io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(errOut)
	log.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	if cfg.Quiet {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}
