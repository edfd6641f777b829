package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"tugas/internal/config"
	"tugas/internal/controller"
	"tugas/internal/exitcode"
	"tugas/internal/output"
	"tugas/internal/service"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: the list is printed again on
// every countdown tick.
type WatchCmd struct {
	interval time.Duration
	count    int
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Show live countdowns" }
func (c *WatchCmd) Usage() string {
	return "tugas watch [--interval <duration>] [--count <n>]"
}
func (c *WatchCmd) NeedsStore() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", controller.DefaultInterval, "")
	fs.IntVar(&c.count, "count", 0, "")
	fs.IntVar(&c.count, "n", 0, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.interval <= 0 {
		fmt.Fprintf(errOut, "error: invalid interval: %s\n", c.interval)
		return exitcode.UserError
	}
	if c.count < 0 {
		fmt.Fprintf(errOut, "error: invalid count: %d\n", c.count)
		return exitcode.UserError
	}

	ctl, code := loadController(ctx, cfg, store, nil, errOut, controller.WithInterval(c.interval))
	if code != exitcode.Success {
		return code
	}
	if ctl.Len() == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatItems(out, ctl.Items())
	frames := 1
	if c.count > 0 && frames >= c.count {
		return exitcode.Success
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Run only returns once ctx is done, either by count or by signal.
	ctl.Run(ctx, func() {
		fmt.Fprintln(out)
		output.FormatItems(out, ctl.Items())
		frames++
		if c.count > 0 && frames >= c.count {
			cancel()
		}
	})
	return exitcode.Success
}
