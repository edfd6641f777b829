package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tugas/internal/config"
	"tugas/internal/exitcode"
	"tugas/internal/output"
	"tugas/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tugas` (no args) and `tugas list`.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks with time remaining" }
func (c *ListCmd) Usage() string     { return "tugas list" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctl, code := loadController(ctx, cfg, store, nil, errOut)
	if code != exitcode.Success {
		return code
	}

	items := ctl.Items()
	if len(items) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}
	output.FormatItems(out, items)
	return exitcode.Success
}
