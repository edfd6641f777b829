package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tugas/internal/config"
	"tugas/internal/exitcode"
	"tugas/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed or not completed" }
func (c *ToggleCmd) Usage() string     { return "tugas toggle <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	ctl, code := loadController(ctx, cfg, store, nil, errOut)
	if code != exitcode.Success {
		return code
	}
	task, ok := resolveRef(ctl, ref, errOut)
	if !ok {
		return exitcode.UserError
	}

	toggled, err := ctl.Toggle(ctx, task.ID)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		if toggled.Completed {
			fmt.Fprintln(out, "ok: completed")
		} else {
			fmt.Fprintln(out, "ok: not completed")
		}
	}
	return exitcode.Success
}
