package commands

import (
	"context"
	"flag"
	"io"

	"tugas/internal/config"
	"tugas/internal/controller"
	"tugas/internal/dialog"
	"tugas/internal/exitcode"
	"tugas/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Without --text or --deadline the current values are offered on a prompt.
type EditCmd struct {
	text     string
	deadline string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text or deadline" }
func (c *EditCmd) Usage() string {
	return "tugas edit [--text <text>] [--deadline <date-time>] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.text, "text", "", "")
	fs.StringVar(&c.text, "t", "", "")
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	var dlg controller.Dialog
	if c.text != "" || c.deadline != "" {
		// Unset flags keep the current values.
		dlg = dialog.NewPreset(dialog.Values{Text: c.text, Deadline: c.deadline}, out, cfg.Quiet)
	} else {
		dlg = formDialog(dialog.Values{}, in, out, errOut, cfg.Quiet)
	}

	ctl, code := loadController(ctx, cfg, store, dlg, errOut)
	if code != exitcode.Success {
		return code
	}
	task, ok := resolveRef(ctl, ref, errOut)
	if !ok {
		return exitcode.UserError
	}

	if _, err := ctl.Edit(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}
