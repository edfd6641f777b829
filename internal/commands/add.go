package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"tugas/internal/config"
	"tugas/internal/controller"
	"tugas/internal/dialog"
	"tugas/internal/exitcode"
	"tugas/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	deadline string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "tugas add [--deadline <date-time>] [<text...>]" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	given := dialog.Values{Text: strings.Join(args, " "), Deadline: c.deadline}

	ctl := newController(cfg, store, formDialog(given, in, out, errOut, cfg.Quiet))
	if _, err := ctl.Add(ctx); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}

// formDialog answers from given when both fields are set and prompts on
// in otherwise, offering given as the defaults.
func formDialog(given dialog.Values, in io.Reader, out, errOut io.Writer, quiet bool) controller.Dialog {
	if given.Text != "" && given.Deadline != "" {
		return dialog.NewPreset(given, out, quiet)
	}
	if in == nil {
		in = strings.NewReader("")
	}
	return dialog.NewTerminal(in, errOut, quiet).WithDefaults(given)
}
