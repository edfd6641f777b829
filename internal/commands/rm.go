package commands

import (
	"context"
	"flag"
	"io"

	"tugas/internal/config"
	"tugas/internal/dialog"
	"tugas/internal/exitcode"
	"tugas/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "tugas rm <ref>..." }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	ctl, code := loadController(ctx, cfg, store, dialog.NewPreset(dialog.Values{}, out, cfg.Quiet), errOut)
	if code != exitcode.Success {
		return code
	}

	// Resolve every reference against the loaded order before deleting,
	// so positions do not shift under later references.
	var ids []string
	seen := make(map[string]bool)
	for _, ref := range refs {
		task, ok := resolveRef(ctl, ref, errOut)
		if !ok {
			return exitcode.UserError
		}
		if !seen[task.ID] {
			seen[task.ID] = true
			ids = append(ids, task.ID)
		}
	}

	for _, id := range ids {
		if err := ctl.Delete(ctx, id); err != nil {
			return reportError(errOut, err)
		}
	}
	return exitcode.Success
}
