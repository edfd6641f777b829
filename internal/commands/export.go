package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tugas/internal/config"
	"tugas/internal/exitcode"
	"tugas/internal/export"
	"tugas/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	out    string
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as JSON, CSV, or PDF" }
func (c *ExportCmd) Usage() string {
	return "tugas export [--format json|csv|pdf] [--out <file>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", export.FormatJSON, "")
	fs.StringVar(&c.format, "f", export.FormatJSON, "")
	fs.StringVar(&c.out, "out", "", "")
	fs.StringVar(&c.out, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	format := strings.ToLower(c.format)
	switch format {
	case export.FormatJSON, export.FormatCSV, export.FormatPDF:
	default:
		fmt.Fprintf(errOut, "error: unknown format: %s\n", c.format)
		return exitcode.UserError
	}

	ctl, code := loadController(ctx, cfg, store, nil, errOut)
	if code != exitcode.Success {
		return code
	}

	data, err := export.Export(ctl.Items(), format)
	if err != nil {
		fmt.Fprintf(errOut, "error: export failed: %v\n", err)
		return exitcode.BackendError
	}

	if c.out == "" || c.out == "-" {
		out.Write(data)
		return exitcode.Success
	}
	if err := os.WriteFile(c.out, data, 0644); err != nil {
		fmt.Fprintf(errOut, "error: failed to write %s: %v\n", c.out, err)
		return exitcode.UserError
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "ok: %d tasks written to %s\n", ctl.Len(), c.out)
	}
	return exitcode.Success
}
