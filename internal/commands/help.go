package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tugas/internal/config"
	"tugas/internal/exitcode"
	"tugas/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tugas help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, in io.Reader, out, errOut io.Writer) int {
	fmt.Fprint(out, Help(DefaultRegistry))
	return exitcode.Success
}

// Help renders usage for every command in r.
func Help(r *Registry) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  tugas                  List tasks (same as tugas list)\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "  %-58s %s\n", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(&b, "      aliases: %s\n", strings.Join(aliases, ", "))
		}
	}
	b.WriteString(helpFooter)
	return b.String()
}

const helpFooter = `
A <ref> is a task's position in the list (1, 2, ...) or its ID.
Deadlines are local date-times: 2025-01-31T17:00 (seconds and RFC 3339 also accepted).

Common flags:
  --config <dir>     Override config directory
  --backend <name>   firestore, googletasks, redis, postgres, or mysql
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr

Environment (also read from .env in the config dir and working dir):
  TUGAS_BACKEND, TUGAS_PROJECT_ID, TUGAS_CREDENTIALS, TUGAS_COLLECTION,
  TUGAS_TASKLIST, TUGAS_REDIS_URL, TUGAS_REDIS_PREFIX, TUGAS_DATABASE_URL,
  TUGAS_TIMEZONE, TUGAS_ADDR
`
