// Package dialog provides the form and notification collaborators used by
// the controller: terminal prompts, preset answers, and log-only notices.
package dialog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Form describes a two-field task form. Text and Deadline are pre-filled values.
type Form struct {
	Title    string
	Confirm  string
	Cancel   string
	Text     string
	Deadline string
}

// Values are the answers to a Form.
type Values struct {
	Text     string
	Deadline string
}

// Notice is a one-button notification.
type Notice struct {
	Title string
	Text  string
	Icon  string // "success", "error", ...
}

// String formats n as a single line.
func (n Notice) String() string {
	return n.Title + " " + n.Text
}

// Terminal prompts on an input stream, one line per field.
// An empty answer keeps the pre-filled value; end of input cancels.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	quiet    bool
	defaults Values
}

// NewTerminal creates a Terminal reading from in and prompting on out.
// Notices are suppressed when quiet is set.
func NewTerminal(in io.Reader, out io.Writer, quiet bool) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, quiet: quiet}
}

// WithDefaults sets values offered for fields the form leaves empty.
func (t *Terminal) WithDefaults(v Values) *Terminal {
	t.defaults = v
	return t
}

// Prompt implements the controller's dialog.
func (t *Terminal) Prompt(ctx context.Context, f Form) (Values, bool, error) {
	fmt.Fprintln(t.out, f.Title)

	text, ok, err := t.ask(ctx, "Nama tugas", firstNonEmpty(f.Text, t.defaults.Text))
	if err != nil || !ok {
		return Values{}, false, err
	}
	deadline, ok, err := t.ask(ctx, "Tenggat (YYYY-MM-DDTHH:MM)", firstNonEmpty(f.Deadline, t.defaults.Deadline))
	if err != nil || !ok {
		return Values{}, false, err
	}
	return Values{Text: text, Deadline: deadline}, true, nil
}

func (t *Terminal) ask(ctx context.Context, label, current string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if current != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(t.out, "%s: ", label)
	}

	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	if err == io.EOF && line == "" {
		fmt.Fprintln(t.out)
		return "", false, nil
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		line = current
	}
	return line, true, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Notify implements the controller's dialog.
func (t *Terminal) Notify(ctx context.Context, n Notice) error {
	if !t.quiet {
		fmt.Fprintln(t.out, n.String())
	}
	return nil
}

// Preset answers every form with fixed values, falling back to the
// form's pre-filled values for fields left empty.
type Preset struct {
	Values Values
	out    io.Writer
	quiet  bool
}

// NewPreset creates a Preset that prints notices to out unless quiet.
func NewPreset(v Values, out io.Writer, quiet bool) *Preset {
	return &Preset{Values: v, out: out, quiet: quiet}
}

// Prompt implements the controller's dialog.
func (p *Preset) Prompt(ctx context.Context, f Form) (Values, bool, error) {
	v := p.Values
	if v.Text == "" {
		v.Text = f.Text
	}
	if v.Deadline == "" {
		v.Deadline = f.Deadline
	}
	return v, true, nil
}

// Notify implements the controller's dialog.
func (p *Preset) Notify(ctx context.Context, n Notice) error {
	if !p.quiet && p.out != nil {
		fmt.Fprintln(p.out, n.String())
	}
	return nil
}

// Log never answers forms and records notices in a log.
// It serves surfaces that pass form values directly, like the HTTP API.
type Log struct {
	log logrus.FieldLogger
}

// NewLog creates a Log dialog.
func NewLog(log logrus.FieldLogger) *Log {
	return &Log{log: log}
}

// Prompt implements the controller's dialog. It always cancels.
func (l *Log) Prompt(ctx context.Context, f Form) (Values, bool, error) {
	return Values{}, false, nil
}

// Notify implements the controller's dialog.
func (l *Log) Notify(ctx context.Context, n Notice) error {
	l.log.WithField("icon", n.Icon).Info(n.String())
	return nil
}
