// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tugas/internal/controller"
	"tugas/internal/countdown"
)

// Marks shown between brackets for each display state.
const (
	MarkCompleted = "x"
	MarkExpired   = "!"
	MarkComputing = "~"
	MarkActive    = " "
)

// FormatItem formats a task line.
// Format: "{N:>4}  [{mark}] {TEXT}  {DEADLINE}  {REMAINING}\n"
func FormatItem(w io.Writer, num int, item controller.Item) {
	fmt.Fprintf(w, "%4d  [%s] %s  %s  %s\n",
		num, Mark(item.State), normalizeTitle(item.Text), item.Deadline, item.Remaining)
}

// FormatItems formats items numbered from 1 in list order.
func FormatItems(w io.Writer, items []controller.Item) {
	for i, item := range items {
		FormatItem(w, i+1, item)
	}
}

// Mark returns the bracket mark for state.
func Mark(state countdown.State) string {
	switch state {
	case countdown.Completed:
		return MarkCompleted
	case countdown.Expired:
		return MarkExpired
	case countdown.Computing:
		return MarkComputing
	default:
		return MarkActive
	}
}

// normalizeTitle normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
