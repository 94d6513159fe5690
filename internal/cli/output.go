package cli

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/autumn/internal/tui/styles"
	"github.com/tessro/autumn/internal/wizard"
)

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// printJSON writes v as a single JSON document to stdout.
func printJSON(v any) error {
	return json.NewEncoder(os.Stdout).Encode(v)
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(ok bool) string {
	if ok {
		return "●"
	}
	return "○"
}

// theme is used for colored one-shot output. Plain text when piped.
func theme() (styles.Theme, bool) {
	if !wizard.IsTerminal() {
		return styles.Theme{}, false
	}
	name := "auto"
	if cfg != nil {
		name = cfg.TUI.Theme
	}
	return styles.New(name), true
}

// paint renders s with style when stdout is a terminal.
func paint(style func(styles.Theme) lipgloss.Style, s string) string {
	t, ok := theme()
	if !ok {
		return s
	}
	return style(t).Render(s)
}

// Style selectors for paint.
var (
	playingStyle = func(t styles.Theme) lipgloss.Style { return t.Playing }
	pausedStyle  = func(t styles.Theme) lipgloss.Style { return t.Paused }
	buttonStyle  = func(t styles.Theme) lipgloss.Style { return t.Button }
	errorStyle   = func(t styles.Theme) lipgloss.Style { return t.Error }
	dimStyle     = func(t styles.Theme) lipgloss.Style { return t.Dim }
)
