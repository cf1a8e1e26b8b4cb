package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// colorEnabled tracks whether styled output is enabled.
// It is set based on terminal detection but can be overridden.
var colorEnabled = true

func init() {
	colorEnabled = IsTerminal(os.Stdout)
}

// SetColorEnabled allows overriding the color output setting.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if f is a terminal. Anything that is not an
// *os.File is never a terminal.
func IsTerminal(f any) bool {
	if file, ok := f.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func styled(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// Success renders s in the success color.
func Success(s string) string { return styled(successStyle, s) }

// Failure renders s in the error color.
func Failure(s string) string { return styled(errorStyle, s) }

// Warn renders s in the warning color.
func Warn(s string) string { return styled(warnStyle, s) }

// Muted renders s faint.
func Muted(s string) string { return styled(mutedStyle, s) }

// Bold renders s bold.
func Bold(s string) string { return styled(boldStyle, s) }

// DefaultMaxValueWidth is the default maximum visible width for value columns.
const DefaultMaxValueWidth = 60

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int // optional per-column max visible width
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{}
}

// SetMaxWidth sets the maximum visible width for a column.
// Content exceeding the limit is truncated with an ellipsis ("...").
func (t *Table) SetMaxWidth(col, maxWidth int) {
	if t.maxWidths == nil {
		t.maxWidths = make(map[int]int)
	}
	t.maxWidths[col] = maxWidth
}

// AddRow adds a row to the table. Line breaks inside a cell are flattened.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}

	row := make([]string, len(cols))
	for i, col := range cols {
		col = Flatten(col)
		if maxW, ok := t.maxWidths[i]; ok {
			col = Truncate(col, maxW)
		}
		row[i] = col
		if w := lipgloss.Width(col); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}

	t.rows = append(t.rows, row)
}

// Render writes the table to w with columns separated by two spaces.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		parts := make([]string, 0, len(row))
		for i, col := range row {
			if i < len(row)-1 {
				parts = append(parts, col+strings.Repeat(" ", t.colWidths[i]-lipgloss.Width(col)))
			} else {
				parts = append(parts, col)
			}
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
}

// Truncate returns s cut to maxWidth visible cells, ending in "..." when
// anything was removed. Escape sequences do not count toward the width.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return ansi.Truncate(s, maxWidth, "")
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// Flatten joins the lines of s with " ⏎ " so it fits on one row.
func Flatten(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	return strings.Join(lines, " ⏎ ")
}
