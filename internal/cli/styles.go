package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
)

// Color palette
// - Accent (soft purple #A78BFA): ids, paths, highlights
// - Muted (gray): secondary info
// - Pass and fail use symbols only
var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

const (
	symbolPass = "✓"
	symbolFail = "✗"
)

// styles decorates text output. Decoration is off unless the writer is a
// terminal, so piped output and tests see plain text.
type styles struct {
	color bool
}

func newStyles(w io.Writer) styles {
	f, ok := w.(*os.File)
	return styles{color: ok && isatty.IsTerminal(f.Fd())}
}

func (s styles) accent(text string) string { return s.render(accentStyle, text) }
func (s styles) muted(text string) string  { return s.render(mutedStyle, text) }
func (s styles) bold(text string) string   { return s.render(boldStyle, text) }

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}

// table lays out rows under a header rule, without outer borders.
func (s styles) table(headers []string, rows [][]string) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(false).
		BorderHeader(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().PaddingRight(2)
			if !s.color {
				return st
			}
			switch {
			case row == table.HeaderRow:
				return st.Inherit(boldStyle)
			case col == 0:
				return st.Inherit(accentStyle)
			}
			return st
		}).
		Headers(headers...).
		Rows(rows...)
	if s.color {
		tbl = tbl.BorderStyle(mutedStyle)
	}
	return tbl.Render()
}
