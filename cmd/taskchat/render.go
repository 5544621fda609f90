package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"github.com/elee1766/taskchat/src/theme"
)

const maxCellWidth = 60

// renderTable writes rows under headers using the current theme.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, theme.NewStyles().Muted.Render("(none)"))
		return err
	}
	styles := theme.NewStyles()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// cell flattens s onto one line and truncates it for a table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, maxCellWidth, "…")
}

// writeJSON prints v indented, highlighted when w is a terminal.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return highlight(w, string(data)+"\n", "json")
}

func highlight(w io.Writer, source, lexer string) error {
	if !isTerminal(w) {
		_, err := io.WriteString(w, source)
		return err
	}
	return quick.Highlight(w, source, lexer, "terminal256", "monokai")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
