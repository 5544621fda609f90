// Package theme holds the terminal colors and styles used by the CLI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme represents a color theme
type Theme struct {
	Primary   lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// CurrentTheme is the theme used by Styles.
var CurrentTheme = Theme{
	Primary:   lipgloss.Color("#00ff00"),
	Text:      lipgloss.Color("#ffffff"),
	TextMuted: lipgloss.Color("#808080"),
	Success:   lipgloss.Color("#5fd75f"),
	Warning:   lipgloss.Color("#ffaf00"),
	Error:     lipgloss.Color("#ff5f5f"),
}

// SetTheme sets the current theme
func SetTheme(t Theme) {
	CurrentTheme = t
}

// Styles are the rendered text styles derived from a theme.
type Styles struct {
	Title     lipgloss.Style
	Assistant lipgloss.Style
	User      lipgloss.Style
	Tool      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Header    lipgloss.Style
}

// NewStyles builds styles for the current theme.
func NewStyles() Styles {
	t := CurrentTheme
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Assistant: lipgloss.NewStyle().Foreground(t.Text),
		User:      lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Tool:      lipgloss.NewStyle().Foreground(t.TextMuted),
		Muted:     lipgloss.NewStyle().Foreground(t.TextMuted),
		Success:   lipgloss.NewStyle().Foreground(t.Success),
		Warning:   lipgloss.NewStyle().Foreground(t.Warning),
		Error:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Header:    lipgloss.NewStyle().Bold(true).Underline(true).Foreground(t.Text),
	}
}

// Plain returns styles that render text unchanged.
func Plain() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Assistant: s, User: s, Tool: s, Muted: s, Success: s, Warning: s, Error: s, Header: s}
}
