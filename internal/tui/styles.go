package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#2E7D32")
	muted   = lipgloss.Color("#8A8A8A")
	danger  = lipgloss.Color("#F44336")
	warning = lipgloss.Color("#FFC107")
	success = lipgloss.Color("#4CAF50")
)

type Styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Muted    lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary).
			Padding(0, 2).
			Bold(true),
		Section: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginTop(1),
		Label: lipgloss.NewStyle().
			Width(16),
		Focused: lipgloss.NewStyle().
			Width(16).
			Foreground(primary).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Info: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(warning),
		Error: lipgloss.NewStyle().
			Foreground(danger).
			Bold(true),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary).
			Padding(0, 1),
		Disabled: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
