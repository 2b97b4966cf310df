package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const maxListedFiles = 10

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Scan Uploader"))
	b.WriteString("\n")

	b.WriteString(m.styles.Section.Render("Server"))
	b.WriteString("\n")
	b.WriteString(m.row("API URL", m.focus == focusURL, m.urlInput.View()))
	b.WriteString(m.row("Scan folder", m.focus == focusFolder, m.folderInput.View()))
	b.WriteString(m.row("Username", m.focus == focusUsername, m.usernameInput.View()))
	b.WriteString(m.row("Password", m.focus == focusPassword, m.passwordInput.View()))
	b.WriteString(m.row("Session", false, m.sessionLabel()))

	b.WriteString(m.styles.Section.Render("Document"))
	b.WriteString("\n")
	b.WriteString(m.row("Category", m.focus == focusCategory, m.categoryLabel()))
	for i, field := range m.deps.Form.Fields() {
		if i >= len(m.fieldInputs) {
			break
		}
		focused := m.focus == focusFields && m.fieldFocus == i
		b.WriteString(m.row(field.Label, focused, m.fieldInputs[i].View()))
	}

	b.WriteString(m.styles.Section.Render(fmt.Sprintf("Staged scans (%d)", len(m.staged))))
	b.WriteString("\n")
	b.WriteString(m.stagedList())

	b.WriteString("\n")
	b.WriteString(m.submitButton())
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	b.WriteString(m.styles.Help.Render(
		"tab/shift+tab move • enter apply folder • ←/→ category • ctrl+l login • ctrl+o logout • ctrl+s send • ctrl+r rescan • ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) row(label string, focused bool, value string) string {
	style := m.styles.Label
	if focused {
		style = m.styles.Focused
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, style.Render(label), value) + "\n"
}

func (m Model) sessionLabel() string {
	switch {
	case m.loggingIn:
		return m.styles.Warning.Render("logging in...")
	case m.deps.Session.IsAuthenticated():
		return m.styles.Success.Render("logged in as " + m.user)
	default:
		return m.styles.Muted.Render("logged out")
	}
}

func (m Model) categoryLabel() string {
	if m.categoryIndex < 0 || m.categoryIndex >= len(m.deps.Categories) {
		return m.styles.Muted.Render("none")
	}
	return fmt.Sprintf("‹ %s ›", m.deps.Categories[m.categoryIndex])
}

func (m Model) stagedList() string {
	if m.stagingErr != nil {
		return m.styles.Error.Render("  staging folder unavailable: "+m.stagingErr.Error()) + "\n"
	}
	if len(m.staged) == 0 {
		return m.styles.Muted.Render("  no scans in "+m.deps.Staging.Dir()) + "\n"
	}
	var b strings.Builder
	for i, file := range m.staged {
		if i == maxListedFiles {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  ... and %d more", len(m.staged)-maxListedFiles)))
			b.WriteString("\n")
			break
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", file.Name, m.styles.Muted.Render(humanSize(file.Size))))
	}
	return b.String()
}

func (m Model) submitButton() string {
	switch {
	case m.uploading:
		return m.styles.Disabled.Render("[ sending... ]")
	case m.CanSubmit():
		return m.styles.Button.Render("[ send ]")
	default:
		return m.styles.Disabled.Render("[ send ]")
	}
}

func (m Model) statusLine() string {
	switch m.status.kind {
	case statusSuccess:
		return m.styles.Success.Render(m.status.text)
	case statusWarning:
		return m.styles.Warning.Render(m.status.text)
	case statusError:
		return m.styles.Error.Render(m.status.text)
	default:
		return m.styles.Info.Render(m.status.text)
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
