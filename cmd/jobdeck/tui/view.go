package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jobdeck/cmd/jobdeck/ui"
)

// View renders the dashboard: header, the active page, and a footer
// with status and key hints.
func (m Model) View() string {
	if !m.ready {
		return "\n  Starting jobdeck..."
	}
	if m.isBooting {
		return m.renderBoot()
	}
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			m.styles.Error.Render("  Startup failed: "+m.err.Error()),
			m.styles.Muted.Render("  Press ctrl+c to exit."),
		)
	}

	var body string
	switch m.viewMode {
	case ViewResetForm:
		body = m.resetForm.View()
	case ViewResults:
		body = m.resultsPage.View()
	default:
		body = m.historyPage.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.styles.Content.Render(body),
		m.renderFooter(),
	)
}

func (m Model) renderBoot() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ui.Logo(m.styles),
		"",
		"  "+m.spinner.View()+" Opening search history...",
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("jobdeck")
	tagline := m.styles.Muted.Render("  job search dashboard")
	bar := lipgloss.JoinHorizontal(lipgloss.Bottom, title, tagline)
	return lipgloss.JoinVertical(lipgloss.Left, bar, m.styles.RenderDivider(m.width))
}

func (m Model) renderFooter() string {
	status := m.statusLine
	if m.isSearching {
		status = m.spinner.View() + " " + status
	}

	var parts []string
	if status != "" {
		parts = append(parts, m.styles.Body.Render(status))
	}
	if hints := m.keyHints(); hints != "" {
		parts = append(parts, m.styles.Muted.Render(hints))
	}
	if len(parts) == 0 {
		return m.styles.RenderDivider(m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.RenderDivider(m.width),
		strings.Join(parts, "   "),
	)
}

// keyHints describes the navigation keys for the active page. The reset
// form renders its own hints, so it gets none here.
func (m Model) keyHints() string {
	switch m.viewMode {
	case ViewResetForm:
		return ""
	case ViewResults:
		return "↑/↓ scroll · h history · q quit"
	default:
		return "j/k move · enter open · r repeat · d delete · a account · q quit"
	}
}
