package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"jobdeck/internal/searchapi"
)

// ResultsPageModel shows one search's results as rendered markdown in a
// scrollable pager.
type ResultsPageModel struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	styles   Styles
	title    string
	markdown string
	width    int
	height   int
}

// NewResultsPageModel creates the results pager.
func NewResultsPageModel(styles Styles) ResultsPageModel {
	vp := viewport.New(80, 20)
	return ResultsPageModel{
		viewport: vp,
		renderer: newMarkdownRenderer(styles, 80),
		styles:   styles,
	}
}

// newMarkdownRenderer builds a glamour renderer for the active theme.
// A nil renderer is fine; rendering falls back to plain text.
func newMarkdownRenderer(styles Styles, wrap int) *glamour.TermRenderer {
	if wrap < 20 {
		wrap = 20
	}
	if styles.Theme.IsDark {
		r, _ := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		return r
	}
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("light"),
		glamour.WithWordWrap(wrap),
	)
	return r
}

// SetSize updates the viewport and rebuilds the renderer's word wrap.
func (m *ResultsPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 4 // Reserve space for header/footer
	m.renderer = newMarkdownRenderer(m.styles, w-8)
	m.renderContent()
}

// SetResults shows a result set.
func (m *ResultsPageModel) SetResults(rs *searchapi.ResultSet) {
	if rs == nil {
		return
	}
	m.title = rs.Query
	m.markdown = rs.Markdown()
	m.renderContent()
}

// Title returns the displayed document's title.
func (m ResultsPageModel) Title() string {
	return m.title
}

func (m *ResultsPageModel) renderContent() {
	m.viewport.SetContent(m.safeRenderMarkdown(m.markdown))
	m.viewport.GotoTop()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m ResultsPageModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			// If glamour panics, return plain text
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content
}

// Update handles scrolling.
func (m ResultsPageModel) Update(msg tea.Msg) (ResultsPageModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m ResultsPageModel) View() string {
	return m.viewport.View()
}
