package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jobdeck/internal/history"
)

type (
	// HistoryDeleteMsg asks the shell to delete a saved search.
	HistoryDeleteMsg struct {
		ID string
	}

	// HistoryRepeatMsg asks the shell to run a saved search again.
	HistoryRepeatMsg struct {
		ID string
	}

	// HistoryOpenMsg asks the shell to show a saved search's results.
	HistoryOpenMsg struct {
		ID string
	}
)

// HistoryPageModel lists saved searches as cards. The page only renders
// and navigates; deleting and repeating are requested from the shell
// via messages.
type HistoryPageModel struct {
	viewport viewport.Model
	records  []history.Record
	cursor   int
	styles   Styles
	width    int
	height   int

	// Line offsets of each card inside the viewport content, used to
	// keep the selection scrolled into view.
	cardTops    []int
	cardHeights []int
}

// NewHistoryPageModel creates the history page.
func NewHistoryPageModel(styles Styles) HistoryPageModel {
	vp := viewport.New(80, 20)
	return HistoryPageModel{
		viewport: vp,
		styles:   styles,
	}
}

// SetSize updates the size of the viewport.
func (m *HistoryPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 4 // Reserve space for header/footer
	m.UpdateContent()
}

// SetRecords replaces the listed records, keeping the cursor in range.
func (m *HistoryPageModel) SetRecords(records []history.Record) {
	m.records = records
	if m.cursor >= len(records) {
		m.cursor = len(records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.UpdateContent()
}

// Records returns the currently listed records.
func (m HistoryPageModel) Records() []history.Record {
	return m.records
}

// Selected returns the record under the cursor.
func (m HistoryPageModel) Selected() (history.Record, bool) {
	if len(m.records) == 0 {
		return history.Record{}, false
	}
	return m.records[m.cursor], true
}

// UpdateContent rebuilds the viewport content from the records.
func (m *HistoryPageModel) UpdateContent() {
	var sb strings.Builder
	m.cardTops = m.cardTops[:0]
	m.cardHeights = m.cardHeights[:0]

	title := m.styles.Title.Render(fmt.Sprintf("Search History (%d)", len(m.records)))
	sb.WriteString(title)
	sb.WriteString("\n")
	line := lipgloss.Height(title) + 1

	if len(m.records) == 0 {
		sb.WriteString(m.styles.Muted.Render("No saved searches yet. Run one with: jobdeck search --query \"...\""))
		m.viewport.SetContent(sb.String())
		return
	}

	for i, rec := range m.records {
		card := RenderHistoryCard(rec, m.styles, m.width, i == m.cursor)
		m.cardTops = append(m.cardTops, line)
		h := lipgloss.Height(card)
		m.cardHeights = append(m.cardHeights, h)

		sb.WriteString(card)
		sb.WriteString("\n")
		line += h + 1
	}

	m.viewport.SetContent(sb.String())
	m.scrollToCursor()
}

// scrollToCursor keeps the selected card fully visible.
func (m *HistoryPageModel) scrollToCursor() {
	if m.cursor >= len(m.cardTops) {
		return
	}
	top := m.cardTops[m.cursor]
	bottom := top + m.cardHeights[m.cursor]

	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	} else if bottom > m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

// Update handles navigation and action keys.
func (m HistoryPageModel) Update(msg tea.Msg) (HistoryPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				m.UpdateContent()
			}
			return m, nil

		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
				m.UpdateContent()
			}
			return m, nil

		case "g", "home":
			if len(m.records) > 0 && m.cursor != 0 {
				m.cursor = 0
				m.UpdateContent()
			}
			return m, nil

		case "G", "end":
			if len(m.records) > 0 && m.cursor != len(m.records)-1 {
				m.cursor = len(m.records) - 1
				m.UpdateContent()
			}
			return m, nil

		case "d":
			if sel, ok := m.Selected(); ok {
				return m, func() tea.Msg { return HistoryDeleteMsg{ID: sel.ID} }
			}
			return m, nil

		case "r":
			if sel, ok := m.Selected(); ok {
				return m, func() tea.Msg { return HistoryRepeatMsg{ID: sel.ID} }
			}
			return m, nil

		case "enter":
			if sel, ok := m.Selected(); ok {
				return m, func() tea.Msg { return HistoryOpenMsg{ID: sel.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page.
func (m HistoryPageModel) View() string {
	return m.viewport.View()
}
