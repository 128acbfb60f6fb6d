package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jobdeck/internal/history"
)

func makeRecords(n int) []history.Record {
	records := make([]history.Record, n)
	for i := range records {
		records[i] = history.Record{
			ID:         fmt.Sprintf("rec-%d", i),
			Query:      fmt.Sprintf("query %d", i),
			Status:     history.StatusCompleted,
			SearchedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		}
	}
	return records
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHistoryPage_CursorNavigation(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetSize(80, 24)
	m.SetRecords(makeRecords(3))

	sel, _ := m.Selected()
	if sel.ID != "rec-0" {
		t.Fatalf("expected cursor on rec-0, got %s", sel.ID)
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if sel, _ := m.Selected(); sel.ID != "rec-2" {
		t.Errorf("expected cursor on rec-2 after j j, got %s", sel.ID)
	}

	// Clamped at the end.
	m, _ = m.Update(key("j"))
	if sel, _ := m.Selected(); sel.ID != "rec-2" {
		t.Errorf("expected cursor clamped at rec-2, got %s", sel.ID)
	}

	m, _ = m.Update(key("k"))
	if sel, _ := m.Selected(); sel.ID != "rec-1" {
		t.Errorf("expected cursor on rec-1 after k, got %s", sel.ID)
	}

	m, _ = m.Update(key("g"))
	if sel, _ := m.Selected(); sel.ID != "rec-0" {
		t.Errorf("expected cursor on rec-0 after g, got %s", sel.ID)
	}

	m, _ = m.Update(key("G"))
	if sel, _ := m.Selected(); sel.ID != "rec-2" {
		t.Errorf("expected cursor on rec-2 after G, got %s", sel.ID)
	}
}

func TestHistoryPage_DeleteEmitsMsgForSelection(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetRecords(makeRecords(3))
	m, _ = m.Update(key("j"))

	m, cmd := m.Update(key("d"))
	if cmd == nil {
		t.Fatal("expected a command from d")
	}

	msg, ok := cmd().(HistoryDeleteMsg)
	if !ok {
		t.Fatalf("expected HistoryDeleteMsg, got %T", cmd())
	}
	if msg.ID != "rec-1" {
		t.Errorf("expected delete for rec-1, got %s", msg.ID)
	}
}

func TestHistoryPage_RepeatEmitsMsgForSelection(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetRecords(makeRecords(2))

	m, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatal("expected a command from r")
	}

	msg, ok := cmd().(HistoryRepeatMsg)
	if !ok {
		t.Fatalf("expected HistoryRepeatMsg, got %T", cmd())
	}
	if msg.ID != "rec-0" {
		t.Errorf("expected repeat for rec-0, got %s", msg.ID)
	}
}

func TestHistoryPage_OpenEmitsMsgForSelection(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetRecords(makeRecords(1))

	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}

	msg, ok := cmd().(HistoryOpenMsg)
	if !ok {
		t.Fatalf("expected HistoryOpenMsg, got %T", cmd())
	}
	if msg.ID != "rec-0" {
		t.Errorf("expected open for rec-0, got %s", msg.ID)
	}
}

func TestHistoryPage_EmptyListEmitsNothing(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetRecords(nil)

	for _, k := range []string{"d", "r", "enter"} {
		if _, cmd := m.Update(key(k)); cmd != nil {
			t.Errorf("expected no command for %q on an empty list", k)
		}
	}

	if _, ok := m.Selected(); ok {
		t.Error("expected no selection on an empty list")
	}
}

func TestHistoryPage_SetRecordsClampsCursor(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetRecords(makeRecords(3))
	m, _ = m.Update(key("G"))

	m.SetRecords(makeRecords(1))

	sel, ok := m.Selected()
	if !ok {
		t.Fatal("expected a selection after shrinking the list")
	}
	if sel.ID != "rec-0" {
		t.Errorf("expected cursor clamped to rec-0, got %s", sel.ID)
	}
}

func TestHistoryPage_ViewListsRecords(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetSize(80, 40)
	m.SetRecords(makeRecords(2))

	out := m.View()
	if !strings.Contains(out, "query 0") {
		t.Errorf("expected first record in view:\n%s", out)
	}
	if !strings.Contains(out, "Search History (2)") {
		t.Errorf("expected record count in view:\n%s", out)
	}
}

func TestHistoryPage_EmptyViewShowsHint(t *testing.T) {
	m := NewHistoryPageModel(NewStyles(LightTheme()))
	m.SetSize(80, 24)
	m.SetRecords(nil)

	if !strings.Contains(m.View(), "No saved searches yet") {
		t.Error("expected empty-state hint in view")
	}
}
