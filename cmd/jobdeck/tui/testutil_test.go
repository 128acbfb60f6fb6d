package tui

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	userconfig "jobdeck/cmd/jobdeck/config"
	"jobdeck/internal/config"
	"jobdeck/internal/history"
	"jobdeck/internal/searchapi"
)

// =============================================================================
// MOCK SEARCHER
// =============================================================================

// mockSearcher implements Searcher with canned results.
// Thread-safe: searches run in tea.Cmd goroutines.
type mockSearcher struct {
	mu          sync.Mutex
	results     *searchapi.ResultSet
	err         error
	callCount   int
	lastFilters history.Filters
}

func (m *mockSearcher) Search(ctx context.Context, f history.Filters) (*searchapi.ResultSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastFilters = f
	if m.err != nil {
		return nil, m.err
	}
	if m.results != nil {
		return m.results, nil
	}
	return &searchapi.ResultSet{Query: f.Query, Total: 0}, nil
}

func (m *mockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *mockSearcher) LastFilters() history.Filters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFilters
}

// =============================================================================
// TEST MODEL BUILDER
// =============================================================================

// TestModelOption configures a test model.
type TestModelOption func(*Model)

// NewTestModel creates a Model past the boot phase with lightweight
// defaults: a real store in a temp dir, a mock searcher, no watcher.
func NewTestModel(t *testing.T, opts ...TestModelOption) Model {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.History.DatabasePath = filepath.Join(t.TempDir(), "history.db")

	m := NewModel(cfg, "", userconfig.DefaultConfig())
	m.isBooting = false
	m.ready = true
	m.width = 100
	m.height = 40
	m.searcher = &mockSearcher{}

	store, err := history.NewStore(cfg.History.DatabasePath)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	m.store = store

	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// WithSearcher injects a searcher.
func WithSearcher(s Searcher) TestModelOption {
	return func(m *Model) {
		m.searcher = s
	}
}

// WithViewMode sets the active view.
func WithViewMode(mode ViewMode) TestModelOption {
	return func(m *Model) {
		m.viewMode = mode
	}
}

// WithBooting puts the model back into the boot phase.
func WithBooting() TestModelOption {
	return func(m *Model) {
		m.isBooting = true
	}
}

// WithRecords seeds the store and the history page.
func WithRecords(t *testing.T, recs ...history.Record) TestModelOption {
	return func(m *Model) {
		t.Helper()
		stored := make([]history.Record, 0, len(recs))
		for _, rec := range recs {
			got, err := m.store.Add(rec)
			if err != nil {
				t.Fatalf("failed to seed record: %v", err)
			}
			stored = append(stored, got)
		}
		m.historyPage.SetRecords(stored)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func completedRecord(query string) history.Record {
	return history.Record{
		Query:       query,
		Location:    "Remote",
		JobType:     "full-time",
		ResultCount: 3,
		SearchedAt:  time.Now().Add(-time.Hour),
		Status:      history.StatusCompleted,
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collectMsgs runs a command tree, flattening batches, and returns the
// produced messages. Follow-up commands from the messages themselves are
// not executed, so tests never wait on animation frames.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// drive feeds a message through Update and returns the concrete Model.
func drive(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model, cmd
}
