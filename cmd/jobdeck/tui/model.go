// Package tui provides the interactive jobdeck dashboard.
// The shell is split across multiple files:
//   - model.go: Model, view modes, message types, Update loop (this file)
//   - commands.go: async tea.Cmd constructors (boot, history, search)
//   - view.go: rendering functions
package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	userconfig "jobdeck/cmd/jobdeck/config"
	"jobdeck/cmd/jobdeck/ui"
	"jobdeck/internal/authapi"
	"jobdeck/internal/config"
	"jobdeck/internal/history"
	"jobdeck/internal/logging"
	"jobdeck/internal/searchapi"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// ViewMode determines which page is focused/active.
type ViewMode int

const (
	ViewHistory ViewMode = iota
	ViewResults
	ViewResetForm
)

// Searcher runs a job search for a set of filters.
type Searcher interface {
	Search(ctx context.Context, f history.Filters) (*searchapi.ResultSet, error)
}

// SystemComponents holds the backend services opened during boot.
type SystemComponents struct {
	Store   *history.Store
	Watcher *config.Watcher
}

// Model is the root model for the interactive dashboard.
type Model struct {
	// UI Components
	spinner     spinner.Model
	styles      ui.Styles
	historyPage ui.HistoryPageModel
	resultsPage ui.ResultsPageModel
	resetForm   ui.ResetFormModel

	viewMode ViewMode

	// State
	width  int
	height int
	ready  bool

	isBooting bool
	// isSearching guards the repeat flow: while a search is in flight,
	// further repeat and open requests are dropped without side effects.
	isSearching bool
	statusLine  string
	err         error

	cfg        *config.Config
	configPath string

	// Backend
	store    *history.Store
	searcher Searcher
	watcher  *config.Watcher

	// Shutdown coordination
	shutdownOnce   *sync.Once         // Pointer so Model copies share one guard
	shutdownCtx    context.Context    // Root context for background operations
	shutdownCancel context.CancelFunc // Cancels shutdownCtx on quit
}

// Messages for tea updates
type (
	// bootCompleteMsg carries the backend services opened at startup.
	bootCompleteMsg struct {
		components *SystemComponents
		err        error
	}

	// historyLoadedMsg delivers a refreshed record slice from the store.
	historyLoadedMsg []history.Record

	// historyErrMsg reports a failed store operation.
	historyErrMsg struct{ err error }

	// searchDoneMsg reports a finished search together with the history
	// record it was persisted under.
	searchDoneMsg struct {
		recordID string
		results  *searchapi.ResultSet
	}

	// searchErrMsg reports a failed search.
	searchErrMsg struct {
		recordID string
		err      error
	}

	// configReloadedMsg delivers a hot-reloaded application config.
	configReloadedMsg *config.Config
)

// =============================================================================
// CONSTRUCTION
// =============================================================================

// NewModel builds the dashboard model. Network clients are constructed
// immediately; the history store and config watcher open asynchronously
// during Init.
func NewModel(cfg *config.Config, configPath string, ucfg userconfig.Config) Model {
	styles := ui.NewStyles(ui.ThemeFromName(ucfg.Theme))

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Spinner),
	)

	resetter := authapi.NewClient(cfg.Platform.BaseURL, cfg.GetPlatformTimeout())
	searcher := searchapi.NewClient(
		cfg.Platform.BaseURL,
		cfg.GetSearchTimeout(),
		cfg.Search.PageSize,
		cfg.Search.MaxPages,
	)

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		spinner:        sp,
		styles:         styles,
		historyPage:    ui.NewHistoryPageModel(styles),
		resultsPage:    ui.NewResultsPageModel(styles),
		resetForm:      ui.NewResetForm(resetter, cfg.Platform.BaseURL, styles),
		viewMode:       ViewHistory,
		isBooting:      true,
		cfg:            cfg,
		configPath:     configPath,
		searcher:       searcher,
		shutdownOnce:   &sync.Once{},
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
}

// Init starts the spinner and the async boot sequence.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		performBoot(m.shutdownCtx, m.cfg, m.configPath),
	)
}

// Shutdown stops background goroutines and releases resources.
// Safe to call multiple times; only executes once.
func (m *Model) Shutdown() {
	m.shutdownOnce.Do(func() {
		if m.shutdownCancel != nil {
			m.shutdownCancel()
		}
		if m.watcher != nil {
			m.watcher.Stop()
		}
		if m.store != nil {
			_ = m.store.Close()
		}
		logging.TUI("Dashboard shut down")
		logging.CloseAll()
	})
}

// performShutdown is a value-receiver wrapper for Shutdown so it can be
// called from Update.
func (m Model) performShutdown() {
	modelPtr := &m
	modelPtr.Shutdown()
}

// =============================================================================
// UPDATE LOOP
// =============================================================================

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.historyPage.SetSize(msg.Width, msg.Height)
		m.resultsPage.SetSize(msg.Width, msg.Height)
		m.resetForm.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		// The reset form runs its own spinner.
		if m.viewMode == ViewResetForm {
			var cmd tea.Cmd
			m.resetForm, cmd = m.resetForm.Update(msg)
			return m, cmd
		}
		if m.isBooting || m.isSearching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case bootCompleteMsg:
		m.isBooting = false
		if msg.err != nil {
			m.err = msg.err
			logging.TUIError("Boot failed: %v", msg.err)
			return m, nil
		}
		m.store = msg.components.Store
		m.watcher = msg.components.Watcher
		cmds := []tea.Cmd{loadHistoryCmd(m.store, m.cfg.History.MaxRecords)}
		if m.watcher != nil {
			cmds = append(cmds, waitForConfigCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case historyLoadedMsg:
		m.historyPage.SetRecords([]history.Record(msg))
		return m, nil

	case historyErrMsg:
		m.statusLine = "History error: " + msg.err.Error()
		logging.TUIError("History operation failed: %v", msg.err)
		return m, nil

	case searchDoneMsg:
		m.isSearching = false
		m.statusLine = fmt.Sprintf("%d results for %q", msg.results.Total, msg.results.Query)
		m.resultsPage.SetResults(msg.results)
		m.viewMode = ViewResults
		return m, loadHistoryCmd(m.store, m.cfg.History.MaxRecords)

	case searchErrMsg:
		m.isSearching = false
		m.statusLine = "Search failed: " + msg.err.Error()
		logging.TUIWarn("Search for record %s failed: %v", msg.recordID, msg.err)
		if m.store == nil {
			return m, nil
		}
		return m, loadHistoryCmd(m.store, m.cfg.History.MaxRecords)

	case configReloadedMsg:
		return m.applyConfig((*config.Config)(msg))

	case ui.HistoryDeleteMsg:
		if m.store == nil {
			return m, nil
		}
		return m, deleteRecordCmd(m.store, msg.ID, m.cfg.History.MaxRecords)

	case ui.HistoryRepeatMsg:
		return m.startSearch(msg.ID, true)

	case ui.HistoryOpenMsg:
		return m.startSearch(msg.ID, false)

	case ui.ResetSucceededMsg, ui.ResetFailedMsg:
		var cmd tea.Cmd
		m.resetForm, cmd = m.resetForm.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey dispatches key presses by view mode. Global keys run first
// so they work on every page.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.performShutdown()
		return m, tea.Quit
	}
	if m.isBooting {
		return m, nil
	}

	switch m.viewMode {
	case ViewResetForm:
		// Printable keys belong to the email input, so only esc leaves.
		if msg.String() == "esc" {
			m.viewMode = ViewHistory
			return m, nil
		}
		var cmd tea.Cmd
		m.resetForm, cmd = m.resetForm.Update(msg)
		return m, cmd

	case ViewResults:
		switch msg.String() {
		case "esc", "h":
			m.viewMode = ViewHistory
			return m, nil
		case "q":
			m.performShutdown()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.resultsPage, cmd = m.resultsPage.Update(msg)
		return m, cmd

	default: // ViewHistory
		switch msg.String() {
		case "q", "esc":
			m.performShutdown()
			return m, tea.Quit
		case "a":
			m.viewMode = ViewResetForm
			return m, m.resetForm.Init()
		}
		var cmd tea.Cmd
		m.historyPage, cmd = m.historyPage.Update(msg)
		return m, cmd
	}
}

// startSearch launches a search for the given record's filters. With
// repeat a fresh record is added for the run; otherwise the existing
// record is refreshed in place.
func (m Model) startSearch(recordID string, repeat bool) (tea.Model, tea.Cmd) {
	if m.isSearching || m.store == nil {
		return m, nil
	}

	var rec history.Record
	found := false
	for _, r := range m.historyPage.Records() {
		if r.ID == recordID {
			rec = r
			found = true
			break
		}
	}
	if !found {
		return m, nil
	}

	m.isSearching = true
	m.statusLine = fmt.Sprintf("Searching %q...", rec.Query)
	logging.TUI("Repeat search: record=%s query=%q new_record=%v", recordID, rec.Query, repeat)

	return m, tea.Batch(
		m.spinner.Tick,
		runSearchCmd(m.shutdownCtx, m.store, m.searcher, m.cfg.GetSearchTimeout(), m.cfg.History.MaxRecords, rec, repeat),
	)
}

// applyConfig swaps in a hot-reloaded config and rebuilds the clients
// that depend on it.
func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		if m.watcher != nil {
			return m, waitForConfigCmd(m.watcher)
		}
		return m, nil
	}

	m.cfg = cfg
	m.searcher = searchapi.NewClient(
		cfg.Platform.BaseURL,
		cfg.GetSearchTimeout(),
		cfg.Search.PageSize,
		cfg.Search.MaxPages,
	)
	// Rebuild the form so reset requests go to the new base URL.
	resetter := authapi.NewClient(cfg.Platform.BaseURL, cfg.GetPlatformTimeout())
	m.resetForm = ui.NewResetForm(resetter, cfg.Platform.BaseURL, m.styles)
	if m.ready {
		m.resetForm.SetSize(m.width, m.height)
	}
	m.statusLine = "Configuration reloaded"
	logging.TUI("Applied reloaded config: base_url=%s", cfg.Platform.BaseURL)

	if m.watcher != nil {
		return m, waitForConfigCmd(m.watcher)
	}
	return m, nil
}

// Run starts the interactive dashboard and blocks until it exits.
func Run(cfg *config.Config, configPath string, ucfg userconfig.Config) error {
	model := NewModel(cfg, configPath, ucfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
