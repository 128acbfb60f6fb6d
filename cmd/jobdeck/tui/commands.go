package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"jobdeck/internal/config"
	"jobdeck/internal/history"
	"jobdeck/internal/logging"
)

// performBoot opens the history store and starts the config watcher.
// Runs off the UI goroutine so a slow disk never blocks first paint.
func performBoot(ctx context.Context, cfg *config.Config, configPath string) tea.Cmd {
	return func() tea.Msg {
		timer := logging.StartTimer(logging.CategoryBoot, "tui_boot")
		defer timer.Stop()

		store, err := history.NewStore(cfg.History.DatabasePath)
		if err != nil {
			return bootCompleteMsg{err: fmt.Errorf("failed to open history store: %w", err)}
		}

		components := &SystemComponents{Store: store}

		if configPath != "" {
			watcher, err := config.NewWatcher(configPath)
			if err != nil {
				logging.BootWarn("Config watcher unavailable: %v", err)
			} else if err := watcher.Start(ctx); err != nil {
				logging.BootWarn("Config watcher failed to start: %v", err)
			} else {
				components.Watcher = watcher
			}
		}

		return bootCompleteMsg{components: components}
	}
}

// loadHistoryCmd reads the newest records from the store.
func loadHistoryCmd(store *history.Store, limit int) tea.Cmd {
	return func() tea.Msg {
		records, err := store.List(limit)
		if err != nil {
			return historyErrMsg{err: err}
		}
		return historyLoadedMsg(records)
	}
}

// deleteRecordCmd removes a record and delivers the refreshed slice.
func deleteRecordCmd(store *history.Store, id string, limit int) tea.Cmd {
	return func() tea.Msg {
		if err := store.Delete(id); err != nil {
			return historyErrMsg{err: err}
		}
		logging.History("Deleted record %s", id)
		records, err := store.List(limit)
		if err != nil {
			return historyErrMsg{err: err}
		}
		return historyLoadedMsg(records)
	}
}

// runSearchCmd executes a search for rec's filters and persists the
// outcome. With repeat a fresh in-progress record is added first;
// otherwise rec itself is marked in-progress and refreshed.
func runSearchCmd(ctx context.Context, store *history.Store, searcher Searcher, timeout time.Duration, maxRecords int, rec history.Record, repeat bool) tea.Cmd {
	return func() tea.Msg {
		id := rec.ID
		if repeat {
			stored, err := store.Add(history.NewRecord(rec.Filters(), rec.Tags))
			if err != nil {
				return searchErrMsg{err: err}
			}
			id = stored.ID
			if perr := store.Prune(maxRecords); perr != nil {
				logging.HistoryWarn("Could not prune history: %v", perr)
			}
		} else {
			if err := store.SetStatus(id, history.StatusInProgress, rec.ResultCount); err != nil {
				return searchErrMsg{recordID: id, err: err}
			}
		}

		sctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		results, err := searcher.Search(sctx, rec.Filters())
		if err != nil {
			if serr := store.SetStatus(id, history.StatusFailed, 0); serr != nil {
				logging.HistoryWarn("Could not mark record %s failed: %v", id, serr)
			}
			return searchErrMsg{recordID: id, err: err}
		}

		if err := store.SetStatus(id, history.StatusCompleted, results.Total); err != nil {
			return searchErrMsg{recordID: id, err: err}
		}
		if !repeat {
			if err := store.Touch(id); err != nil {
				logging.HistoryWarn("Could not touch record %s: %v", id, err)
			}
		}

		return searchDoneMsg{recordID: id, results: results}
	}
}

// waitForConfigCmd blocks until the watcher delivers a reloaded config.
// Re-armed by the update loop after each delivery.
func waitForConfigCmd(w *config.Watcher) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-w.Updates()
		if !ok {
			return nil
		}
		return configReloadedMsg(cfg)
	}
}
