package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"jobdeck/internal/logging"
)

// Watcher watches the config file for changes and delivers reloaded
// configs over Updates. Editors often write config files with several
// rapid events (truncate, write, rename), so changes are debounced
// before reloading.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	configPath  string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	updates     chan *Config
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(configPath string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:     watcher,
		configPath:  configPath,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		updates:     make(chan *Config, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Updates returns the channel reloaded configs are delivered on. A slow
// consumer only ever misses intermediate states; the latest config is
// always retained.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Start begins watching the config file's directory. This method is
// non-blocking; it starts the watch loop in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory, not the file: editors replace files on save
	// and a file watch dies with the old inode.
	dir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(dir); err != nil {
		logging.Get(logging.CategoryConfig).Warn("Watcher: initial watch failed for %s: %v", dir, err)
	} else {
		logging.Config("Watcher: watching directory: %s", dir)
	}

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryConfig).Error("Watcher: error closing watcher: %v", err)
	}
	logging.Config("Watcher: stopped")
}

// IsWatching returns true if the watcher is currently running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// run is the main event loop for the watcher.
func (w *Watcher) run(ctx context.Context) {
	// Closing updates unblocks consumers waiting on the channel after Stop.
	defer close(w.doneCh)
	defer close(w.updates)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Config("Watcher: context cancelled")
			return

		case <-w.stopCh:
			logging.Config("Watcher: stop signal received")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				logging.Config("Watcher: event channel closed")
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				logging.Config("Watcher: error channel closed")
				return
			}
			logging.Get(logging.CategoryConfig).Error("Watcher error: %v", err)

		case <-debounceTicker.C:
			w.processDebouncedEvents()
		}
	}
}

// handleEvent records a filesystem event for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only care about the config file itself
	if filepath.Clean(event.Name) != filepath.Clean(w.configPath) {
		return
	}

	switch {
	case event.Op&fsnotify.Create != 0:
	case event.Op&fsnotify.Write != 0:
	case event.Op&fsnotify.Rename != 0:
	default:
		return // Ignore chmod, remove, etc.
	}

	logging.ConfigDebug("Watcher: change event for %s", event.Name)

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

// processDebouncedEvents reloads the config once changes have settled
// past the debounce window.
func (w *Watcher) processDebouncedEvents() {
	w.mu.Lock()
	now := time.Now()
	settled := false
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			delete(w.debounceMap, path)
			settled = true
		}
	}
	w.mu.Unlock()

	if !settled {
		return
	}

	cfg, err := Load(w.configPath)
	if err != nil {
		logging.Get(logging.CategoryConfig).Warn("Watcher: reload failed, keeping previous config: %v", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		logging.Get(logging.CategoryConfig).Warn("Watcher: reloaded config invalid, keeping previous: %v", err)
		return
	}

	logging.Config("Watcher: config reloaded from %s", w.configPath)

	// Drop any stale pending update so the latest always lands.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}
