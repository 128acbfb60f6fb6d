package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_DeliversReloadedConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping watcher test in short mode")
	}
	defer goleak.VerifyNone(t)

	clearEnvOverrides(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform:\n  base_url: https://one.jobdeck.dev\n"), 0644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.True(t, w.IsWatching())

	require.NoError(t, os.WriteFile(path, []byte("platform:\n  base_url: https://two.jobdeck.dev\n"), 0644))

	select {
	case cfg := <-w.Updates():
		assert.Equal(t, "https://two.jobdeck.dev", cfg.Platform.BaseURL)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping watcher test in short mode")
	}
	defer goleak.VerifyNone(t)

	clearEnvOverrides(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: jobdeck\n"), 0644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0644))

	select {
	case cfg := <-w.Updates():
		t.Fatalf("unexpected update delivered: %+v", cfg)
	case <-time.After(1 * time.Second):
	}
}

func TestWatcher_InvalidReloadKeepsQuiet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping watcher test in short mode")
	}
	defer goleak.VerifyNone(t)

	clearEnvOverrides(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: jobdeck\n"), 0644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// A config that parses but fails validation must not be delivered.
	require.NoError(t, os.WriteFile(path, []byte("search:\n  page_size: 0\n"), 0644))

	select {
	case cfg := <-w.Updates():
		t.Fatalf("invalid config delivered: %+v", cfg)
	case <-time.After(1500 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()

	assert.False(t, w.IsWatching())
}

func TestWatcher_StartTwiceIsNoOp(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))

	w.Stop()
}

func TestWatcher_StopClosesUpdates(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()

	select {
	case _, ok := <-w.Updates():
		assert.False(t, ok, "expected updates channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("updates channel still open after Stop")
	}
}
