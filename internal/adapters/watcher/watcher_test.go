package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dll/internal/adapters/watcher"
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/dll/internal/core/ports"
)

func nextEvent(t *testing.T, events <-chan ports.WatchEvent) ports.WatchEvent {
	t.Helper()

	select {
	case ev, ok := <-events:
		require.True(t, ok, "event stream closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a watch event")
		return ports.WatchEvent{}
	}
}

func collect(w *watcher.Watcher) <-chan ports.WatchEvent {
	out := make(chan ports.WatchEvent, 16)
	go func() {
		defer close(out)
		for ev := range w.Events() {
			out <- ev
		}
	}()
	return out
}

func TestWatcher_ReportsWatchedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "dll.yaml")
	other := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(config, []byte("version: \"1\"\n"), 0o600))

	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx, []string{config}))

	events := collect(w)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(config, []byte("version: \"1\"\nrebuild: all\n"), 0o600))

	ev := nextEvent(t, events)
	assert.Equal(t, config, ev.Path)
	assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)
}

func TestWatcher_SeesCreatedFile(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "package.json")

	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(context.Background(), []string{pkg}))
	events := collect(w)

	require.NoError(t, os.WriteFile(pkg, []byte("{}"), 0o600))

	ev := nextEvent(t, events)
	assert.Equal(t, pkg, ev.Path)
}

func TestWatcher_StopEndsEvents(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), []string{filepath.Join(dir, "dll.yaml")}))

	events := collect(w)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not close")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	err = w.Start(context.Background(), []string{filepath.Join(t.TempDir(), "missing", "dll.yaml")})
	require.ErrorIs(t, err, domain.ErrWatcherStartFailed)
}
