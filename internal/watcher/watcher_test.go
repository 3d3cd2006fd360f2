package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/cqlhl/internal/watcher"
)

func startWatcher(t *testing.T, dir string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")
	return onChange
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "susanne.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: susanne\n"), 0o644))

	onChange := startWatcher(t, dir)

	// Rapid writes coalesce into a single notification
	for i := range 10 {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("corpus: susanne%d\n", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresNonSchemaFiles(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0o644))

	onChange := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case <-onChange:
		t.Fatal("unexpected notification for non-schema file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_DetectsNewAndRemovedSchemas(t *testing.T) {
	dir := t.TempDir()
	onChange := startWatcher(t, dir)

	path := filepath.Join(dir, "syn.yml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: syn\n"), 0o644))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for created schema")
	}

	require.NoError(t, os.Remove(path))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for removed schema")
	}
}

func TestWatcher_StartFailsForMissingDir(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	_, err = w.Start()
	require.Error(t, err)
}
