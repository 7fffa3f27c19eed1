package ingestwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_NotifiesOnDatabaseWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "archive.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0600))

	notified := make(chan struct{}, 1)
	w, err := New(dbPath, func() {
		select {
		case notified <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// A WAL write must trigger a notification.
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("y"), 0600))

	select {
	case <-notified:
	case <-ctx.Done():
		t.Fatal("no notification before timeout")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	w := &Watcher{dbPath: "/data/archive.db"}

	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/archive.db", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/archive.db-wal", Op: fsnotify.Create}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/archive.db-journal", Op: fsnotify.Write}))

	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/notes.txt", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/archive.db", Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/archive.db-shm", Op: fsnotify.Write}))
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New("/does/not/exist/archive.db", func() {})
	assert.Error(t, err)
}
