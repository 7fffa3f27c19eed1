// Package ingestwatch watches the observation archive for out-of-band
// ingestion. The harvesting pipeline writes the SQLite database directly,
// so a change to the database files is the only signal that new
// observations arrived.
package ingestwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/skycatch/internal/logger"
)

// defaultDebounce coalesces the burst of writes one ingestion batch
// produces into a single notification.
const defaultDebounce = 2 * time.Second

// Watcher reports changes to the archive database.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dbPath   string
	debounce time.Duration
	onChange func()
}

// New creates a watcher over the archive database at dbPath. onChange is
// called after writes settle, from the watcher's goroutine.
func New(dbPath string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the directory: SQLite rotates WAL and journal files, and
	// watching the database file alone misses those.
	if err := fsw.Add(filepath.Dir(dbPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(dbPath), err)
	}

	return &Watcher{
		fsw:      fsw,
		dbPath:   dbPath,
		debounce: defaultDebounce,
		onChange: onChange,
	}, nil
}

// Run blocks, delivering debounced change notifications until the context
// is canceled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("ingestwatch: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-pending:
			timer = nil
			pending = nil
			w.onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant reports whether the event touches the database or its
// sidecar files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(w.dbPath)
	name := filepath.Base(event.Name)
	return name == base || name == base+"-wal" || name == base+"-journal"
}
