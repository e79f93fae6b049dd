// Package watch re-triggers an import whenever the source workbook changes.
//
// It watches the workbook's directory rather than the file itself because
// spreadsheet applications typically save through a rename, which replaces
// the watched inode. Rapid event bursts (save-then-rename, chunked writes)
// are debounced into a single trigger.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches rapid successive events into one trigger.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a single file and invokes a callback after each settled
// change.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
	watcher  *fsnotify.Watcher
}

// New creates a Watcher for the file at path. A zero debounce means
// DefaultDebounce; a nil logger falls back to stderr.
func New(path string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[watch] ", log.LstdFlags)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{path: abs, debounce: debounce, logger: logger, watcher: fsw}, nil
}

// Run blocks, invoking onChange after each debounced change to the watched
// file, until ctx is cancelled. onChange runs on the watcher goroutine, so
// changes arriving during a long callback coalesce into one further trigger.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			w.logger.Printf("change detected: %s (%s)", filepath.Base(event.Name), event.Op)
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			armed = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watch error: %v", err)

		case <-timer.C:
			armed = false
			onChange()
		}
	}
}

// matches reports whether the event concerns the watched file with an
// operation that changes its content.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
