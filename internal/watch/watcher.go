// Package watch re-runs the formatter when the files it formats change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	debounceDuration = 100 * time.Millisecond
	// quietPeriod ignores the writes the formatter itself makes to the watched files.
	quietPeriod = 500 * time.Millisecond
)

// WatchedFiles are the file names, relative to the watched directory, that trigger a run.
var WatchedFiles = []string{"package.json", ".yarnrc.yml"}

// Event describes the change that triggered a run.
type Event struct {
	Path string
}

// Watcher monitors a directory for changes to the formatted files.
type Watcher struct {
	logger *slog.Logger
	Ready  chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
	now        func() time.Time

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// NewWatcher creates a new Watcher.
func NewWatcher(logger *slog.Logger) *Watcher {
	return &Watcher{
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
		now:        time.Now,
	}
}

// Watch monitors dir and calls callback after a debounced change to one of the
// WatchedFiles. Runs never overlap, and changes made while a run is in progress or
// shortly after it finishes are ignored. It blocks until the context is cancelled.
func (w *Watcher) Watch(ctx context.Context, dir string, callback func(Event)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watching the directory rather than the files survives editors that replace
	// files with a rename.
	if err := watcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("Watching for changes", "dir", dir, "files", WatchedFiles)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ev := w.handleEvent(event)
			if ev == nil {
				continue
			}
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			wg.Add(1)
			timer = time.AfterFunc(debounceDuration, func() {
				defer wg.Done()
				w.run(*ev, callback)
			})
		}
	}
}

// handleEvent returns the Event for a relevant change, or nil.
func (w *Watcher) handleEvent(event fsnotify.Event) *Event {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return nil
	}
	if !slices.Contains(WatchedFiles, filepath.Base(event.Name)) {
		return nil
	}
	if w.suppressed() {
		w.logger.Debug("ignoring change during quiet period", "path", event.Name)
		return nil
	}
	return &Event{Path: event.Name}
}

func (w *Watcher) suppressed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running || (!w.lastRun.IsZero() && w.now().Sub(w.lastRun) < quietPeriod)
}

func (w *Watcher) run(ev Event, callback func(Event)) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.lastRun = w.now()
		w.mu.Unlock()
	}()

	callback(ev)
}
