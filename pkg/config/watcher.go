package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ankigen/ankigen/pkg/logger"
)

// Watcher turns file-system writes on registered configuration files
// into change callbacks.
type Watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}

	mu        sync.Mutex
	paths     map[string]context.Context
	callbacks []func()
	closed    bool
}

// NewWatcher starts a watcher. It stays idle until the first Watch
// call registers a path.
func NewWatcher() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fs:    fs,
		done:  make(chan struct{}),
		paths: make(map[string]context.Context),
	}
	go w.run()
	return w, nil
}

// OnChange registers fn to run on every change of any watched file.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Watch adds path to the watch set. Canceling ctx silences events for
// this path without tearing down the watcher.
func (w *Watcher) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := w.fs.Add(abs); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}
	w.mu.Lock()
	w.paths[abs] = ctx
	w.mu.Unlock()
	return nil
}

// Close tears down the watcher and waits for the dispatch loop to
// drain.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := w.fs.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	<-w.done
	return nil
}

// run dispatches events until the underlying watcher closes.
func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if w.muted(ev.Name) {
				continue
			}
			for _, fn := range w.snapshotCallbacks() {
				if fn != nil {
					fn()
				}
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if err != nil {
				logger.Error("config file watcher error", "error", err)
			}
		}
	}
}

// muted reports whether events for path should be dropped, either
// because it was never registered or because its context is done.
// Canceled paths are unregistered on first sight.
func (w *Watcher) muted(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ctx, ok := w.paths[path]
	if !ok {
		return true
	}
	if ctx != nil && ctx.Err() != nil {
		delete(w.paths, path)
		return true
	}
	return false
}

func (w *Watcher) snapshotCallbacks() []func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]func(), len(w.callbacks))
	copy(out, w.callbacks)
	return out
}
