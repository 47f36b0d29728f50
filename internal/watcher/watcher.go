package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes one settled file. Calls are serialized.
type Handler func(ctx context.Context, path string)

// FolderWatcher reports files in a directory once they stop changing for
// the debounce interval.
type FolderWatcher struct {
	dir      string
	debounce time.Duration
	match    func(path string) bool
	handler  Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// New creates a watcher for dir. match filters candidate paths by name.
func New(dir string, debounce time.Duration, match func(path string) bool, handler Handler) *FolderWatcher {
	if match == nil {
		match = func(string) bool { return true }
	}
	return &FolderWatcher{
		dir:      dir,
		debounce: debounce,
		match:    match,
		handler:  handler,
		pending:  make(map[string]*time.Timer),
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *FolderWatcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	slog.Info("watching folder", "dir", w.dir, "debounce", w.debounce)

	ready := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case path := <-ready:
				w.handler(ctx, path)
			}
		}
	}()
	defer func() {
		w.stopTimers()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopped watching folder", "dir", w.dir)
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event, ready)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "dir", w.dir, "err", err)
		}
	}
}

func (w *FolderWatcher) handleEvent(ctx context.Context, event fsnotify.Event, ready chan<- string) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	path := event.Name
	if !w.match(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.settle(ctx, path, ready)
	})
	slog.Debug("file changed", "file", filepath.Base(path), "op", event.Op.String())
}

// settle hands path to the handler goroutine if it is still a regular file.
func (w *FolderWatcher) settle(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	delete(w.pending, path)
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	select {
	case ready <- path:
	case <-ctx.Done():
	}
}

func (w *FolderWatcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
