// Package watch reports on-disk changes to the file open in the editor.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Change describes an on-disk change to the watched file.
type Change struct {
	Path string `json:"path"`
	Op   string `json:"op"` // "write", "create", "remove" or "rename"
}

// Watcher follows a single file. It watches the parent directory so editors
// that save by rename-and-replace are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func(Change)

	mu   sync.Mutex
	path string
	dir  string

	done chan struct{}
}

// New starts a watcher that calls onChange from its own goroutine.
func New(onChange func(Change)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch replaces the watched file with path. An empty path stops watching.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if path != "" {
		path = filepath.Clean(path)
	}
	if path == w.path {
		return nil
	}

	if w.dir != "" {
		_ = w.fs.Remove(w.dir)
	}
	w.path, w.dir = "", ""

	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.path, w.dir = path, dir
	return nil
}

// Path returns the currently watched file.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("watch: file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	w.mu.Lock()
	current := w.path
	w.mu.Unlock()

	if current == "" || filepath.Clean(event.Name) != current {
		return
	}
	op := opName(event.Op)
	if op == "" {
		return
	}
	if w.onChange != nil {
		w.onChange(Change{Path: current, Op: op})
	}
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return "" // chmod only
	}
}
