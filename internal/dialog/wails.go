package dialog

import (
	"context"
	"errors"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ErrNoWindow is returned when a picker is requested before the window exists.
var ErrNoWindow = errors.New("window is not ready")

// Wails shows pickers through the Wails runtime. SetContext must be called
// from the app's startup hook before any picker is shown.
type Wails struct {
	mu  sync.RWMutex
	ctx context.Context
}

// SetContext binds the picker to the running Wails application.
func (w *Wails) SetContext(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
}

func (w *Wails) context() (context.Context, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.ctx == nil {
		return nil, ErrNoWindow
	}
	return w.ctx, nil
}

// OpenFile shows the native open dialog.
func (w *Wails) OpenFile(opts Options) (string, error) {
	ctx, err := w.context()
	if err != nil {
		return "", err
	}
	return runtime.OpenFileDialog(ctx, runtime.OpenDialogOptions{
		Title:           opts.Title,
		DefaultFilename: opts.DefaultFilename,
		Filters:         wailsFilters(opts.Filters),
	})
}

// SaveFile shows the native save dialog.
func (w *Wails) SaveFile(opts Options) (string, error) {
	ctx, err := w.context()
	if err != nil {
		return "", err
	}
	return runtime.SaveFileDialog(ctx, runtime.SaveDialogOptions{
		Title:                opts.Title,
		DefaultFilename:      opts.DefaultFilename,
		Filters:              wailsFilters(opts.Filters),
		CanCreateDirectories: true,
	})
}

func wailsFilters(filters []Filter) []runtime.FileFilter {
	out := make([]runtime.FileFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, runtime.FileFilter{DisplayName: f.DisplayName, Pattern: f.Pattern})
	}
	return out
}
