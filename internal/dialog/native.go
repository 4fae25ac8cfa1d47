package dialog

import (
	"errors"

	sqdialog "github.com/sqweek/dialog"
)

// Native shows pickers with the platform toolkit directly, for use outside
// a Wails window.
type Native struct{}

// OpenFile shows the native open dialog.
func (Native) OpenFile(opts Options) (string, error) {
	path, err := nativeBuilder(opts).Load()
	return cancelled(path, err)
}

// SaveFile shows the native save dialog.
func (Native) SaveFile(opts Options) (string, error) {
	path, err := nativeBuilder(opts).Save()
	return cancelled(path, err)
}

func nativeBuilder(opts Options) *sqdialog.FileBuilder {
	b := sqdialog.File()
	if opts.Title != "" {
		b = b.Title(opts.Title)
	}
	if opts.DefaultFilename != "" {
		b = b.SetStartFile(opts.DefaultFilename)
	}
	for _, f := range opts.Filters {
		b = b.Filter(f.DisplayName, extensions(f.Pattern)...)
	}
	return b
}

func cancelled(path string, err error) (string, error) {
	if errors.Is(err, sqdialog.ErrCancelled) {
		return "", nil
	}
	return path, err
}
