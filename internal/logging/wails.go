package logging

import (
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Wails adapts an slog logger to the desktop runtime's logger interface so
// runtime messages land in the same sinks as ours.
type Wails struct {
	l *slog.Logger
}

var _ logger.Logger = (*Wails)(nil)

// NewWails wraps l; nil uses the slog default.
func NewWails(l *slog.Logger) *Wails {
	if l == nil {
		l = slog.Default()
	}
	return &Wails{l: l.With("component", "wails")}
}

func (w *Wails) Print(message string)   { w.l.Info(message) }
func (w *Wails) Trace(message string)   { w.l.Debug(message) }
func (w *Wails) Debug(message string)   { w.l.Debug(message) }
func (w *Wails) Info(message string)    { w.l.Info(message) }
func (w *Wails) Warning(message string) { w.l.Warn(message) }
func (w *Wails) Error(message string)   { w.l.Error(message) }

func (w *Wails) Fatal(message string) {
	w.l.Error(message, "fatal", true)
	os.Exit(1)
}
