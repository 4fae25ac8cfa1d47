// Package logging configures the process-wide slog logger. Output goes to
// stderr and to a size-rotated file in the app-data directory.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file inside the logs directory.
const FileName = "deckapp.log"

// Options configure Setup.
type Options struct {
	// Dir receives FileName. Empty disables the file sink.
	Dir string
	// Format is "json" or "text".
	Format string
	Debug  bool
	// Console defaults to os.Stderr.
	Console io.Writer
}

// Setup builds a logger from opts and installs it as the slog default, which
// also routes the standard log package through it. Close the returned closer
// on shutdown to flush the log file.
func Setup(opts Options) (*slog.Logger, io.Closer) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var (
		w      io.Writer = console
		closer io.Closer = nopCloser{}
	)
	if opts.Dir != "" {
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName),
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = io.MultiWriter(console, rotator)
		closer = rotator
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
