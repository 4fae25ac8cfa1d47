// Package app provides shared application initialization logic used by both
// the server (browser/CLI) and desktop (Wails) entry points.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/ethcocoders/techtonicml-desktop/internal/appdir"
	"github.com/ethcocoders/techtonicml-desktop/internal/bridge"
	"github.com/ethcocoders/techtonicml-desktop/internal/config"
	"github.com/ethcocoders/techtonicml-desktop/internal/db"
	"github.com/ethcocoders/techtonicml-desktop/internal/dialog"
	"github.com/ethcocoders/techtonicml-desktop/internal/logging"
	"github.com/ethcocoders/techtonicml-desktop/internal/scheduler"
	"github.com/ethcocoders/techtonicml-desktop/internal/settings"
	"github.com/ethcocoders/techtonicml-desktop/internal/watch"
)

// HistoryFile is the recent-files database inside the app-data directory.
const HistoryFile = "history.db"

// Options contains options for creating the application host.
type Options struct {
	// Config overrides config.Load(). Mostly for tests.
	Config *config.Config

	// Version and Commit are injected at build time.
	Version string
	Commit  string

	// Dialogs is the file picker backend for this entry point.
	Dialogs dialog.Picker

	// Console receives log output in addition to the log file. Defaults to stderr.
	Console io.Writer
}

// Host wraps the bridge and the resources behind it.
type Host struct {
	Config    *config.Config
	DataDir   string
	Version   string
	Logger    *slog.Logger
	Settings  *settings.Store
	Database  *db.DB // nil when the history database failed to open
	Scheduler *scheduler.Scheduler
	Watcher   *watch.Watcher
	Bridge    *bridge.Bridge

	events    *emitterSwitch
	logCloser io.Closer
}

// Create initializes all application components and returns a Host.
// Call Host.Cleanup() when done to release resources. Only a missing app-data
// directory is fatal; history and the file watcher degrade to disabled.
func Create(opts Options) (*Host, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Load()
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		var err error
		if dataDir, err = appdir.Default(); err != nil {
			return nil, err
		}
	}
	if err := appdir.Ensure(dataDir); err != nil {
		return nil, err
	}

	logger, logCloser := logging.Setup(logging.Options{
		Dir:     filepath.Join(dataDir, "logs"),
		Format:  cfg.LogFormat,
		Debug:   cfg.Debug,
		Console: opts.Console,
	})

	version := VersionString(opts.Version, opts.Commit)
	logger.Info("starting",
		"app", config.AppName,
		"version", version,
		"data_dir", dataDir,
		"website", cfg.WebsiteURL,
		"debug", cfg.Debug)

	store, err := settings.Open(dataDir)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	h := &Host{
		Config:    cfg,
		DataDir:   dataDir,
		Version:   version,
		Logger:    logger,
		Settings:  store,
		events:    &emitterSwitch{},
		logCloser: logCloser,
	}

	bridgeOpts := bridge.Options{
		Settings:   store,
		AppDataDir: dataDir,
		Version:    version,
		Dialogs:    opts.Dialogs,
		Events:     h.events,
	}

	database, err := db.Open(filepath.Join(dataDir, HistoryFile))
	if err != nil {
		logger.Warn("recent-files history disabled", "error", err)
	} else {
		h.Database = database
		bridgeOpts.History = database

		sched, err := scheduler.New(database, cfg.HistoryRetentionDays, cfg.HistorySchedule)
		if err != nil {
			logger.Warn("history pruning disabled", "schedule", cfg.HistorySchedule, "error", err)
		} else {
			h.Scheduler = sched
			sched.Start()
		}
	}

	watcher, err := watch.New(func(c watch.Change) {
		h.events.Emit(bridge.EventFileChanged, c)
	})
	if err != nil {
		logger.Warn("file watching disabled", "error", err)
	} else {
		h.Watcher = watcher
		bridgeOpts.Watcher = watcher
	}

	h.Bridge = bridge.New(bridgeOpts)
	return h, nil
}

// SetEmitter directs bridge events to e. Entry points call it once their event
// transport is up; events emitted before that are dropped.
func (h *Host) SetEmitter(e bridge.Emitter) {
	h.events.set(e)
}

// Cleanup releases all resources held by the host.
func (h *Host) Cleanup() {
	if h.Watcher != nil {
		if err := h.Watcher.Close(); err != nil {
			h.Logger.Warn("failed to close file watcher", "error", err)
		}
	}
	if h.Scheduler != nil {
		h.Scheduler.Stop()
	}
	if h.Database != nil {
		h.Database.Close()
	}
	h.Logger.Info("shutdown complete")
	if h.logCloser != nil {
		h.logCloser.Close()
	}
}

// emitterSwitch forwards to an emitter installed after construction.
type emitterSwitch struct {
	mu sync.RWMutex
	e  bridge.Emitter
}

func (s *emitterSwitch) set(e bridge.Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.e = e
}

func (s *emitterSwitch) Emit(event string, payload any) {
	s.mu.RLock()
	e := s.e
	s.mu.RUnlock()
	if e == nil {
		slog.Debug("event dropped, no listener", "event", event)
		return
	}
	e.Emit(event, payload)
}

var _ bridge.Emitter = (*emitterSwitch)(nil)

// Title is the application name and version, for window titles and banners.
func (h *Host) Title() string {
	return fmt.Sprintf("%s %s", config.AppName, h.Version)
}
