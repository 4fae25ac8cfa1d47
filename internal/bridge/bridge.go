// Package bridge is the host API the embedded page calls by name. Every
// operation returns a Result envelope; nothing crosses to the page as a
// panic or a bare error.
package bridge

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/ethcocoders/techtonicml-desktop/internal/config"
	"github.com/ethcocoders/techtonicml-desktop/internal/db"
	"github.com/ethcocoders/techtonicml-desktop/internal/dialog"
	"github.com/ethcocoders/techtonicml-desktop/internal/files"
	"github.com/ethcocoders/techtonicml-desktop/internal/settings"
	"github.com/ethcocoders/techtonicml-desktop/internal/sysinfo"
	"github.com/ethcocoders/techtonicml-desktop/internal/textops"
)

// DefaultSaveName prefills the save dialog when the page gives no name.
const DefaultSaveName = "untitled.txt"

// Event names emitted to the page.
const (
	EventNotification = "notification"
	EventFileChanged  = "file:changed"
)

// Emitter delivers events to the page.
type Emitter interface {
	Emit(event string, payload any)
}

// FileHistory records files the page read or wrote.
type FileHistory interface {
	RecordFile(path, filename string, action db.FileAction, at time.Time) error
	ListRecentFiles(limit int) ([]*db.RecentFile, error)
}

// FileWatcher follows the current file on disk.
type FileWatcher interface {
	Watch(path string) error
}

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Options wires a Bridge to its collaborators. Settings is required; the
// rest are optional and fall back to working defaults or no-ops.
type Options struct {
	Settings   *settings.Store
	AppDataDir string
	Version    string

	Dialogs   dialog.Picker
	History   FileHistory
	Watcher   FileWatcher
	Events    Emitter
	Clipboard Clipboard

	OpenURL func(string) error
	Reveal  func(string) error
	Getwd   func() (string, error)
	Now     func() time.Time
}

// AppInfo is the static application metadata.
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// Welcome is the home page banner.
type Welcome struct {
	Message    string `json:"message"`
	Version    string `json:"version"`
	WorkingDir string `json:"working_dir"`
}

// Notification is the payload of EventNotification.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Bridge implements the host operations exposed to the page.
type Bridge struct {
	opts     Options
	registry *Registry

	mu          sync.Mutex
	currentFile string
}

// New builds a Bridge and its method registry.
func New(opts Options) *Bridge {
	if opts.Version == "" {
		opts.Version = config.AppVersion
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.OpenURL == nil {
		opts.OpenURL = browser.OpenURL
	}
	if opts.Reveal == nil {
		opts.Reveal = files.Reveal
	}
	if opts.Getwd == nil {
		opts.Getwd = os.Getwd
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	b := &Bridge{opts: opts, registry: NewRegistry()}
	b.registry.MustRegister(b.methods()...)
	return b
}

// Registry returns the table of page-callable methods.
func (b *Bridge) Registry() *Registry {
	return b.registry
}

// ==================== File Operations ====================

// OpenFileDialog asks the user for a file to open. A cancelled or failed
// dialog yields a successful result with nil data.
func (b *Bridge) OpenFileDialog() Result {
	if b.opts.Dialogs == nil {
		slog.Warn("bridge: no dialog backend configured")
		return OK(nil)
	}
	path, err := b.opts.Dialogs.OpenFile(dialog.Options{
		Title:   "Open File",
		Filters: dialog.TextFilters,
	})
	return dialogResult("open", path, err)
}

// SaveFileDialog asks the user where to save, prefilled with defaultName.
func (b *Bridge) SaveFileDialog(defaultName string) Result {
	if defaultName == "" {
		defaultName = DefaultSaveName
	}
	if b.opts.Dialogs == nil {
		slog.Warn("bridge: no dialog backend configured")
		return OK(nil)
	}
	path, err := b.opts.Dialogs.SaveFile(dialog.Options{
		Title:           "Save File",
		DefaultFilename: defaultName,
		Filters:         dialog.TextFilters,
	})
	return dialogResult("save", path, err)
}

func dialogResult(kind, path string, err error) Result {
	if err != nil {
		slog.Warn("bridge: file dialog failed", "dialog", kind, "error", err)
		return OK(nil)
	}
	if path == "" {
		return OK(nil)
	}
	return OK(path)
}

// ReadFile returns the text of path and makes it the current file.
func (b *Bridge) ReadFile(path string) Result {
	content, name, err := files.Read(path)
	if err != nil {
		return Fail(err)
	}
	b.setCurrentFile(path, name, db.FileActionRead)
	return OK(content).With("filename", name)
}

// WriteFile replaces the contents of path and makes it the current file.
func (b *Bridge) WriteFile(path, content string) Result {
	// Stop watching while writing so the page isn't told about its own save.
	b.watch("")
	name, err := files.Write(path, content)
	if err != nil {
		b.watch(b.CurrentFile())
		return Fail(err)
	}
	b.setCurrentFile(path, name, db.FileActionWrite)
	return Done().With("filename", name)
}

// CurrentFile returns the most recently read or written path, or "".
func (b *Bridge) CurrentFile() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentFile
}

func (b *Bridge) setCurrentFile(path, name string, action db.FileAction) {
	b.mu.Lock()
	b.currentFile = path
	b.mu.Unlock()

	if b.opts.History != nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if err := b.opts.History.RecordFile(abs, name, action, b.opts.Now()); err != nil {
			slog.Warn("bridge: failed to record recent file", "path", path, "error", err)
		}
	}
	b.watch(path)
}

func (b *Bridge) watch(path string) {
	if b.opts.Watcher == nil {
		return
	}
	if err := b.opts.Watcher.Watch(path); err != nil {
		slog.Warn("bridge: failed to watch file", "path", path, "error", err)
	}
}

// RecentFiles lists up to limit recently used files, newest first.
func (b *Bridge) RecentFiles(limit int) Result {
	if limit <= 0 {
		limit = 10
	}
	limit = min(limit, 100)
	if b.opts.History == nil {
		return OK([]*db.RecentFile{})
	}
	recent, err := b.opts.History.ListRecentFiles(limit)
	if err != nil {
		return Fail(fmt.Errorf("failed to list recent files: %w", err))
	}
	return OK(recent)
}

// RevealInFileManager shows path in the system file manager.
func (b *Bridge) RevealInFileManager(path string) Result {
	if err := b.opts.Reveal(path); err != nil {
		return Fail(err)
	}
	return Done()
}

// ==================== Settings Management ====================

// SaveSettings overwrites the stored settings with s.
func (b *Bridge) SaveSettings(s map[string]any) Result {
	if err := b.opts.Settings.Save(s); err != nil {
		return Fail(err)
	}
	return Done()
}

// LoadSettings returns the stored settings, or the defaults.
func (b *Bridge) LoadSettings() Result {
	s, err := b.opts.Settings.Load()
	if err != nil {
		return Fail(err)
	}
	return OK(s)
}

// ==================== System Operations ====================

// GetSystemInfo describes the host.
func (b *Bridge) GetSystemInfo() Result {
	return OK(sysinfo.Collect(b.opts.AppDataDir))
}

// ShowNotification logs the notification and forwards it to the page as an
// event; no OS notification is raised.
func (b *Bridge) ShowNotification(title, message string) Result {
	slog.Info("notification", "title", title, "message", message)
	if b.opts.Events != nil {
		b.opts.Events.Emit(EventNotification, Notification{Title: title, Message: message})
	}
	return Done()
}

// CopyToClipboard places text on the system clipboard.
func (b *Bridge) CopyToClipboard(text string) Result {
	if err := b.opts.Clipboard.WriteAll(text); err != nil {
		return Fail(fmt.Errorf("failed to write clipboard: %w", err))
	}
	return Done()
}

// ReadClipboard returns the clipboard text.
func (b *Bridge) ReadClipboard() Result {
	text, err := b.opts.Clipboard.ReadAll()
	if err != nil {
		return Fail(fmt.Errorf("failed to read clipboard: %w", err))
	}
	return OK(text)
}

// OpenExternal opens an http(s) URL in the default browser.
func (b *Bridge) OpenExternal(rawURL string) Result {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Fail(err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Failf("only http and https URLs can be opened, got %q", rawURL)
	}
	if err := b.opts.OpenURL(u.String()); err != nil {
		return Fail(fmt.Errorf("failed to open browser: %w", err))
	}
	return Done()
}

// ==================== Application Data ====================

// GetAppInfo returns the application metadata.
func (b *Bridge) GetAppInfo() Result {
	return OK(AppInfo{
		Name:        config.AppName,
		Version:     b.opts.Version,
		Author:      config.AppAuthor,
		Description: config.AppDescription,
	})
}

// GetWelcomeMessage returns the home page greeting.
func (b *Bridge) GetWelcomeMessage() Result {
	wd, err := b.opts.Getwd()
	if err != nil {
		return Fail(fmt.Errorf("failed to get working directory: %w", err))
	}
	return OK(Welcome{
		Message:    fmt.Sprintf("Welcome to %s!", config.AppName),
		Version:    b.opts.Version,
		WorkingDir: filepath.ToSlash(wd),
	})
}

// ProcessText applies a text operation; see package textops.
func (b *Bridge) ProcessText(text, operation string) Result {
	out, err := textops.Apply(text, operation)
	if err != nil {
		return Fail(err)
	}
	return OK(out).With("operation", operation)
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }
