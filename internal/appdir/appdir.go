// Package appdir resolves the per-OS application data directory.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"

	"github.com/ethcocoders/techtonicml-desktop/internal/config"
)

// Root returns the application data directory for the given OS.
//
//	windows: %APPDATA%\<app>, falling back to <home>\AppData\Roaming\<app>
//	darwin:  ~/Library/Application Support/<app>
//	other:   ~/.config/<app>
func Root(goos string, lookupEnv func(string) (string, bool), homeDir func() (string, error)) (string, error) {
	if goos == "windows" {
		if appData, ok := lookupEnv("APPDATA"); ok && appData != "" {
			return filepath.Join(appData, config.DataDirName), nil
		}
	}

	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if home == "" {
		return "", fmt.Errorf("home directory is empty")
	}

	var base string
	switch goos {
	case "windows":
		base = filepath.Join(home, "AppData", "Roaming")
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, config.DataDirName), nil
}

// Default resolves the directory for the running OS.
func Default() (string, error) {
	return Root(runtime.GOOS, os.LookupEnv, homedir.Dir)
}

// Ensure creates dir (and parents) if it doesn't exist.
func Ensure(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
