package files

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// revealCommand builds the command that shows path in the system file manager.
func revealCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", "-R", path) // -R reveals in Finder
	case "windows":
		return exec.Command("explorer", "/select,", path)
	default: // Linux: no portable "select", so open the containing directory
		return exec.Command("xdg-open", filepath.Dir(path))
	}
}

// Reveal opens the system file manager at path. It doesn't wait for the
// file manager to exit.
func Reveal(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if err := revealCommand(runtime.GOOS, path).Start(); err != nil {
		return fmt.Errorf("failed to open file manager: %w", err)
	}
	return nil
}
