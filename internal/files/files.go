// Package files reads and writes the text documents the page edits.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ErrEmptyPath is returned when no path was given.
var ErrEmptyPath = errors.New("file path is empty")

// Read returns the full UTF-8 contents of path and its base name.
func Read(path string) (content, filename string, err error) {
	if path == "" {
		return "", "", ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	if !utf8.Valid(data) {
		return "", "", fmt.Errorf("%s: file is not valid UTF-8 text", path)
	}
	return string(data), filepath.Base(path), nil
}

// Write replaces the contents of path with content and returns its base name.
func Write(path, content string) (filename string, err error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return filepath.Base(path), nil
}
