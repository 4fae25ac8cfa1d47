// Package settings persists the page's flat key/value settings as JSON.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethcocoders/techtonicml-desktop/internal/appdir"
)

// FileName is the settings file inside the app-data directory.
const FileName = "settings.json"

// Defaults returns a fresh copy of the default settings.
func Defaults() map[string]any {
	return map[string]any{
		"theme":     "light",
		"language":  "en",
		"auto_save": false,
	}
}

// Store reads and writes settings.json. Saves overwrite the whole file.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open creates dir if needed and returns a store bound to dir/settings.json.
func Open(dir string) (*Store, error) {
	if err := appdir.Ensure(dir); err != nil {
		return nil, err
	}
	return &Store{path: filepath.Join(dir, FileName)}, nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored settings, or the defaults when the file doesn't exist.
// The defaults are not written to disk.
func (s *Store) Load() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings == nil {
		// File contained JSON null
		settings = map[string]any{}
	}
	return settings, nil
}

// Save overwrites the settings file with settings as indented JSON.
func (s *Store) Save(settings map[string]any) error {
	if settings == nil {
		settings = map[string]any{}
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// decode parses a settings object, keeping numbers as json.Number so values
// such as large integer IDs are written back exactly as they were read.
func decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var settings map[string]any
	if err := dec.Decode(&settings); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after settings object")
	}
	return settings, nil
}
