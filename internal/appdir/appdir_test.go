package appdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func home(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func TestRoot(t *testing.T) {
	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{"windows uses APPDATA", "windows", map[string]string{"APPDATA": "/roaming"}, filepath.Join("/roaming", "TechTonicmlDeckapp")},
		{"windows without APPDATA", "windows", nil, filepath.Join("/home/u", "AppData", "Roaming", "TechTonicmlDeckapp")},
		{"windows with empty APPDATA", "windows", map[string]string{"APPDATA": ""}, filepath.Join("/home/u", "AppData", "Roaming", "TechTonicmlDeckapp")},
		{"darwin", "darwin", map[string]string{"APPDATA": "/ignored"}, filepath.Join("/home/u", "Library", "Application Support", "TechTonicmlDeckapp")},
		{"linux", "linux", nil, filepath.Join("/home/u", ".config", "TechTonicmlDeckapp")},
		{"freebsd falls through to .config", "freebsd", nil, filepath.Join("/home/u", ".config", "TechTonicmlDeckapp")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Root(tt.goos, env(tt.env), home("/home/u"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootHomeErrors(t *testing.T) {
	_, err := Root("linux", env(nil), func() (string, error) { return "", errors.New("no home") })
	assert.ErrorContains(t, err, "no home")

	_, err = Root("darwin", env(nil), home(""))
	assert.Error(t, err)

	// APPDATA short-circuits the home lookup on Windows.
	got, err := Root("windows", env(map[string]string{"APPDATA": "/r"}), func() (string, error) {
		return "", errors.New("should not be called")
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/r", "TechTonicmlDeckapp"), got)
}

func TestEnsure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, Ensure(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	require.NoError(t, Ensure(dir))
}
