package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
)

// Application metadata shown by the about page and the welcome banner.
const (
	AppName        = "Tech-Tonicml Platform"
	AppVersion     = "1.0.0"
	AppAuthor      = "Natnael Ermiyas - Ethco Coders"
	AppDescription = "Desktop app for Tech-Tonicml ML Course Platform"

	// DataDirName is the per-application directory under the OS app-data root.
	DataDirName = "TechTonicmlDeckapp"
)

// Config holds all application configuration
type Config struct {
	Debug      bool
	WebsiteURL string
	SplashMS   int
	DataDir    string // Empty means resolve per OS
	LogFormat  string // "text" or "json"
	Port       int    // Server mode only

	HistoryRetentionDays int
	HistorySchedule      string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first; variables already
// present in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Debug:                getEnvBool("DEBUG", false),
		WebsiteURL:           getEnv("DECKAPP_WEBSITE_URL", "https://tech-tonicml.gt.tc"),
		SplashMS:             getEnvInt("DECKAPP_SPLASH_MS", 3000),
		DataDir:              ExpandPath(getEnv("DECKAPP_DATA_DIR", "")),
		LogFormat:            strings.ToLower(getEnv("DECKAPP_LOG_FORMAT", "text")),
		Port:                 getEnvInt("DECKAPP_PORT", 8080),
		HistoryRetentionDays: getEnvInt("DECKAPP_HISTORY_RETENTION_DAYS", 30),
		HistorySchedule:      getEnv("DECKAPP_HISTORY_SCHEDULE", "@daily"),
	}

	if cfg.SplashMS < 0 {
		cfg.SplashMS = 0
	}
	if cfg.HistoryRetentionDays < 1 {
		cfg.HistoryRetentionDays = 30
	}
	if cfg.LogFormat != "json" {
		cfg.LogFormat = "text"
	}

	return cfg
}

// ExpandPath expands a leading ~ to the user's home directory and cleans the path.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}
	return filepath.Clean(path)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvBool treats only a case-insensitive "true" as enabled.
func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return strings.EqualFold(strings.TrimSpace(val), "true")
}
