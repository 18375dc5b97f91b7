package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

const (
	// FilePermissions is the default permission mode for regular files
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0755

	// DefaultServerURL is used when no server is configured anywhere
	DefaultServerURL = "http://localhost:8000"

	// APIBasePath is prefixed to every backend endpoint
	APIBasePath = "/webapp/api"
)

var (
	// ConfigDir is the global configuration directory (~/.lancecli)
	ConfigDir string

	// SettingsFile is the optional JSONC settings file
	SettingsFile string

	// DatabasePath is the SQLite database file for the activity log
	DatabasePath string

	// LogFile is where the zap logger writes (the TUI owns stdout)
	LogFile string
)

// Settings holds the values read from the settings file. Comments and
// trailing commas are allowed; the file is JSONC.
type Settings struct {
	ServerURL string `json:"server_url"`
	UserID    int64  `json:"user_id"`
}

// Initialize sets up the configuration directory and loads .env if present.
func Initialize() error {
	_ = godotenv.Load()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".lancecli")
	SettingsFile = filepath.Join(ConfigDir, "settings.jsonc")
	DatabasePath = filepath.Join(ConfigDir, "lancecli.db")
	LogFile = filepath.Join(ConfigDir, "lancecli.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create a commented settings skeleton on first run
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		skeleton := []byte("{\n  // Backend base URL\n  \"server_url\": \"\",\n  // Telegram user id (0 = not set)\n  \"user_id\": 0\n}\n")
		if err := os.WriteFile(SettingsFile, skeleton, FilePermissions); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// LoadSettings reads the settings file. A missing or malformed file yields
// zero settings, not an error; the resolution chain falls through.
func LoadSettings() Settings {
	var s Settings
	data, err := os.ReadFile(SettingsFile)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
		return Settings{}
	}
	return s
}

// ResolveServerURL picks the backend base URL: flag > LANCECLI_SERVER env >
// settings file > default.
func ResolveServerURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("LANCECLI_SERVER"); env != "" {
		return env
	}
	if s := LoadSettings(); s.ServerURL != "" {
		return s.ServerURL
	}
	return DefaultServerURL
}

// ResolveUserID picks the user identity: flag > LANCECLI_USER_ID env >
// settings file > 0. Zero means "no identity"; data loads silently no-op.
func ResolveUserID(flagValue int64) int64 {
	if flagValue != 0 {
		return flagValue
	}
	if env := os.Getenv("LANCECLI_USER_ID"); env != "" {
		if id, err := strconv.ParseInt(env, 10, 64); err == nil && id != 0 {
			return id
		}
	}
	if s := LoadSettings(); s.UserID != 0 {
		return s.UserID
	}
	return 0
}
