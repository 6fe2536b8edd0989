// ABOUTME: Circuit configuration management with backend selection.
// ABOUTME: Handles data location, workout defaults, and storage/prefs factory functions.

package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/circuit/internal/charm"
	"github.com/harperreed/circuit/internal/models"
	"github.com/harperreed/circuit/internal/prefs"
	"github.com/harperreed/circuit/internal/storage"
)

// Prefs backends.
const (
	PrefsBadger = "badger"
	PrefsCharm  = "charm"
)

// Config stores circuit configuration.
type Config struct {
	// DataDir is the root directory for data storage. circuit.db and the
	// local prefs store live here. Supports ~ expansion. Defaults to
	// ~/.local/share/circuit.
	DataDir string `json:"data_dir,omitempty"`

	// PrefsBackend selects where streak and reminder settings live:
	// "badger" (default, on device) or "charm" (synced via Charm Cloud).
	PrefsBackend string `json:"prefs_backend,omitempty"`

	// CharmDB names the charm kv database. Defaults to "circuit".
	CharmDB string `json:"charm_db,omitempty"`

	// CharmAutoSync pushes each preference write to Charm Cloud as it
	// happens. Defaults to true; 'circuit sync now' syncs by hand.
	CharmAutoSync *bool `json:"charm_auto_sync,omitempty"`

	// Defaults applied to new workouts created from the CLI.
	DefaultRest     *int   `json:"default_rest,omitempty"`
	DefaultDuration int    `json:"default_duration,omitempty"`
	DefaultEmoji    string `json:"default_emoji,omitempty"`
}

// GetPrefsBackend returns the configured prefs backend, defaulting to "badger".
func (c *Config) GetPrefsBackend() string {
	if c.PrefsBackend == "" {
		return PrefsBadger
	}
	return c.PrefsBackend
}

// GetCharmAutoSync reports whether charm writes sync immediately.
func (c *Config) GetCharmAutoSync() bool {
	return c.CharmAutoSync == nil || *c.CharmAutoSync
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the SQLite database path inside the data directory.
func (c *Config) GetDBPath() string {
	return filepath.Join(c.GetDataDir(), "circuit.db")
}

// GetDefaultRest returns the rest between exercises for new workouts.
func (c *Config) GetDefaultRest() int {
	if c.DefaultRest == nil || *c.DefaultRest < 0 {
		return models.DefaultRest
	}
	return *c.DefaultRest
}

// GetDefaultDuration returns the per-exercise duration when none is given.
func (c *Config) GetDefaultDuration() int {
	if c.DefaultDuration <= 0 {
		return models.DefaultDuration
	}
	return c.DefaultDuration
}

// GetDefaultEmoji returns the emoji for new workouts.
func (c *Config) GetDefaultEmoji() string {
	if strings.TrimSpace(c.DefaultEmoji) == "" {
		return models.DefaultEmoji
	}
	return c.DefaultEmoji
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite repository. A non-empty dbPath overrides
// the data directory location.
func (c *Config) OpenStorage(dbPath string, log *slog.Logger) (storage.Repository, error) {
	if dbPath == "" {
		dbPath = c.GetDBPath()
	}
	db, err := storage.Open(ExpandPath(dbPath), storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return db, nil
}

// OpenPrefs opens the preference store for the configured backend.
func (c *Config) OpenPrefs() (prefs.Store, error) {
	switch backend := c.GetPrefsBackend(); backend {
	case PrefsBadger:
		store, err := prefs.OpenBadger(filepath.Join(c.GetDataDir(), "prefs"))
		if err != nil {
			return nil, err
		}
		return store, nil
	case PrefsCharm:
		return c.OpenCharm()
	default:
		return nil, fmt.Errorf("unknown prefs backend: %q", backend)
	}
}

// OpenCharm opens the configured charm kv database with the configured
// sync mode.
func (c *Config) OpenCharm() (*charm.Client, error) {
	client, err := charm.Open(c.CharmDB)
	if err != nil {
		return nil, err
	}
	client.SetAutoSync(c.GetCharmAutoSync())
	return client, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "circuit", "config.json")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path. A missing file yields an empty config.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
