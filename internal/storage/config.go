package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacksmith/snip/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .snip/).
	userConfigFile = ".snipconfig.yaml"

	// Backend names accepted in the backend setting.
	BackendFile   = "file"
	BackendRemote = "remote"

	// Default configuration values
	DefaultBackend       = BackendFile
	DefaultRecordKey     = model.DefaultRecordKey
	DefaultSyncURL       = "http://127.0.0.1:8787"
	DefaultListen        = ":8787"
	DefaultLogLevel      = "warn"
	DefaultNotifySeconds = 3

	// Environment overrides.
	EnvSyncURL  = "SNIP_SYNC_URL"
	EnvLogLevel = "SNIP_LOG_LEVEL"
)

// Config represents user configuration from .snipconfig.yaml.
// This file is user-managed and never written by snip.
type Config struct {
	// Backend selects where the record lives: "file" or "remote".
	Backend string `yaml:"backend"`

	// RecordKey names the record holding the saved items.
	RecordKey string `yaml:"record_key"`

	// SyncURL is the base URL of the sync server for the remote backend.
	SyncURL string `yaml:"sync_url"`

	// Listen is the address `snip serve` binds to.
	Listen string `yaml:"listen"`

	// LogLevel is the zap level for diagnostics (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// NotifySeconds is how long popup notifications stay visible.
	NotifySeconds int `yaml:"notify_seconds"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend:       DefaultBackend,
		RecordKey:     DefaultRecordKey,
		SyncURL:       DefaultSyncURL,
		Listen:        DefaultListen,
		LogLevel:      DefaultLogLevel,
		NotifySeconds: DefaultNotifySeconds,
	}
}

// LoadConfig loads .snipconfig.yaml if it exists, otherwise returns defaults.
// The config file is a sibling to .snip/ (in the same directory).
// Partial config files are merged with defaults, then environment
// overrides are applied.
func (s *Storage) LoadConfig() (*Config, error) {
	return LoadConfigFile(s.ConfigPath())
}

// LoadConfigFile loads the config at path the same way LoadConfig does.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if v := os.Getenv(EnvSyncURL); v != "" {
		cfg.SyncURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendRemote:
	default:
		return fmt.Errorf("invalid backend %q in %s (expected %q or %q)", c.Backend, userConfigFile, BackendFile, BackendRemote)
	}
	if err := ValidateKey(c.RecordKey); err != nil {
		return fmt.Errorf("invalid record_key in %s: %w", userConfigFile, err)
	}
	if c.NotifySeconds <= 0 {
		c.NotifySeconds = DefaultNotifySeconds
	}
	return nil
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.root, userConfigFile)
}
