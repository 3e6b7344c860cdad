package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration, shared by the host daemon and
// the client.
type Config struct {
	// Data directory; resolved to ~/.tor-calculator when empty.
	DataDir string `env:"TORCALC_DATA_DIR" envDefault:""`

	// Bridge
	BridgeSocket  string        `env:"TORCALC_BRIDGE_SOCKET"  envDefault:""`
	BridgeTimeout time.Duration `env:"TORCALC_BRIDGE_TIMEOUT" envDefault:"30s"`
	WatchInterval time.Duration `env:"TORCALC_WATCH_INTERVAL" envDefault:"500ms"`

	// Logging
	LogLevel  string `env:"TORCALC_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"TORCALC_LOG_FORMAT" envDefault:"console"`

	// Authentication (test accounts only, not a security mechanism)
	UseTestAuth bool   `env:"TORCALC_USE_TEST_AUTH" envDefault:"false"`
	AuthSalt    string `env:"TORCALC_AUTH_SALT"     envDefault:"torcalc"`
}

// Load loads configuration from environment variables and resolves derived
// paths. The data directory is created if it does not exist.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".tor-calculator")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory %s: %w", cfg.DataDir, err)
	}

	if cfg.BridgeSocket == "" {
		cfg.BridgeSocket = filepath.Join(cfg.DataDir, "bridge.sock")
	}

	return cfg, nil
}

// DBPath is the host sqlite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "torcalc.db")
}

// LocalStorePath is the client-side durable ledger record used when no
// bridge is available.
func (c *Config) LocalStorePath() string {
	return filepath.Join(c.DataDir, "local-ledger.json")
}

// ExportDir is where export and backup files are written.
func (c *Config) ExportDir() string {
	return filepath.Join(c.DataDir, "exports")
}
