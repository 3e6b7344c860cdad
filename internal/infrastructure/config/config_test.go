package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("TORCALC_DATA_DIR", dataDir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.DirExists(t, dataDir, "data directory is created on load")
	assert.Equal(t, filepath.Join(dataDir, "bridge.sock"), cfg.BridgeSocket)
	assert.Equal(t, 30*time.Second, cfg.BridgeTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.False(t, cfg.UseTestAuth)
	assert.Equal(t, "torcalc", cfg.AuthSalt)
}

func TestLoadOverrides(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("TORCALC_DATA_DIR", dataDir)
	t.Setenv("TORCALC_BRIDGE_SOCKET", "/tmp/custom.sock")
	t.Setenv("TORCALC_BRIDGE_TIMEOUT", "5s")
	t.Setenv("TORCALC_WATCH_INTERVAL", "50ms")
	t.Setenv("TORCALC_LOG_LEVEL", "debug")
	t.Setenv("TORCALC_USE_TEST_AUTH", "true")
	t.Setenv("TORCALC_AUTH_SALT", "pepper")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.sock", cfg.BridgeSocket)
	assert.Equal(t, 5*time.Second, cfg.BridgeTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.WatchInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.UseTestAuth)
	assert.Equal(t, "pepper", cfg.AuthSalt)
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{DataDir: "/home/u/.tor-calculator"}

	assert.Equal(t, "/home/u/.tor-calculator/torcalc.db", cfg.DBPath())
	assert.Equal(t, "/home/u/.tor-calculator/local-ledger.json", cfg.LocalStorePath())
	assert.Equal(t, "/home/u/.tor-calculator/exports", cfg.ExportDir())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TORCALC_DATA_DIR", t.TempDir())
	t.Setenv("TORCALC_BRIDGE_TIMEOUT", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
