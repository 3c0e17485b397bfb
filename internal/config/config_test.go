package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "q", cfg.KeyMappings.Quit)
	assert.Equal(t, "H", cfg.KeyMappings.MoveColumnLeft)
	assert.Equal(t, 1, cfg.Cache.Retries())
	assert.Equal(t, time.Minute, cfg.Cache.StaleAfter.Std())
	assert.Equal(t, 100*time.Millisecond, cfg.Daemon.Debounce())
	assert.Equal(t, int64(2<<20), cfg.Storage.MaxUploadSize)
	assert.Equal(t, "default", cfg.Theme.Preset)
}

func TestLoadConfigWithFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "workboard")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	content := `database_path: /tmp/board.db
api:
  listen: 0.0.0.0:9000
  allowed_origins: ["https://board.example.com"]
cache:
  workspace_retry: 0
  stale_after: 10s
key_mappings:
  quit: "x"
theme:
  preset: monochrome
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/board.db", cfg.DatabasePath)
	assert.Equal(t, "http://0.0.0.0:9000", cfg.API.BaseURL)
	assert.Equal(t, []string{"https://board.example.com"}, cfg.API.AllowedOrigins)
	assert.Equal(t, 0, cfg.Cache.Retries(), "explicit zero retry must be kept")
	assert.Equal(t, 10*time.Second, cfg.Cache.StaleAfter.Std())
	assert.Equal(t, "x", cfg.KeyMappings.Quit)
	assert.Equal(t, "a", cfg.KeyMappings.AddTask, "unset keys fall back to defaults")
	assert.Equal(t, "#FFFFFF", cfg.Theme.Accent)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WORKBOARD_DB", "/data/wb.db")
	t.Setenv("WORKBOARD_API_URL", "https://api.example.com")
	t.Setenv("WORKBOARD_TOKEN", "tok")
	t.Setenv("WORKBOARD_JWT_SECRET", "secret")
	t.Setenv("WORKBOARD_EVENT_DEBOUNCE_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/wb.db", cfg.DatabasePath)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, "secret", cfg.API.JWTSecret)
	assert.Equal(t, 250*time.Millisecond, cfg.Daemon.Debounce())
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache: [unclosed"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.API.Token = "abc"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.API.Token)
	assert.Equal(t, cfg.Cache.StaleAfter, loaded.Cache.StaleAfter)
}
