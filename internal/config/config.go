// Package config loads the workboard YAML configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DatabasePath string        `yaml:"database_path"`
	SocketPath   string        `yaml:"socket_path"`
	API          APIConfig     `yaml:"api"`
	Storage      StorageConfig `yaml:"storage"`
	Cache        CacheConfig   `yaml:"cache"`
	Daemon       DaemonConfig  `yaml:"daemon"`
	KeyMappings  KeyMappings   `yaml:"key_mappings"`
	Theme        Theme         `yaml:"theme"`
}

// APIConfig covers both sides of the HTTP API: the server (listen address,
// signing secret, CORS origins) and the client (base URL, bearer token).
type APIConfig struct {
	Listen         string   `yaml:"listen"`
	BaseURL        string   `yaml:"base_url"`
	Token          string   `yaml:"token"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TokenTTL       Duration `yaml:"token_ttl"`
}

// StorageConfig locates the public avatar bucket
type StorageConfig struct {
	Dir           string `yaml:"dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

// CacheConfig tunes the client-side query cache
type CacheConfig struct {
	// WorkspaceRetry is how many times the initial workspace list fetch is
	// retried. A nil value means "use the default of 1".
	WorkspaceRetry *int     `yaml:"workspace_retry"`
	StaleAfter     Duration `yaml:"stale_after"`
}

// DaemonConfig tunes the change-event daemon and its clients
type DaemonConfig struct {
	DebounceMS      int `yaml:"debounce_ms"`
	BroadcastBuffer int `yaml:"broadcast_buffer"`
	ClientBuffer    int `yaml:"client_buffer"`
}

// Duration is a time.Duration that reads "30s" style strings from YAML
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads config from the user's config directory.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		c := Default()
		c.applyEnv()
		return c, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads the config at path, falling back to defaults when the file
// does not exist. Environment overrides are applied last.
func LoadFile(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	config.applyDefaults()
	config.applyEnv()

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// The file can hold a token and a signing secret
	return os.WriteFile(configPath, data, 0o600)
}

// Path returns the path to the config file
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "workboard", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "workboard", "config.yaml"), nil
}

// DataDir returns ~/.workboard, where the database, socket and logs live
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".workboard"
	}
	return filepath.Join(home, ".workboard")
}

// Retries returns the configured retry count for the workspace list
func (c CacheConfig) Retries() int {
	if c.WorkspaceRetry == nil {
		return 1
	}
	return *c.WorkspaceRetry
}

// Debounce returns the event batching window
func (d DaemonConfig) Debounce() time.Duration {
	return time.Duration(d.DebounceMS) * time.Millisecond
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	dataDir := DataDir()

	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(dataDir, "workboard.db")
	}
	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(dataDir, "workboard.sock")
	}
	if c.API.Listen == "" {
		c.API.Listen = "127.0.0.1:8080"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://" + c.API.Listen
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.API.TokenTTL == 0 {
		c.API.TokenTTL = Duration(30 * 24 * time.Hour)
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = filepath.Join(dataDir, "avatars")
	}
	if c.Storage.PublicBaseURL == "" {
		c.Storage.PublicBaseURL = c.API.BaseURL + "/avatars"
	}
	if c.Storage.MaxUploadSize == 0 {
		c.Storage.MaxUploadSize = 2 << 20
	}
	if c.Cache.StaleAfter == 0 {
		c.Cache.StaleAfter = Duration(time.Minute)
	}
	if c.Daemon.DebounceMS <= 0 {
		c.Daemon.DebounceMS = 100
	}
	if c.Daemon.BroadcastBuffer <= 0 {
		c.Daemon.BroadcastBuffer = 100
	}
	if c.Daemon.ClientBuffer <= 0 {
		c.Daemon.ClientBuffer = 10
	}
	c.KeyMappings.applyDefaults()
	c.Theme.ApplyDefaults()
}

// applyEnv lets the environment override file values
func (c *Config) applyEnv() {
	if v := os.Getenv("WORKBOARD_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("WORKBOARD_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("WORKBOARD_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("WORKBOARD_JWT_SECRET"); v != "" {
		c.API.JWTSecret = v
	}
	if v := os.Getenv("WORKBOARD_EVENT_DEBOUNCE_MS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Daemon.DebounceMS = parsed
		}
	}
}
