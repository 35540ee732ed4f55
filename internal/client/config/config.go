package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the authkeeper client.
//
// Fields:
//   - ServerURL: base URL of the auth API, e.g. http://127.0.0.1:8080.
//   - Platform: "native" (OS keyring) or "web" (encrypted vault).
//   - DatabasePath: SQLite file with preferences, session and vault.
//   - KeyringService: service name the OS keyring entries are filed under.
//   - DeviceKeyFile: hex secret the vault key is derived from.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string        `env:"SERVER_URL"`
	Platform       string        `env:"PLATFORM"`
	DatabasePath   string        `env:"DATABASE_PATH"`
	KeyringService string        `env:"KEYRING_SERVICE"`
	DeviceKeyFile  string        `env:"DEVICE_KEY_FILE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults. Files live in the user's
// config directory, falling back to the working directory.
func (c *Config) LoadDefaults() {
	dir := "."
	if d, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(d, "authkeeper")
	}

	c.ServerURL = "http://127.0.0.1:8080"
	c.Platform = "native"
	c.DatabasePath = filepath.Join(dir, "authkeeper.db")
	c.KeyringService = "authkeeper"
	c.DeviceKeyFile = filepath.Join(dir, "device.key")
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
