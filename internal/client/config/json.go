package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as
// a string like "3s" or as integer nanoseconds. Only non-empty values are
// copied into the runtime Config.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	Platform       string         `json:"platform"`
	DatabasePath   string         `json:"database_path"`
	KeyringService string         `json:"keyring_service"`
	DeviceKeyFile  string         `json:"device_key_file"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
	LogFormat      string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.Platform, jc.Platform)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.KeyringService, jc.KeyringService)
	setString(&cfg.DeviceKeyFile, jc.DeviceKeyFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
