package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable named in Config's env tags.
const EnvPrefix = "AUTHKEEPER_"

// parseEnv overlays Config with AUTHKEEPER_* variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
