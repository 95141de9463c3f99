package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays configuration values from environment variables. Only
// variables that are actually set override the current values; the env tags
// live on the Config struct itself.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
