package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overlays SURATKU_* variables from environ onto cfg. Variables that
// are absent leave the corresponding field untouched.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("config: parsing environment: %w", err)
	}
	return nil
}
