package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// configSections maps each top-level YAML key to a function that zeroes the
// matching Config field and returns a pointer to decode into. Keys not listed
// are ignored during merge.
//
//nolint:gochecknoglobals // Fixed lookup table.
var configSections = map[string]func(*Config) any{
	"api":     func(c *Config) any { c.API = APIConfig{}; return &c.API },
	"output":  func(c *Config) any { c.Output = OutputConfig{}; return &c.Output },
	"logging": func(c *Config) any { c.Logging = LoggingConfig{}; return &c.Logging },
	"cache":   func(c *Config) any { c.Cache = CacheConfig{}; return &c.Cache },
	"session": func(c *Config) any { c.Session = SessionConfig{}; return &c.Session },
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the file replaces the whole section in
// target; absent sections are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		section, known := configSections[key]
		if !known {
			continue
		}
		if err = node.Decode(section(target)); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}
