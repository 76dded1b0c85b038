// Package config loads suratku's configuration.
//
// Values are resolved in layers: built-in defaults, then ~/.suratku/config.yaml,
// then SURATKU_* environment variables, then CLI flags (applied by the cli
// package). The resolved Config is held in a process-wide slot so commands and
// the logging setup read the same values.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Defaults applied before any file or environment overlay.
const (
	DefaultBaseURL        = "http://localhost:3000/api"
	DefaultTimeoutSeconds = 30
	DefaultRateLimit      = 10.0
	DefaultRateBurst      = 5
	DefaultOutputFormat   = "table"
	DefaultPageSize       = 10
	DefaultLocale         = "id-ID"
	DefaultTimezone       = "Asia/Jakarta"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultCacheTTL       = 300
	homeDirName           = ".suratku"
	configFileName        = "config.yaml"
	sessionFileName       = "session.json"
	cacheDirName          = "cache"
	outputTypeFile        = "file"
)

// Supported values for OutputConfig.DefaultFormat.
var validOutputFormats = map[string]bool{ //nolint:gochecknoglobals // Lookup table.
	"table": true,
	"json":  true,
}

// Configuration errors.
var (
	ErrInvalidBaseURL  = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout  = errors.New("api.timeout_seconds must be > 0")
	ErrInvalidPageSize = errors.New("output.page_size must be > 0")
	ErrInvalidFormat   = errors.New("output.default_format must be 'table' or 'json'")
	ErrInvalidTimezone = errors.New("output.timezone is not a known IANA zone")
)

// Config is the resolved suratku configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Session SessionConfig `yaml:"session"`
}

// APIConfig points the client at the letter numbering REST API.
type APIConfig struct {
	BaseURL          string  `yaml:"base_url"           env:"SURATKU_API_URL"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"    env:"SURATKU_API_TIMEOUT"`
	RateLimit        float64 `yaml:"rate_limit"         env:"SURATKU_API_RATE_LIMIT"`
	RateBurst        int     `yaml:"rate_burst"         env:"SURATKU_API_RATE_BURST"`
	MinServerVersion string  `yaml:"min_server_version" env:"SURATKU_MIN_SERVER_VERSION"`
}

// Timeout returns the configured request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" env:"SURATKU_OUTPUT_FORMAT"`
	PageSize      int    `yaml:"page_size"      env:"SURATKU_PAGE_SIZE"`
	Locale        string `yaml:"locale"         env:"SURATKU_LOCALE"`
	Timezone      string `yaml:"timezone"       env:"SURATKU_TIMEZONE"`
}

// Location resolves Timezone, falling back to time.Local.
func (o OutputConfig) Location() *time.Location {
	if o.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoggingConfig mirrors logging.Config in YAML form.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"SURATKU_LOG_LEVEL"`
	Format string `yaml:"format" env:"SURATKU_LOG_FORMAT"`
	File   string `yaml:"file"   env:"SURATKU_LOG_FILE"`
}

// CacheConfig controls the reference-data cache (companies, categories, years).
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"     env:"SURATKU_CACHE_ENABLED"`
	TTLSeconds int    `yaml:"ttl_seconds" env:"SURATKU_CACHE_TTL"`
	Directory  string `yaml:"directory"   env:"SURATKU_CACHE_DIR"`
}

// SessionConfig locates the persisted login session.
type SessionConfig struct {
	File string `yaml:"file" env:"SURATKU_SESSION_FILE"`
}

// HomeDir returns the suratku state directory. SURATKU_HOME overrides the
// default of ~/.suratku.
func HomeDir() string {
	if dir := os.Getenv("SURATKU_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), homeDirName)
	}
	return filepath.Join(home, homeDirName)
}

// FilePath returns the path of the YAML config file.
func FilePath() string {
	return filepath.Join(HomeDir(), configFileName)
}

// Default returns a Config holding only built-in defaults.
func Default() *Config {
	home := HomeDir()
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
			RateLimit:      DefaultRateLimit,
			RateBurst:      DefaultRateBurst,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			PageSize:      DefaultPageSize,
			Locale:        DefaultLocale,
			Timezone:      DefaultTimezone,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTL,
			Directory:  filepath.Join(home, cacheDirName),
		},
		Session: SessionConfig{
			File: filepath.Join(home, sessionFileName),
		},
	}
}

// New resolves defaults, the config file and the environment. Problems with
// the file or environment are returned alongside a usable Config built from
// whatever layers did load.
func New() (*Config, error) {
	return Load(FilePath(), env.ToMap(os.Environ()))
}

// Load resolves defaults, the file at path (if present) and the variables in
// environ.
func Load(path string, environ map[string]string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return cfg, mergeErr
		}
		cfg.fillDefaults()
	}

	if err := ApplyEnv(cfg, environ); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// fillDefaults restores defaults for zero-valued settings left behind when a
// file section replaced a whole block. Booleans are taken as written.
func (c *Config) fillDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = d.API.TimeoutSeconds
	}
	if c.API.RateBurst == 0 {
		c.API.RateBurst = d.API.RateBurst
	}
	if c.Output.DefaultFormat == "" {
		c.Output.DefaultFormat = d.Output.DefaultFormat
	}
	if c.Output.PageSize == 0 {
		c.Output.PageSize = d.Output.PageSize
	}
	if c.Output.Locale == "" {
		c.Output.Locale = d.Output.Locale
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = d.Cache.TTLSeconds
	}
	if c.Cache.Directory == "" {
		c.Cache.Directory = d.Cache.Directory
	}
	if c.Session.File == "" {
		c.Session.File = d.Session.File
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}
	if c.Output.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if !validOutputFormats[strings.ToLower(c.Output.DefaultFormat)] {
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Output.DefaultFormat)
	}
	if c.Output.Timezone != "" {
		if _, tzErr := time.LoadLocation(c.Output.Timezone); tzErr != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Output.Timezone)
		}
	}
	return nil
}

// Save writes c to path as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

var (
	globalConfig   *Config      //nolint:gochecknoglobals // Resolved once per invocation.
	globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects globalConfig.
)

// SetGlobalConfig installs cfg as the process-wide configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the process-wide configuration, resolving it on
// first use. Resolution errors are swallowed here; the CLI reports them when
// it installs the config explicitly.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	cfg, _ = New()
	SetGlobalConfig(cfg)
	return cfg
}

// GetOutputFormat returns flagValue when set, otherwise the configured default.
func GetOutputFormat(flagValue string) string {
	if flagValue != "" {
		return strings.ToLower(flagValue)
	}
	return strings.ToLower(GetGlobalConfig().Output.DefaultFormat)
}
