package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/config"
)

func TestDefault(t *testing.T) {
	t.Setenv("SURATKU_HOME", t.TempDir())

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, config.DefaultPageSize, cfg.Output.PageSize)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(config.HomeDir(), "session.json"), cfg.Session.File)
}

func TestLoad_Layers(t *testing.T) {
	t.Setenv("SURATKU_HOME", t.TempDir())

	path := writeOverlay(t, `
api:
  base_url: https://surat.example.com/api
output:
  page_size: 20
`)
	environ := map[string]string{
		"SURATKU_PAGE_SIZE": "50",
		"SURATKU_LOG_LEVEL": "debug",
		"UNRELATED":         "x",
	}

	cfg, err := config.Load(path, environ)
	require.NoError(t, err)

	// File layer.
	assert.Equal(t, "https://surat.example.com/api", cfg.API.BaseURL)
	// Defaults restored for fields the file section dropped.
	assert.Equal(t, config.DefaultTimeoutSeconds, cfg.API.TimeoutSeconds)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.DefaultFormat)
	// Environment wins over the file.
	assert.Equal(t, 50, cfg.Output.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SURATKU_HOME", t.TempDir())

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("SURATKU_HOME", t.TempDir())

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{
		"SURATKU_PAGE_SIZE": "ten",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing environment")
}

func TestValidate(t *testing.T) {
	t.Setenv("SURATKU_HOME", t.TempDir())

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{
			name:    "relative base url",
			mutate:  func(c *config.Config) { c.API.BaseURL = "/api" },
			wantErr: config.ErrInvalidBaseURL,
		},
		{
			name:    "ftp base url",
			mutate:  func(c *config.Config) { c.API.BaseURL = "ftp://example.com" },
			wantErr: config.ErrInvalidBaseURL,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *config.Config) { c.API.TimeoutSeconds = 0 },
			wantErr: config.ErrInvalidTimeout,
		},
		{
			name:    "zero page size",
			mutate:  func(c *config.Config) { c.Output.PageSize = 0 },
			wantErr: config.ErrInvalidPageSize,
		},
		{
			name:    "unknown format",
			mutate:  func(c *config.Config) { c.Output.DefaultFormat = "xml" },
			wantErr: config.ErrInvalidFormat,
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *config.Config) { c.Output.Timezone = "Mars/Olympus" },
			wantErr: config.ErrInvalidTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("SURATKU_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.Default()
	cfg.API.BaseURL = "https://surat.example.com/api"
	cfg.Output.PageSize = 5

	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "console"}
	out := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", out.Output)
	assert.Equal(t, "warn", out.Level)

	lc.File = "/tmp/suratku.log"
	out = lc.ToLoggingConfig()
	assert.Equal(t, "file", out.Output)
	assert.Equal(t, "/tmp/suratku.log", out.File)
}

func TestGetOutputFormat(t *testing.T) {
	t.Setenv("SURATKU_HOME", t.TempDir())
	config.SetGlobalConfig(config.Default())
	t.Cleanup(func() { config.SetGlobalConfig(nil) })

	assert.Equal(t, "json", config.GetOutputFormat("JSON"))
	assert.Equal(t, "table", config.GetOutputFormat(""))
}
