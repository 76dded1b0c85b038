package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/config"
)

func TestConfigInit(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(os.Getenv("SURATKU_HOME"), "config.yaml")

	out, _, err := h.run("", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, _, err = h.run("", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = h.run("", "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: "+h.srv.BaseURL())

	out, _, err = h.run("", "config", "show", "--output", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	_, _, err = h.run("", "config", "show", "--output", "xml")
	require.Error(t, err)
}

func TestConfigShow_InvalidConfigIsLenient(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SURATKU_PAGE_SIZE", "0")

	_, stderr, err := h.run("", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stderr, config.ErrInvalidPageSize.Error())

	_, _, err = h.run("", "number", "roman", "3")
	require.ErrorIs(t, err, config.ErrInvalidPageSize)
}

func TestAPIURLFlagOverridesConfig(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SURATKU_API_URL", "http://127.0.0.1:1/api")

	out, _, err := h.run("", "health", "--api-url", h.srv.BaseURL())
	require.NoError(t, err)
	assert.Contains(t, out, h.srv.BaseURL())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		minVersion string
		wantErr    error
	}{
		{name: "no minimum"},
		{name: "minimum met", minVersion: "1.2.0"},
		{name: "server too old", minVersion: "2.0.0", wantErr: api.ErrServerTooOld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			t.Setenv("SURATKU_MIN_SERVER_VERSION", tt.minVersion)

			out, _, err := h.run("", "health")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, "1.4.0")
		})
	}
}
