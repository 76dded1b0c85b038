package api

import (
	"context"
	"net/http"
)

// Settings returns the system settings.
func (c *Client) Settings(ctx context.Context) (Settings, error) {
	var s Settings
	_, err := c.do(ctx, http.MethodGet, "/settings", nil, nil, &s)
	return s, err
}

// UpdateSettings applies patch and returns the stored settings.
func (c *Client) UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	var s Settings
	_, err := c.do(ctx, http.MethodPut, "/settings", nil, patch, &s)
	return s, err
}

// ResetSettings restores the server defaults.
func (c *Client) ResetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	_, err := c.do(ctx, http.MethodPost, "/settings/reset", nil, nil, &s)
	return s, err
}
