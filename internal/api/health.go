package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Masterminds/semver/v3"
)

// ErrServerTooOld means the server reports a version below the configured
// minimum.
var ErrServerTooOld = errors.New("api: server version below minimum")

// Health is the payload of /health.
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Health checks that the server is up. The health endpoint answers either
// with the usual envelope or with a bare object.
func (c *Client) Health(ctx context.Context) (Health, error) {
	resp, err := c.send(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return Health{}, err
	}
	defer resp.Body.Close()

	var raw struct {
		Health
		Success *bool   `json:"success"`
		Data    *Health `json:"data"`
		Error   string  `json:"error"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return Health{}, &APIError{
				StatusCode: resp.StatusCode,
				Method:     http.MethodGet,
				Path:       "/health",
				Message:    http.StatusText(resp.StatusCode),
			}
		}
		return Health{}, fmt.Errorf("%w: /health: %w", ErrInvalidResponse, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || (raw.Success != nil && !*raw.Success) {
		msg := raw.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Health{}, &APIError{StatusCode: resp.StatusCode, Method: http.MethodGet, Path: "/health", Message: msg}
	}

	h := raw.Health
	if raw.Data != nil {
		h = *raw.Data
	}
	if h.Status == "" {
		h.Status = "ok"
	}
	return h, nil
}

// CheckVersion returns ErrServerTooOld when h reports a version below
// minimum. An empty minimum or a server that reports no version passes.
func CheckVersion(h Health, minimum string) error {
	if minimum == "" || h.Version == "" {
		return nil
	}
	want, err := semver.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("api: invalid minimum server version %q: %w", minimum, err)
	}
	got, err := semver.NewVersion(h.Version)
	if err != nil {
		return fmt.Errorf("api: server reported invalid version %q: %w", h.Version, err)
	}
	if got.LessThan(want) {
		return fmt.Errorf("%w: server %s, need >= %s", ErrServerTooOld, got, want)
	}
	return nil
}
