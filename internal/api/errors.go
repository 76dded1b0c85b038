package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned (wrapped) by the client.
var (
	// ErrNetwork means the request never produced an HTTP response.
	ErrNetwork = errors.New("api: network error")
	// ErrUnauthorized means the server rejected the session token.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("api: not found")
	// ErrInvalidResponse means the server answered with something other than
	// the JSON envelope.
	ErrInvalidResponse = errors.New("api: invalid response")
)

// APIError is a failure reported by the server, either as success:false or
// as an HTTP error status.
//
//nolint:revive // APIError reads better than api.Error at call sites.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode >= http.StatusBadRequest {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

// Is matches ErrUnauthorized for 401 responses and ErrNotFound for 404.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// UserMessage returns the server message for display, or a generic text when
// the server sent none.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNetwork) {
		return "Network error"
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
