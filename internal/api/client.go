package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/suratku/suratku/internal/logging"
	"github.com/suratku/suratku/pkg/version"
)

// Client defaults.
const (
	DefaultTimeout = 30 * time.Second
	// RequestIDHeader carries a per-request id the server can log.
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 32 << 20
)

// envelope is the JSON wrapper around every API response. Login and register
// put token and user at the top level instead of under data.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Total   *int            `json:"total,omitempty"`
	Token   string          `json:"token,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
}

func (e *envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// Client talks to the letter numbering API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	limiter    *rate.Limiter
	logger     *zerolog.Logger
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRateLimit caps the request rate at perSecond with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger logs requests to logger instead of the logger carried by each
// request's context.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		l := logging.ComponentLogger(logger, "api")
		c.logger = &l
	}
}

// New returns a client for the API rooted at baseURL, for example
// "http://localhost:3000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "suratku/" + version.GetVersion(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticated returns a copy of c that sends token. The rate limiter is
// shared with c.
func (c *Client) Authenticated(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// HasToken reports whether the client sends a bearer token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// do sends a JSON request and decodes the envelope's data into out (which may
// be nil). The decoded envelope is returned for callers needing top-level
// fields.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) (*envelope, error) {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %w", ErrNetwork, method, path, err)
	}

	env, err := decodeEnvelope(resp.StatusCode, method, path, data)
	if err != nil {
		return nil, err
	}

	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err = json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%w: decoding %s %s data: %w", ErrInvalidResponse, method, path, err)
		}
	}
	return env, nil
}

// stream sends a request and copies a successful binary response to w.
func (c *Client) stream(
	ctx context.Context,
	method, path string,
	query url.Values,
	w io.Writer,
) (int64, error) {
	resp, err := c.send(ctx, method, path, query, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		_, decodeErr := decodeEnvelope(resp.StatusCode, method, path, data)
		return 0, decodeErr
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: downloading %s: %w", ErrNetwork, path, err)
	}
	return n, nil
}

func (c *Client) send(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*http.Response, error) {
	log := c.log(ctx)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", ErrNetwork, err)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("api: building %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")
	return resp, nil
}

func decodeEnvelope(status int, method, path string, data []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if status >= http.StatusBadRequest {
			return nil, &APIError{
				StatusCode: status,
				Method:     method,
				Path:       path,
				Message:    http.StatusText(status),
			}
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrInvalidResponse, method, path, err)
	}

	if status >= http.StatusBadRequest || !env.Success {
		msg := env.message()
		if msg == "" && status >= http.StatusBadRequest {
			msg = http.StatusText(status)
		}
		if msg == "" {
			msg = "request failed"
		}
		return nil, &APIError{StatusCode: status, Method: method, Path: path, Message: msg}
	}
	return &env, nil
}

func (c *Client) log(ctx context.Context) *zerolog.Logger {
	if c.logger != nil {
		return c.logger
	}
	l := logging.ComponentLogger(*logging.FromContext(ctx), "api")
	return &l
}

// IsCanceled reports whether err came from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
