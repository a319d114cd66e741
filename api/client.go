// Package api is the single boundary between this client and the
// backend HTTP API. Read operations degrade to the bundled mock
// catalog when the backend is unreachable so browsing keeps working
// offline; write and auth operations fail loud with the server's own
// message.
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
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agrokart/storefront/core"
)

// Client talks to the Agrokart backend.
type Client struct {
	baseURL string
	http    *http.Client
	health  *http.Client

	logger    core.Logger
	telemetry core.Telemetry
	tokens    core.TokenSource
	mock      *mockBackend

	offlineCancelFallback bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenSource sets the credential source used for authenticated
// requests. Tokens are treated as opaque; the source decides whether
// the backend-session or firebase header carries them.
func WithTokenSource(ts core.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithTelemetry enables span creation around requests.
func WithTelemetry(t core.Telemetry) Option {
	return func(c *Client) {
		if t != nil {
			c.telemetry = t
		}
	}
}

// NewClient creates a backend client from configuration.
func NewClient(cfg *core.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("api client: %w: config is required", core.ErrMissingConfiguration)
	}

	mock, err := newMockBackend()
	if err != nil {
		return nil, fmt.Errorf("api client: load mock dataset: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.HTTP.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		health: &http.Client{
			Timeout: cfg.HTTP.HealthCheckTimeout,
		},
		logger:                &core.NoOpLogger{},
		telemetry:             &core.NoOpTelemetry{},
		mock:                  mock,
		offlineCancelFallback: cfg.HTTP.OfflineCancelFallback,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetLogger configures the logger for this client
func (c *Client) SetLogger(logger core.Logger) {
	if logger != nil {
		c.logger = logger
		c.mock.catalog.SetLogger(logger)
	}
}

// SetTokenSource installs the credential source after a login.
func (c *Client) SetTokenSource(ts core.TokenSource) {
	c.tokens = ts
}

// HealthCheck probes the backend with a short timeout. A dead backend
// answers "false" quickly instead of holding up the caller.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.health.Do(req)
	if err != nil {
		c.logger.Debug("Health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// withFallback is the read-path policy: try the backend, and on any
// failure serve the bundled mock dataset instead. The local result
// carries the same filtering semantics as the remote one, so the
// caller cannot tell degraded mode apart by shape.
func withFallback[T any](ctx context.Context, c *Client, op string, remote func(context.Context) (T, error), local func() (T, error)) (T, error) {
	if c.HealthCheck(ctx) {
		result, err := remote(ctx)
		if err == nil {
			return result, nil
		}
		c.logger.Warn("Backend call failed, serving local data", map[string]interface{}{
			"operation": op,
			"error":     err.Error(),
		})
	} else {
		c.logger.Debug("Backend unavailable, serving local data", map[string]interface{}{
			"operation": op,
		})
	}
	return local()
}

// requestOptions shape one HTTP exchange.
type requestOptions struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	auth   bool
}

// do runs one JSON exchange against the backend and decodes the
// response into out. Non-2xx responses become StorefrontErrors
// carrying the server's message when it sent one.
func (c *Client) do(ctx context.Context, op string, ro requestOptions, out interface{}) error {
	ctx, span := c.telemetry.StartSpan(ctx, "api."+op)
	defer span.End()

	u := c.baseURL + ro.path
	if len(ro.query) > 0 {
		u += "?" + ro.query.Encode()
	}

	var body io.Reader
	if ro.body != nil {
		payload, err := json.Marshal(ro.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ro.method, u, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if ro.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ro.auth {
		if err := c.attachCredential(ctx, req); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return c.transportError(op, err)
	}
	defer resp.Body.Close()

	span.SetAttribute("http.status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(op, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) attachCredential(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return core.ErrMissingCredentials
	}
	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set(string(cred.Scheme), cred.Value)
	return nil
}

// transportError classifies a failed exchange: context deadlines map
// to the timeout sentinel, everything else to backend-unavailable.
func (c *Client) transportError(op string, err error) error {
	kind := "network_unavailable"
	sentinel := core.ErrBackendUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		kind = "timeout"
		sentinel = core.ErrTimeout
	}
	return &core.StorefrontError{
		Op:      op,
		Kind:    kind,
		Message: "Unable to reach the server. Please check your connection.",
		Err:     fmt.Errorf("%w: %v", sentinel, err),
	}
}

// statusError turns a non-2xx response into an error the UI can show.
// The server's own message passes through verbatim when present.
func (c *Client) statusError(op string, resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	json.Unmarshal(raw, &payload)

	message := payload.Message
	if message == "" {
		message = payload.Error
	}

	if resp.StatusCode == http.StatusNotFound {
		return &core.StorefrontError{
			Op:      op,
			Kind:    "not_found",
			Message: message,
			Err:     core.ErrNotFound,
		}
	}

	return &core.StorefrontError{
		Op:      op,
		Kind:    "server_error",
		ID:      strconv.Itoa(resp.StatusCode),
		Message: message,
		Err:     fmt.Errorf("%w: status %d", core.ErrRequestFailed, resp.StatusCode),
	}
}
