package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BasePath prefixes every API path.
const BasePath = "/api/v1"

// DefaultTimeout bounds a single request when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 1 << 20

var (
	errNullBody    = errors.New("response body is null")
	errInvalidJSON = errors.New("response body is not valid JSON")
)

// TokenSource yields the bearer token for the next request. An empty token
// means the request is sent unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() (string, error)

func (f TokenFunc) Token() (string, error) { return f() }

// Client is the ticketing API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client. The token is read from tokens on every
// request, so a login or logout takes effect on the next call.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, path, http.MethodGet, nil)
}

// Post issues a POST request with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, path, http.MethodPost, body)
}

// Put issues a PUT request with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, path, http.MethodPut, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, path, http.MethodDelete, nil)
}

// Request sends method to BasePath+path with an optional JSON body.
//
// A non-2xx response fails with an *APIError whose message is the body's
// "error" field, or GenericErrorMessage when the body has none. A 2xx
// response with an empty body yields "{}"; any other body must be valid,
// non-null JSON and is returned as is.
func (c *Client) Request(ctx context.Context, path, method string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+BasePath+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("request_id", requestID, "method", method, "path", path)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", "error", err, "duration", time.Since(start))
		return nil, &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close
	log.Debug("request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return normalizeBody(data)
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	tok, err := c.tokens.Token()
	if err != nil {
		// An unreadable store behaves like a logged-out one; login replaces it.
		c.logger.Warn("read token", "error", err)
		return ""
	}
	return tok
}

func errorFromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: GenericErrorMessage}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if msg := errorText(payload.Error); msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}

// errorText renders the backend's error field. Empty strings, zero, false
// and null yield "" so the generic message is kept; any other value is shown
// as its JSON text.
func errorText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	switch v := string(bytes.TrimSpace(raw)); v {
	case "", "null", "false", "0":
		return ""
	default:
		return v
	}
}

// normalizeBody maps an empty body to {}. Anything else, including
// whitespace, must be valid JSON.
func normalizeBody(data []byte) (json.RawMessage, error) {
	if len(data) == 0 {
		return json.RawMessage("{}"), nil
	}
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("decode response: %w", errInvalidJSON)
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("decode response: %w", errNullBody)
	}
	return json.RawMessage(trimmed), nil
}

// decode unmarshals raw into out, reporting failures at the API boundary.
func decode(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeList accepts a JSON array, an object wrapping the array under key,
// or the empty object produced by an empty body.
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	if len(raw) > 0 && raw[0] == '[' {
		var items []T
		if err := decode(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var wrapped map[string]json.RawMessage
	if err := decode(raw, &wrapped); err != nil {
		return nil, err
	}
	inner, ok := wrapped[key]
	if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return []T{}, nil
	}
	var items []T
	if err := decode(inner, &items); err != nil {
		return nil, err
	}
	return items, nil
}
