// Package api talks to the PAQUETES EL CLUB backend over JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AjaxHeader marks requests as coming from the client-side UI.
const (
	AjaxHeader = "X-Requested-With"
	AjaxValue  = "XMLHttpRequest"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// StatusError is returned for non-2xx responses. Errors holds the
// field -> message mapping the backend sends for validation failures.
type StatusError struct {
	Status int
	Errors map[string]string
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("status %d", e.Status)
}

// ErrMalformed wraps bodies that are not valid JSON.
var ErrMalformed = errors.New("malformed response body")

// Client issues requests against a base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTransport wraps the transport of the underlying client.
func WithTransport(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *Client) {
		next := c.http.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		c.http.Transport = wrap(next)
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// FetchList GETs path and returns the "data" array of the body. Bodies of
// any other shape yield an empty collection.
func (c *Client) FetchList(ctx context.Context, path string) ([]map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, path)
	}
	var env map[string]json.RawMessage
	if json.Unmarshal(raw, &env) != nil {
		return []map[string]any{}, nil
	}
	var items []map[string]any
	if json.Unmarshal(env["data"], &items) != nil || items == nil {
		return []map[string]any{}, nil
	}
	return items, nil
}

// FetchObject GETs a single JSON object.
func (c *Client) FetchObject(ctx context.Context, path string) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Submit sends body as JSON with method (POST when empty) and returns the
// decoded response object. An empty success body yields an empty map.
func (c *Client) Submit(ctx context.Context, method, path string, body any) (map[string]any, error) {
	if method == "" {
		method = http.MethodPost
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	raw, err := c.do(ctx, strings.ToUpper(method), path, payload)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := decode(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(AjaxHeader, AjaxValue)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, raw)
	}
	return raw, nil
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// statusError decodes the failure body. FastAPI sends either
// {"errors": {...}} or {"detail": "..."}; anything else leaves both empty.
func statusError(status int, raw []byte) *StatusError {
	se := &StatusError{Status: status, Errors: map[string]string{}}
	var body struct {
		Errors map[string]any `json:"errors"`
		Detail any            `json:"detail"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return se
	}
	for k, v := range body.Errors {
		se.Errors[k] = fmt.Sprint(v)
	}
	if s, ok := body.Detail.(string); ok {
		se.Detail = s
	}
	return se
}
