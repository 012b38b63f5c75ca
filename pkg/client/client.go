package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	headerIdempotencyKey = "X-Idempotency-Key"
	headerStoreID        = "X-Store-ID"
)

// Client is an HTTP client for the StockPilot API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
	storeID     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAccessToken sets the bearer token sent on every request.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = token }
}

// WithStore sets the active store selection sent on every request.
func WithStore(storeID string) Option {
	return func(c *Client) { c.storeID = storeID }
}

// New creates a client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAccessToken replaces the bearer token (after login or refresh).
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// SetStore replaces the active store selection. Store selection is
// swapped wholesale; in-flight requests keep the value they started with.
func (c *Client) SetStore(storeID string) {
	c.storeID = storeID
}

// APIError is the error envelope returned by the server.
type APIError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// FieldErrors returns the per-field validation messages keyed by path
// (e.g. "lines[2].sku"), or nil when the error carries none.
func (e *APIError) FieldErrors() map[string]string {
	raw, ok := e.Details["fields"].(map[string]any)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if msg, ok := v.(string); ok {
			fields[k] = msg
		}
	}
	return fields
}

// NewSubmitter creates a submitter that POSTs to the given API path
// (e.g. "/api/v1/document/sales") with the intent's idempotency token.
func (c *Client) NewSubmitter(path string) *Submitter {
	return NewSubmitter(func(ctx context.Context, token string, payload any) (json.RawMessage, error) {
		return c.do(ctx, http.MethodPost, path, token, payload)
	})
}

// Get performs an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Post performs an authenticated POST without idempotency guarding.
// Mutations that represent user intents should go through NewSubmitter.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	raw, err := c.do(ctx, http.MethodPost, path, "", payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) do(ctx context.Context, method, path, idempotencyToken string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if c.storeID != "" {
		req.Header.Set(headerStoreID, c.storeID)
	}
	if idempotencyToken != "" {
		req.Header.Set(headerIdempotencyKey, idempotencyToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Code = "UNKNOWN"
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return nil, apiErr
}
