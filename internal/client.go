package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// DefaultServerURL is where the backend listens in a local install.
const DefaultServerURL = "http://127.0.0.1:8000"

// Client talks to the Willay backend. The underlying http.Client has no
// overall timeout: a streaming reply may legitimately outlive any fixed
// one, and callers bound waits through context deadlines instead.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NewConsumer returns a consumer for one streaming exchange.
func (c *Client) NewConsumer() *Consumer {
	return &Consumer{client: c.http, url: c.baseURL + "/chat/stream"}
}

type resetRequest struct {
	ClientID string `json:"clientId"`
	Reset    bool   `json:"reset"`
}

// NotifyReset tells the backend to drop its per-client conversation
// context. This is fire-and-forget from the caller's point of view:
// local state changes never wait on it, and a failure is only reported.
func (c *Client) NotifyReset(ctx context.Context, clientID string) error {
	body, err := json.Marshal(resetRequest{ClientID: clientID, Reset: true})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return &TransportError{Endpoint: "/chat", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: "/chat", Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Endpoint: "/chat", Status: resp.StatusCode}
	}
	return nil
}

// Health checks the backend's /health endpoint, which in turn verifies
// that the inference engine behind it is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &TransportError{Endpoint: "/health", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: "/health", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Endpoint: "/health", Status: resp.StatusCode, Detail: decodeErrorDetail(resp.Body)}
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return nil
}

// decodeErrorDetail extracts the backend's structured error field from
// an error response body, if there is one.
func decodeErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
