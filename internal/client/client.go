// Package client talks to the chat upstream over its three JSON endpoints.
package client

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

	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

// ErrTransport marks failures where no usable answer came back: the request
// could not be sent, or the response body was not the expected JSON.
var ErrTransport = errors.New("chat upstream unreachable")

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 4 << 20

// APIError is a non-2xx answer from the upstream.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat upstream returned %d", e.Status)
	}
	return fmt.Sprintf("chat upstream returned %d: %s", e.Status, e.Message)
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	Persona   string `json:"persona"`
	SessionID string `json:"session_id"`
}

// ChatReply is the success body of POST /api/chat.
type ChatReply struct {
	Message string `json:"message"`
	Persona string `json:"persona,omitempty"`
}

// ClearRequest is the body of POST /api/clear.
type ClearRequest struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"persona"`
}

// Client is a small JSON client for the chat upstream.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request; zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// New creates a client for the upstream rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Personas fetches GET /api/personas.
func (c *Client) Personas(ctx context.Context) (*persona.Catalog, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/personas", nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, decodeAPIError(status, body)
	}

	catalog := &persona.Catalog{}
	if err := json.Unmarshal(body, catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return catalog, nil
}

// Chat sends one message via POST /api/chat.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatReply, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/chat", req)
	if err != nil {
		return ChatReply{}, err
	}
	if !isSuccess(status) {
		return ChatReply{}, decodeAPIError(status, body)
	}

	var reply ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return ChatReply{}, fmt.Errorf("%w: decode chat reply: %w", ErrTransport, err)
	}
	return reply, nil
}

// Clear resets the server-side history via POST /api/clear. The response
// body is not inspected.
func (c *Client) Clear(ctx context.Context, req ClearRequest) error {
	status, _, err := c.do(ctx, http.MethodPost, "/api/clear", req)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return &APIError{Status: status}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s response: %w", ErrTransport, path, err)
	}
	return resp.StatusCode, data, nil
}

// decodeAPIError turns a non-2xx body into an APIError. A body that is not
// JSON is treated like a transport failure.
func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: status %d with undecodable body: %w", ErrTransport, status, err)
	}
	return &APIError{Status: status, Message: payload.Error}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
