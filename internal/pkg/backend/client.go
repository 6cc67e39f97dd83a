// Package backend is the HTTP client for the Data Plunge REST API.
package backend

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

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/dataplunge/dataplunge/internal/pkg/metrics"
)

// ErrUnauthorized is matched (errors.Is) by every 401 answer.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer. Message is the backend's "error" field or a generic HTTP status text.
type APIError struct {
	Status   int
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Config configures the backend client.
type Config struct {
	// BaseURL is used for server-to-server calls.
	BaseURL string
	// PublicURL is what browsers are redirected to for OAuth starts. Defaults to BaseURL.
	PublicURL  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the backend. A Client is immutable; WithToken returns a bound copy.
type Client struct {
	baseURL   string
	publicURL string
	token     string
	client    *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	public := cfg.PublicURL
	if public == "" {
		public = cfg.BaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		publicURL: strings.TrimRight(public, "/"),
		client:    httpClient,
	}, nil
}

// WithToken returns a copy that sends "Authorization: Bearer <token>". An empty token sends none.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Token() string {
	return c.token
}

// PublicURL builds a browser-facing backend URL for full-page redirects.
func (c *Client) PublicURL(path string) string {
	return c.publicURL + path
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	label := endpointLabel(endpoint)
	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveBackend(label, 0, time.Since(started))
		log.Errorf("[Backend] %s %s failed: %v", method, label, err)
		return fmt.Errorf("backend: %s %s: %w", method, label, err)
	}
	defer resp.Body.Close()
	metrics.ObserveBackend(label, resp.StatusCode, time.Since(started))

	if resp.StatusCode == http.StatusUnauthorized {
		return &APIError{Status: resp.StatusCode, Endpoint: label, Message: "Unauthorized"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:   resp.StatusCode,
			Endpoint: label,
			Message:  fmt.Sprintf("HTTP Error: %d", resp.StatusCode),
		}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		log.Warnf("[Backend] %s %s -> %d: %s", method, label, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("backend: decode %s: %w", label, err)
	}
	return nil
}

// endpointLabel strips the query and numeric ids so metric labels stay bounded.
func endpointLabel(endpoint string) string {
	path, _, _ := strings.Cut(endpoint, "?")
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
