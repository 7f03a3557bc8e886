package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Response is a raw transport response: status code plus body bytes.
// The caller owns all interpretation of the body.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Config configures the backend client.
type Config struct {
	// Address is the base URL of the backend.
	Address string

	// Username and Password enable HTTP basic auth when both are set.
	Username string
	Password string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts for network errors
	// and 5xx responses.
	MaxRetries int
}

// Client is a pooled HTTP client for an Elasticsearch-compatible backend.
type Client struct {
	config Config
	base   *url.URL
	http   *http.Client
}

// New creates a client with connection pooling for the configured backend.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid backend address %q: %w", cfg.Address, err)
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: cfg,
		base:   base,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}, nil
}

// OpenPointInTime opens a point-in-time snapshot for the given index with
// the given keep-alive and returns the raw response.
func (c *Client) OpenPointInTime(ctx context.Context, index, keepAlive string) (*Response, error) {
	path := fmt.Sprintf("/%s/_pit?keep_alive=%s", url.PathEscape(index), url.QueryEscape(keepAlive))
	return c.do(ctx, http.MethodPost, path, nil)
}

// Search issues a search request with the given body against the whole
// cluster. Point-in-time searches carry the target index inside the token,
// so no index appears in the path.
func (c *Client) Search(ctx context.Context, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/_search", payload)
}

// ClosePointInTime releases a point-in-time snapshot. Failures are returned
// but callers generally treat them as advisory.
func (c *Client) ClosePointInTime(ctx context.Context, id string) error {
	payload, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("failed to marshal close body: %w", err)
	}
	resp, err := c.do(ctx, http.MethodDelete, "/_pit", payload)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("close point in time returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// do performs one HTTP request with retry logic. Network errors and 5xx
// responses are retried with exponential backoff. Once retries are
// exhausted a 5xx response is returned as a plain Response: only the
// caller can decide whether a rejected request is fatal. An error return
// always means the endpoint was unreachable.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	endpoint := strings.TrimSuffix(c.base.String(), "/") + path

	var lastErr error
	var lastResp *Response
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			slog.Debug("retrying request",
				"path", path,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)
			select {
			case <-ctx.Done():
				return nil, &TransportError{Endpoint: path, Cause: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.config.Username != "" && c.config.Password != "" {
			req.SetBasicAuth(c.config.Username, c.config.Password)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &TransportError{Endpoint: path, Cause: ctx.Err()}
			}
			// Client timeout surfaces as a url.Error with Timeout set.
			if ue, ok := err.(interface{ Timeout() bool }); ok && ue.Timeout() {
				return nil, &TimeoutError{Endpoint: path, Timeout: c.config.Timeout}
			}
			lastErr = &TransportError{Endpoint: path, Cause: err}
			slog.Warn("request failed, will retry",
				"path", path,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &TransportError{Endpoint: path, Cause: err}
			continue
		}

		if resp.StatusCode >= 500 {
			lastResp = &Response{StatusCode: resp.StatusCode, Body: respBody}
			slog.Warn("request returned server error, will retry",
				"path", path,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
			continue
		}

		return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
