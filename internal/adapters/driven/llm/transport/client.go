// Package transport is the JSON-over-HTTP client shared by the LLM provider
// adapters. Requests that fail with a network error, 429 or 5xx are retried
// with exponential backoff, honouring Retry-After.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/digest/internal/logger"
)

// Defaults.
const (
	DefaultRetries = 2
	maxBackoff     = 5 * time.Second
	maxErrorBody   = 512
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Provider string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Message)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client sends JSON requests to one provider.
type Client struct {
	provider string
	baseURL  string
	http     *http.Client
	header   http.Header
	retries  int
	backoff  func(attempt int) time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithRetries sets how many times a failed POST is retried. Negative
// values disable retries.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 0) }
}

// WithBackoff replaces the delay schedule between attempts.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(c *Client) {
		if f != nil {
			c.backoff = f
		}
	}
}

// New creates a client for provider rooted at baseURL.
func New(provider, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		header:   make(http.Header),
		retries:  DefaultRetries,
		backoff:  Backoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Backoff doubles from 200ms per attempt, capped at 5s.
func Backoff(attempt int) time.Duration {
	d := 200 * time.Millisecond << max(attempt, 0)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// PostJSON sends in to path and decodes a 2xx response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		wait, err := c.post(ctx, path, body, out)
		if err == nil {
			return nil
		}
		if wait < 0 || attempt >= c.retries {
			return err
		}
		if wait == 0 {
			wait = c.backoff(attempt)
		}
		logger.Debug("%s: %v; retrying in %s", c.provider, err, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %w)", ctx.Err(), err)
		case <-timer.C:
		}
	}
}

// post makes one attempt. wait < 0 means the error is final; otherwise it
// is the server-requested delay, or 0 for the default backoff.
func (c *Client) post(ctx context.Context, path string, body []byte, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return -1, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		if ctx.Err() != nil {
			return -1, err
		}
		return 0, err
	}
	defer resp.Body.Close()

	if err := c.check(resp); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Retryable() {
			return retryAfter(resp.Header.Get("Retry-After")), err
		}
		return -1, err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return -1, fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return -1, nil
}

// Get requests path once and checks for a 2xx status. It backs Ping, so
// it never retries.
func (c *Client) Get(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.provider, err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return c.check(resp)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	for k, v := range c.header {
		req.Header[k] = v
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", c.provider, err)
	}
	return resp, nil
}

func (c *Client) check(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return &StatusError{Provider: c.provider, Status: resp.StatusCode, Message: errorMessage(data)}
}

// errorMessage extracts the message from the error shapes the providers
// use, {"error": "..."} and {"error": {"message": "..."}}, or returns the
// trimmed body.
func errorMessage(body []byte) string {
	var shaped struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &shaped) == nil && len(shaped.Error) > 0 {
		var s string
		if json.Unmarshal(shaped.Error, &s) == nil && s != "" {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(shaped.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	if msg == "" {
		msg = "empty response body"
	}
	return msg
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, 30*time.Second)
}
