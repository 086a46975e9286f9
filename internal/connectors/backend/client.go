package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/custodia-labs/curator-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of attempts for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = 500 * time.Millisecond

	// maxBodySize caps response bodies; page images are the largest.
	maxBodySize = 64 << 20
)

// Client performs requests against the backend with retries.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	attempts uint
	delay    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithRetry sets the attempt count and initial delay.
func WithRetry(attempts uint, delay time.Duration) ClientOption {
	return func(cl *Client) {
		if attempts > 0 {
			cl.attempts = attempts
		}
		cl.delay = delay
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend URL %q must be http or https", baseURL)
	}

	c := &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: DefaultTimeout},
		attempts: MaxRetries,
		delay:    RetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// URL returns the absolute URL of path.
func (c *Client) URL(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// Get fetches path and returns the response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	target := c.URL(path)

	var body []byte
	err := retry.Do(
		func() error {
			data, err := c.get(ctx, target)
			if err != nil {
				if !IsRetryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("Retrying %s (attempt %d): %v", target, n+1, err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetJSON fetches path and decodes its JSON body into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	data, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data), URL: target}
	}
	return data, nil
}

// errorMessage extracts the "detail" field the backend puts in error bodies.
func errorMessage(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
