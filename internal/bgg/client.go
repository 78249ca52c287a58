// Package bgg is a client for the BoardGameGeek XML API v2.
//
// Every request goes through a token bucket limiter; transient failures
// (transport errors, 5xx, 429 and the 202 "request queued" reply of the
// collection endpoint) are retried with a random delay.
package bgg

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public XML API v2 endpoint.
const DefaultBaseURL = "https://api.geekdo.com/xmlapi2"

// ErrNotFound is returned when BGG answers with an empty item list.
var ErrNotFound = errors.New("bgg: not found")

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	RequestsPerMinute int
	MaxRetries        int
	RetryMinDelay     time.Duration
	RetryMaxDelay     time.Duration
	Timeout           time.Duration
}

// RequestHook is called after every HTTP attempt with the endpoint name and
// the outcome ("ok", "retry", "error").
type RequestHook func(endpoint, outcome string)

// Client talks to the BGG XML API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	minDelay   time.Duration
	maxDelay   time.Duration
	logger     *slog.Logger
	hook       RequestHook
}

// NewClient creates a rate-limited BGG client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 60
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryMinDelay <= 0 {
		opts.RetryMinDelay = time.Second
	}
	if opts.RetryMaxDelay < opts.RetryMinDelay {
		opts.RetryMaxDelay = opts.RetryMinDelay + 2*time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	rps := float64(opts.RequestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: opts.MaxRetries,
		minDelay:   opts.RetryMinDelay,
		maxDelay:   opts.RetryMaxDelay,
		logger:     logger,
	}
}

// OnRequest installs a hook called after every attempt.
func (c *Client) OnRequest(h RequestHook) {
	c.hook = h
}

// retryableError marks a failure worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}

// get fetches path with params and XML-decodes the body into out, retrying
// transient failures up to maxRetries times.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay()
			c.logger.Warn("bgg request failed, retrying",
				"endpoint", endpoint, "attempt", attempt, "delay", delay, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		err = c.do(ctx, path, params, out)
		switch {
		case err == nil:
			c.observe(endpoint, "ok")
			return nil
		case isRetryable(err) && attempt < c.maxRetries:
			c.observe(endpoint, "retry")
		case isRetryable(err):
			c.observe(endpoint, "error")
		default:
			c.observe(endpoint, "error")
			return err
		}
	}
	return fmt.Errorf("%s: giving up after %d attempts: %w", endpoint, c.maxRetries+1, err)
}

func (c *Client) do(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &retryableError{fmt.Errorf("GET %s: %w", path, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{fmt.Errorf("read response body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusAccepted: // collection export queued
		return &retryableError{fmt.Errorf("GET %s: request queued by BGG", path)}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &retryableError{fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)}
	default:
		return fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, truncate(body, 200))
	}

	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) retryDelay() time.Duration {
	span := c.maxDelay - c.minDelay
	if span <= 0 {
		return c.minDelay
	}
	return c.minDelay + rand.N(span)
}

func (c *Client) observe(endpoint, outcome string) {
	if c.hook != nil {
		c.hook(endpoint, outcome)
	}
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
