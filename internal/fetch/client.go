package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// browserHeaders are sent on every request; some government endpoints
// reject requests without them.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Accept":          "application/json, application/xml, text/xml, */*",
	"Accept-Language": "en-US,en;q=0.9,ne;q=0.8",
}

// Client wraps an HTTP client with per-domain rate limiting and bounded
// retries with exponential backoff.
type Client struct {
	httpClient *http.Client
	limiter    *RateLimiter
	maxRetries int
	logger     *slog.Logger

	backoffBase time.Duration
}

// NewClient builds a rate-limited client. maxRetries counts attempts after
// the first; a timeout of zero disables the per-request deadline.
func NewClient(limiter *RateLimiter, timeout time.Duration, maxRetries int, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     limiter,
		maxRetries:  maxRetries,
		logger:      logger,
		backoffBase: time.Second,
	}
}

// Get fetches url, retrying on transport errors and retryable status codes.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	domain := parsed.Hostname()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.backoffBase << (attempt - 1)
			c.logger.Warn("retrying fetch", "url", rawURL, "attempt", attempt, "backoff", backoff, "error", lastErr)
			if err := sleepContext(ctx, backoff); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Acquire(ctx, domain); err != nil {
			return nil, err
		}

		body, retryable, err := c.doGet(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetching %s: %w", rawURL, lastErr)
}

func (c *Client) doGet(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("reading body of %s: %w", rawURL, err)
		}
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
}
