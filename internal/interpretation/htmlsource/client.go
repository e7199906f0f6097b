// Package htmlsource scrapes dream symbol interpretations from a dream-book website.
package htmlsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/at-ishikawa/sonnik/internal/config"
	"github.com/at-ishikawa/sonnik/internal/interpretation"
)

// Limiter paces requests to the site. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

type Client struct {
	httpClient *resty.Client
	config     config.SourceConfig
	limiter    Limiter
	retryDelay time.Duration
}

var _ interpretation.Fetcher = (*Client)(nil)

type Option func(*Client)

func WithLimiter(limiter Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithRetryDelay sets the base delay of the exponential backoff between attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = delay
	}
}

func NewClient(cfg config.SourceConfig, opts ...Option) *Client {
	httpClient := resty.New()
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}

	client := &Client{
		httpClient: httpClient,
		config:     cfg,
		limiter:    newLimiter(cfg.RequestInterval),
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

type statusError struct {
	statusCode int
	body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status code: %d, body: %s", e.statusCode, e.body)
}

// Fetch implements interpretation.Fetcher.
func (c *Client) Fetch(ctx context.Context, term string) (string, error) {
	var text string
	var lastErr error
	err := retry.Do(
		func() error {
			text, lastErr = c.fetch(ctx, term)
			return lastErr
		},
		retry.Context(ctx),
		retry.Attempts(c.config.RetryAttempts+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying interpretation lookup",
				"attempt", n+1,
				"term", term,
				"error", err)
		}),
	)
	if lastErr != nil {
		return "", fmt.Errorf("lookup %q > %w", term, lastErr)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) fetch(ctx context.Context, term string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("limiter.Wait > %w", err)
	}

	res, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam(c.config.QueryParam, term).
		Get(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", &statusError{statusCode: res.StatusCode(), body: truncate(res.String(), 200)}
	}

	text, err := findInterpretation(bytes.NewReader(res.Body()), c.config.HeadingTag, term)
	if err != nil {
		return "", fmt.Errorf("findInterpretation > %w", err)
	}
	return text, nil
}

// isRetryableError retries network failures, 5xx and 429 responses
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, interpretation.ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.statusCode >= http.StatusInternalServerError ||
			statusErr.statusCode == http.StatusTooManyRequests
	}
	return true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
