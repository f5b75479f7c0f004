// Package fetch implements the Fetcher interface over resty.
// One client serves the whole run: a shared rate limiter keeps worker
// concurrency from exceeding the polite request rate, and transient
// failures are retried with exponential backoff before being reported.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/filmdex/core"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryWait    = 1 * time.Second
	defaultRetryMaxWait = 8 * time.Second
	defaultRate         = 2.0
	defaultBurst        = 2
	defaultUserAgent    = "filmdex/1.0 (https://github.com/gaurav-prasanna/filmdex)"
)

// Error reports a fetch that could not produce a page body. Transient
// errors have already exhausted the retry budget by the time callers
// see them.
type Error struct {
	URL        string
	StatusCode int
	Category   core.Category
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FailureCategory implements core.CategorizedError.
func (e *Error) FailureCategory() core.Category { return e.Category }

// Options control client behavior. Zero values fall back to defaults.
type Options struct {
	Timeout           time.Duration
	MaxAttempts       int
	RetryWait         time.Duration
	RetryMaxWait      time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.RetryWait <= 0 {
		o.RetryWait = defaultRetryWait
	}
	if o.RetryMaxWait <= 0 {
		o.RetryMaxWait = defaultRetryMaxWait
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = defaultRate
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
}

// Client fetches pages via HTTP with retries and rate limiting.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New creates a Client with the given options.
func New(opts Options, log *zap.Logger) *Client {
	opts.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("User-Agent", opts.UserAgent)
	httpClient.SetHeader("Accept", "text/html,application/xhtml+xml")
	httpClient.SetRetryCount(opts.MaxAttempts - 1)
	httpClient.SetRetryWaitTime(opts.RetryWait)
	httpClient.SetRetryMaxWaitTime(opts.RetryMaxWait)
	httpClient.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return isRetryableError(err)
		}
		return isRetryableStatus(resp.StatusCode())
	})

	limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{http: httpClient, log: log}
}

// Fetch retrieves url and returns its body. Redirects are followed to
// the terminal response; the returned error, if any, is an *Error
// carrying the failure category.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	c.log.Debug("fetching page", zap.String("url", url))

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		category := core.CategoryPermanentFetch
		if isRetryableError(err) {
			category = core.CategoryTransientFetch
		}
		return nil, &Error{URL: url, Category: category, Err: err}
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return resp.Body(), nil
	case isRetryableStatus(status):
		return nil, &Error{URL: url, StatusCode: status, Category: core.CategoryTransientFetch}
	default:
		return nil, &Error{URL: url, StatusCode: status, Category: core.CategoryPermanentFetch}
	}
}

// isRetryableStatus reports whether a status code is worth retrying:
// timeouts, throttling, and server errors.
func isRetryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= 500
}

// isRetryableError reports whether a transport error is transient.
func isRetryableError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
