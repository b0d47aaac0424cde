// Package fetcher is the HTTP collaborator in front of the audit engine.
// It retrieves raw HTML plus the response metadata the engine consumes,
// retrying transient upstream failures with exponential backoff.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/auditkit/auditkit/internal/models"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultUserAgent   = "AuditKitBot/1.0 (+https://github.com/auditkit/auditkit)"
	defaultMaxAttempts = 4
	defaultMaxBody     = 10 << 20 // 10 MB
	backoffBase        = 500 * time.Millisecond
)

// Result is a fetched page: the raw body and the metadata the audit
// engine's performance and security checks consume.
type Result struct {
	HTML       string
	StatusCode int
	Meta       models.ResponseMeta
}

// Fetcher retrieves pages with a bounded timeout, capped body size, and
// a politeness limiter shared across requests.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	userAgent   string
	maxAttempts int
	maxBody     int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithMaxAttempts overrides the retry budget for 429/5xx responses.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithRequestsPerSecond overrides the outbound politeness limit.
func WithRequestsPerSecond(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(n), n)
		}
	}
}

// New creates a Fetcher with a 20s timeout, 4 retry attempts, and a
// 10 requests/second politeness limit.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(10), 10),
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		maxBody:     defaultMaxBody,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the page at targetURL. Responses with status 429 or
// 5xx are retried with exponential backoff up to the attempt budget;
// any other non-2xx status fails immediately. The returned metadata
// carries lowercased headers, the measured load time, and the body size.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, backoffBase<<(attempt-1)); err != nil {
				return nil, err
			}
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, retry, err := f.fetchOnce(ctx, targetURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, fmt.Errorf("fetching %s: %w", targetURL, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, targetURL string) (result *Result, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		// Network errors are retried; they are as transient as a 503.
		return nil, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, true, err
	}
	loadTime := time.Since(start)

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("upstream returned %s", resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, fmt.Errorf("upstream returned %s", resp.Status)
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		if len(values) > 0 {
			headers[strings.ToLower(key)] = values[0]
		}
	}

	return &Result{
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		Meta: models.ResponseMeta{
			Headers:       headers,
			LoadTimeMs:    loadTime.Milliseconds(),
			HTMLSizeBytes: len(body),
		},
	}, false, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
