package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobsai/internal/utils"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultBackoff   = time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; jobsai/1.0)"

	searchAttempts = 3
	detailAttempts = 2
)

var sleep = utils.WaitFor

// FetchError describes a page that could not be fetched. Status is the last
// HTTP status seen, or 0 when no response arrived.
type FetchError struct {
	URL    string
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	switch {
	case e.Cause != nil && e.Status != 0:
		return fmt.Sprintf("fetching %s: status %d: %v", e.URL, e.Status, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Cause)
	default:
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.Status)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

var errRetriesExhausted = errors.New("retries exhausted")

// Fetcher performs GET requests with linear backoff on 429 and 503.
type Fetcher struct {
	client    *http.Client
	userAgent string
	backoff   time.Duration
	logger    *zap.Logger
}

// NewFetcher returns a Fetcher with a per-request timeout.
func NewFetcher(timeout, backoff time.Duration, userAgent string, log *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		backoff:   backoff,
		logger:    log,
	}
}

// Get returns the body of url. 429 and 503 responses and transport errors
// are retried after backoff*attempt; any other non-200 status fails at once.
func (f *Fetcher) Get(ctx context.Context, url string, attempts int) (string, error) {
	var (
		status  int
		lastErr error = errRetriesExhausted
	)

	for attempt := 1; attempt <= attempts; attempt++ {
		body, code, err := f.do(ctx, url)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", &FetchError{URL: url, Cause: ctx.Err()}
			}
			f.logger.Warn("request failed",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Error(err),
			)
			status, lastErr = 0, err
		case code == http.StatusOK:
			return body, nil
		case code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable:
			f.logger.Warn("rate limited or unavailable, backing off",
				zap.String("url", url),
				zap.Int("status", code),
				zap.Int("attempt", attempt),
			)
			status, lastErr = code, errRetriesExhausted
		default:
			f.logger.Debug("unexpected status", zap.String("url", url), zap.Int("status", code))
			return "", &FetchError{URL: url, Status: code}
		}

		if attempt == attempts {
			break
		}
		if err := sleep(ctx, f.backoff*time.Duration(attempt)); err != nil {
			return "", &FetchError{URL: url, Status: status, Cause: err}
		}
	}

	return "", &FetchError{URL: url, Status: status, Cause: lastErr}
}

func (f *Fetcher) do(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "fi-FI,fi;q=0.9,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", resp.StatusCode, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(data), resp.StatusCode, nil
}
