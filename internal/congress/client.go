package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"github.com/jskelly/legisync/internal/config"
	"github.com/jskelly/legisync/internal/logger"
)

// FetchError is returned when one logical fetch has exhausted all retry
// attempts. It records the request URL (without credentials), the attempt
// count, and wraps the last underlying cause.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// httpStatusError marks a completed response with a non-2xx status. It is
// retryable like a transport failure; the body is captured for diagnostics.
type httpStatusError struct {
	Status int
	Body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// Client talks to the congress.gov API. All requests carry the API key and a
// custom user agent; each attempt has an independent hard timeout, and one
// logical fetch retries with exponential backoff and full jitter.
type Client struct {
	http      *resty.Client
	baseURL   string
	apiKey    string
	pageLimit int
	retryCfg  config.RetryConfig
	logger    *logger.Logger
}

// NewClient creates a new congress.gov API client.
// Parameters:
//   - cfg: upstream API configuration including credentials and retry policy.
//   - log: logger instance.
//
// Returns:
//   - *Client: initialized client.
func NewClient(cfg *config.CongressConfig, log *logger.Logger) *Client {
	client := resty.New()
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetHeader("X-Api-Key", cfg.APIKey)
	// Hard timeout per attempt, not per logical fetch
	client.SetTimeout(cfg.Retry.RequestTimeout)

	return &Client{
		http:      client,
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		pageLimit: cfg.PageLimit,
		retryCfg:  cfg.Retry,
		logger:    log,
	}
}

// log returns a logger from context if available, otherwise returns the default logger
func (c *Client) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return c.logger
}

// PageLimit returns the configured page size for member listings.
func (c *Client) PageLimit() int {
	return c.pageLimit
}

// FetchMembers retrieves one page of the member list for a congress.
// The fetch is retried up to the configured attempt count; exhaustion returns
// a *FetchError wrapping the last cause. No attempt state is shared between
// independent calls.
func (c *Client) FetchMembers(ctx context.Context, congressNum, offset int) (*MemberPage, error) {
	// Credential-free URL used for logs and errors
	url := fmt.Sprintf("%s/member?congress=%d&limit=%d&offset=%d", c.baseURL, congressNum, c.pageLimit, offset)

	var page MemberPage
	attempts := 0

	err := retry.Do(
		func() error {
			attempts++
			start := time.Now()

			resp, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"congress": fmt.Sprintf("%d", congressNum),
					"limit":    fmt.Sprintf("%d", c.pageLimit),
					"offset":   fmt.Sprintf("%d", offset),
					"api_key":  c.apiKey,
				}).
				Get(c.baseURL + "/member")
			if err != nil {
				c.log(ctx).WithFields(logger.Fields{
					logger.FieldURL:        url,
					logger.FieldAttempt:    attempts,
					logger.FieldDurationMs: time.Since(start).Milliseconds(),
				}).WithError(err).Warn("Fetch attempt failed")
				return err
			}

			if !resp.IsSuccess() {
				statusErr := &httpStatusError{Status: resp.StatusCode(), Body: string(resp.Body())}
				c.log(ctx).WithFields(logger.Fields{
					logger.FieldURL:        url,
					logger.FieldAttempt:    attempts,
					logger.FieldStatus:     resp.StatusCode(),
					logger.FieldDurationMs: time.Since(start).Milliseconds(),
				}).Warn("Fetch attempt returned non-2xx status")
				return statusErr
			}

			if err := json.Unmarshal(resp.Body(), &page); err != nil {
				return fmt.Errorf("decode member page: %w", err)
			}

			c.log(ctx).WithFields(logger.Fields{
				logger.FieldURL:        url,
				logger.FieldAttempt:    attempts,
				logger.FieldStatus:     resp.StatusCode(),
				logger.FieldCount:      len(page.Members),
				logger.FieldDurationMs: time.Since(start).Milliseconds(),
			}).Debug("Fetch attempt succeeded")
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.retryCfg.MaxAttempts)),
		retry.DelayType(c.fullJitterDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, &FetchError{URL: url, Attempts: attempts, Err: err}
	}

	return &page, nil
}

// fullJitterDelay computes the wait after the n-th failure (zero-based) as a
// uniformly random duration in [0, baseDelay * multiplier^n]. Randomizing the
// whole window desynchronizes retry storms across concurrent callers.
func (c *Client) fullJitterDelay(n uint, _ error, _ *retry.Config) time.Duration {
	delay := float64(c.retryCfg.BaseDelay)
	for i := uint(0); i < n; i++ {
		delay *= c.retryCfg.BackoffMultiplier
	}
	return time.Duration(rand.Int63n(int64(delay) + 1))
}
