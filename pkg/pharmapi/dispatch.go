package pharmapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// HTTPConfig controls the dispatcher's timeout and retry behaviour.
type HTTPConfig struct {
	// Timeout is the hard per-attempt deadline. When it fires, the
	// in-flight request is cancelled and the failure is classified as a
	// timeout, which is terminal for the call.
	Timeout time.Duration

	// RetryAttempts is the total number of transport attempts, including
	// the first one.
	RetryAttempts int

	// RetryDelay is the backoff before the first retry. Each subsequent
	// retry doubles it: RetryDelay, 2*RetryDelay, 4*RetryDelay, ...
	// No jitter is applied, so the schedule is deterministic.
	RetryDelay time.Duration
}

// DefaultHTTPConfig returns the dispatcher defaults: 60 second timeout,
// three attempts, one second base backoff.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:       60 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    1 * time.Second,
	}
}

// exchange is a completed HTTP exchange with its body fully read. Reading
// the body inside the dispatcher lets the per-attempt context be released
// before classification runs.
type exchange struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

func (ex *exchange) ok() bool {
	return ex.StatusCode >= 200 && ex.StatusCode < 300
}

// send issues exactly one HTTP exchange under the configured timeout.
// Transport failures come back already classified: timeouts and caller
// cancellation map to the terminal timeout kind, everything else to a
// retryable network (or CORS) kind. HTTP error statuses are not failures
// at this layer; the exchange is returned for the guard and classifier.
func (c *Client) send(ctx context.Context, method, url string, headers map[string]string, body []byte) (*exchange, error) {
	ctx, cancel := context.WithTimeout(ctx, c.httpConfig.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, newNetworkError(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	started := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, newTimeoutError(c.baseURL)
		}
		if mentionsCORS(err) {
			return nil, newCORSError()
		}
		return nil, newNetworkError(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, newTimeoutError(c.baseURL)
		}
		return nil, newNetworkError(err)
	}

	c.logger.Debugf("%s %s -> %d (%s)", method, url, res.StatusCode, time.Since(started).Round(time.Millisecond))

	return &exchange{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Header:     res.Header,
		Body:       resBody,
	}, nil
}

// sendWithRetry wraps send with a bounded exponential backoff. Retries
// apply only to transport failures: a timeout is terminal, and an HTTP
// error response is a successful transport exchange handled downstream,
// never retried here, because retrying a semantically-rejected request
// cannot succeed.
func (c *Client) sendWithRetry(ctx context.Context, method, url string, headers map[string]string, body []byte) (*exchange, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.httpConfig.RetryDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 1 * time.Hour
	bo.MaxElapsedTime = 0

	attempts := c.httpConfig.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var ex *exchange
	attempt := 0
	operation := func() error {
		attempt++
		result, err := c.send(ctx, method, url, headers, body)
		if err != nil {
			var cerr *ClassifiedError
			if errors.As(err, &cerr) && !cerr.Retryable() {
				return backoff.Permanent(err)
			}
			c.logger.Warnf("attempt %d/%d failed: %v", attempt, attempts, err)
			return err
		}
		ex = result
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return ex, nil
}
