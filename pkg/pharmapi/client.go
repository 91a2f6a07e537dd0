// Package pharmapi implements the resilient API client and session
// lifecycle manager for the pharmacy operations backend. Every feature of
// the application funnels through this package to reach the server: it
// owns URL normalization, bounded-time dispatch with retry, bearer header
// injection, session teardown on authorization failure, the error
// taxonomy, and the login/refresh/logout token lifecycle.
package pharmapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Logger is the logging interface the client uses. It is satisfied by the
// application's internal logger; tests pass a noop.
type Logger interface {
	Debug(msg string, args ...any)
	Debugf(format string, args ...any)
	Warn(msg string, args ...any)
	Warnf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)     {}
func (noopLogger) Debugf(format string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)      {}
func (noopLogger) Warnf(format string, args ...any)  {}

// TokenStore is the key/value persistence abstraction for session
// artifacts. An empty string means the key is absent. Implementations
// never fail: a backend that cannot persist degrades silently to
// per-process storage.
type TokenStore interface {
	Get(key string) string
	Set(key, value string)
	Remove(key string)
}

// Navigator abstracts a navigable context that can be redirected to the
// login surface after session teardown. When the client has no navigator,
// teardown still clears the session but no redirect fires.
type Navigator interface {
	// Location returns the current location path.
	Location() string
	// Navigate moves the context to the given path.
	Navigate(path string)
}

// Client is the single chokepoint between feature code and the backend.
type Client struct {
	baseURL    string
	store      TokenStore
	navigator  Navigator
	loginPath  string
	httpClient *http.Client
	httpConfig HTTPConfig
	logger     Logger
}

// New creates a client with default dispatcher configuration.
func New(baseURL string, store TokenStore) *Client {
	return NewWithConfig(baseURL, store, DefaultHTTPConfig())
}

// NewWithConfig creates a client with a caller-supplied dispatcher
// configuration. Per-attempt timeouts are enforced via request contexts,
// so the underlying http.Client carries no timeout of its own.
func NewWithConfig(baseURL string, store TokenStore, cfg HTTPConfig) *Client {
	return &Client{
		baseURL:    baseURL,
		store:      store,
		loginPath:  DefaultLoginPath,
		httpClient: &http.Client{},
		httpConfig: cfg,
		logger:     noopLogger{},
	}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetNavigator attaches a navigable context for session-expiry redirects.
func (c *Client) SetNavigator(n Navigator) {
	c.navigator = n
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// buildHeaders computes the final header map for a request: JSON content
// type iff a body is present and not skipped, bearer credential iff not
// skipped and present. Caller-supplied headers win on key collision.
func (c *Client) buildHeaders(req Request) map[string]string {
	headers := make(map[string]string)
	if req.Body != nil && !req.SkipContentType {
		headers["Content-Type"] = "application/json"
	}
	if !req.SkipAuth {
		if token := c.store.Get(KeyAccessToken); token != "" {
			headers["Authorization"] = "Bearer " + token
		}
	}
	for k, v := range req.Headers {
		headers[k] = v
	}
	return headers
}

// do runs the full pipeline for one request: normalize the URL, decorate
// headers, dispatch with retry, run the session guard, and classify any
// HTTP-level failure. A returned error is always a *ClassifiedError.
func (c *Client) do(ctx context.Context, req Request) (*exchange, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	url := JoinURL(c.baseURL, req.Endpoint)
	headers := c.buildHeaders(req)

	ex, err := c.sendWithRetry(ctx, method, url, headers, req.Body)
	if err != nil {
		var cerr *ClassifiedError
		if errors.As(err, &cerr) {
			return nil, cerr
		}
		// Context errors surfaced by the retry policy's own sleep.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, newTimeoutError(c.baseURL)
		}
		return nil, newNetworkError(err)
	}

	if guardErr := c.guardSession(req.Endpoint, ex); guardErr != nil {
		return nil, guardErr
	}
	if !ex.ok() {
		return nil, classifyExchange(ex)
	}
	return ex, nil
}

// Call is the result normalizer and the only function feature code is
// allowed to invoke directly. It never panics and never returns a Go
// error: every failure is collapsed into a {Success:false, Message}
// envelope.
func (c *Client) Call(ctx context.Context, req Request) Result {
	ex, err := c.do(ctx, req)
	if err != nil {
		return failure(err)
	}

	payload := make(map[string]any)
	if len(ex.Body) > 0 {
		if err := json.Unmarshal(ex.Body, &payload); err != nil {
			c.logger.Warnf("unparseable success body from %s: %v", req.Endpoint, err)
			return Result{Success: false, Message: "Failed to parse the server response."}
		}
	}
	return Result{Success: true, Payload: payload}
}
