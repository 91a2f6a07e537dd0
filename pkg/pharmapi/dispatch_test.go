package pharmapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:       2 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    50 * time.Millisecond,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	// Fail the first two attempts at the transport level by closing the
	// connection without writing a response.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()

		if n <= 2 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewWithConfig(server.URL, newMapStore(), testConfig())

	started := time.Now()
	result := client.Call(context.Background(), Request{Endpoint: "/ping", Method: http.MethodPost, Body: []byte(`{}`)})
	elapsed := time.Since(started)

	assert.True(t, result.Success)
	assert.Equal(t, 3, attempts)
	// Backoffs of 50ms and 100ms must both have elapsed.
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
}

func TestTimeoutIsTerminal(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond
	client := NewWithConfig(server.URL, newMapStore(), cfg)

	_, err := client.do(context.Background(), Request{Endpoint: "/slow"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Contains(t, err.Error(), server.URL)

	// Cancellation is terminal: no further attempts may have been made.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, attempts)
}

func TestHTTPErrorResponsesAreNotRetried(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWithConfig(server.URL, newMapStore(), testConfig())

	_, err := client.do(context.Background(), Request{Endpoint: "/boom"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHTTPServerError))
	assert.Equal(t, 1, attempts, "HTTP error responses are successful transport exchanges, never retried")
}

func TestRetriesExhaustedPropagatesFailure(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		hj := w.(http.Hijacker)
		conn, _, _ := hj.Hijack()
		conn.Close()
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.RetryDelay = 5 * time.Millisecond
	client := NewWithConfig(server.URL, newMapStore(), cfg)

	_, err := client.do(context.Background(), Request{Endpoint: "/flaky", Method: http.MethodPost, Body: []byte(`{}`)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetworkUnreachable))
	assert.Equal(t, 3, attempts)
}

func TestDispatchAttachesRequestID(t *testing.T) {
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewWithConfig(server.URL, newMapStore(), testConfig())
	result := client.Call(context.Background(), Request{Endpoint: "/ping"})

	assert.True(t, result.Success)
	assert.NotEmpty(t, requestID)
}

func TestDefaultHTTPConfig(t *testing.T) {
	cfg := DefaultHTTPConfig()
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 1*time.Second, cfg.RetryDelay)
}
