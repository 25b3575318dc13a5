package transport

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
)

func TestDoReturnsBodyAndSendsHeaders(t *testing.T) {
	var gotRequestID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(Config{Name: "test"}, nil, WithHeader("Authorization", "Bearer token"))
	resp, err := c.Do(context.Background(), Request{Op: "ping", URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "Bearer token", gotAuth)
}

func TestDoMapsNon2xxToProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{Name: "test"}, nil)
	_, err := c.Do(context.Background(), Request{Op: "fetchByCategory", URL: srv.URL})
	require.Error(t, err)

	assert.True(t, errors.IsProvider(err))
	assert.False(t, errors.IsTimeout(err))
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "fetchByCategory", appErr.Op)
}

func TestDoMapsDeadlineToTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{Name: "test", Timeout: 20 * time.Millisecond}, nil)
	_, err := c.Do(context.Background(), Request{Op: "getDetails", URL: srv.URL})
	require.Error(t, err)

	assert.True(t, errors.IsTimeout(err))
	assert.True(t, errors.IsProvider(err))
}

func TestDoMapsNetworkErrorToProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{Name: "test"}, nil)
	_, err := c.Do(context.Background(), Request{Op: "search", URL: url})
	require.Error(t, err)
	assert.True(t, errors.IsProvider(err))
	assert.Equal(t, 0, StatusCode(err))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{
		Name:    "test",
		Breaker: BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute},
	}, nil)

	for i := 0; i < 2; i++ {
		_, err := c.Do(context.Background(), Request{Op: "popular", URL: srv.URL})
		require.Error(t, err)
	}

	_, err := c.Do(context.Background(), Request{Op: "popular", URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.IsProvider(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{
		Name:    "test",
		Breaker: BreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute},
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := c.Do(context.Background(), Request{Op: "getDetails", URL: srv.URL})
		assert.Equal(t, http.StatusNotFound, StatusCode(err))
	}
}

func TestBreakerIgnoresCancelledRequests(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
			<-r.Context().Done()
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{
		Name:    "test",
		Breaker: BreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	_, err := c.Do(ctx, Request{Op: "getCredits", URL: srv.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.Do(context.Background(), Request{Op: "getCredits", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestEachRequestGetsItsOwnID(t *testing.T) {
	ids := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get("X-Request-ID")
	}))
	defer srv.Close()

	c := New(Config{Name: "test"}, nil)
	ctx, invocation := logger.WithInvocationID(context.Background())
	ctx, _ = logger.WithRequestID(ctx)
	for i := 0; i < 2; i++ {
		_, err := c.Do(ctx, Request{Op: "getDetails", URL: srv.URL})
		require.NoError(t, err)
	}

	first, second := <-ids, <-ids
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, invocation, first)
	assert.Equal(t, invocation, logger.InvocationID(ctx))
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := New(Config{Name: "test", RateLimit: 0.001, Burst: 1}, nil)
	_, err := c.Do(context.Background(), Request{Op: "genres", URL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Do(ctx, Request{Op: "genres", URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.IsProvider(err))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		ID int `json:"id"`
	}
	require.NoError(t, DecodeJSON("getDetails", []byte(`{"id":5}`), &v))
	assert.Equal(t, 5, v.ID)

	err := DecodeJSON("getDetails", []byte(`{"id":`), &v)
	assert.True(t, errors.IsProvider(err))
}
