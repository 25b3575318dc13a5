// Package transport executes HTTP requests against a data provider. It owns
// the request timeout, client-side rate limiting, the circuit breaker,
// request ids and metrics, and maps failures onto the typed errors in
// pkg/errors. It never retries.
package transport

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/narwhalmedia/moviebrowser/internal/metrics"
	"github.com/narwhalmedia/moviebrowser/pkg/errors"
	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
	"github.com/narwhalmedia/moviebrowser/pkg/logger"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 10 * time.Second

const maxBodyBytes = 10 << 20

// Config configures a Client.
type Config struct {
	// Name labels metrics, logs and the circuit breaker, e.g. "rest".
	Name      string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
	Breaker   BreakerConfig
}

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold uint32        // consecutive failures before opening
	OpenTimeout      time.Duration // time spent open before a trial request
}

// Request is one provider call.
type Request struct {
	Op     string
	Method string
	URL    string
	Body   []byte
	Header http.Header
}

// Response is a successful provider response.
type Response struct {
	StatusCode int
	Body       []byte
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Client is a provider HTTP client.
type Client struct {
	name       string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*Response]
	header     http.Header
	logger     interfaces.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// New creates a Client.
func New(cfg Config, log interfaces.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewNoop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		name:       cfg.Name,
		timeout:    timeout,
		httpClient: &http.Client{},
		header:     make(http.Header),
		logger:     log.WithFields(interfaces.String("provider", cfg.Name)),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Name, cfg.Breaker, c.logger)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker(name string, cfg BreakerConfig, log interfaces.Logger) *gobreaker.CircuitBreaker[*Response] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	cbName := name + "-provider"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	return gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A 4xx is an answer from a healthy provider. A caller cancelling
		// the request says nothing about the provider either.
		IsSuccessful: func(err error) bool {
			code := StatusCode(err)
			return err == nil || (code >= 400 && code < 500) || stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				interfaces.String("breaker", name),
				interfaces.String("from", from.String()),
				interfaces.String("to", to.String()))
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Do executes r and returns the body of a 2xx response. Every call sends
// its own X-Request-ID. Failures are
// returned as errors.Timeout when the request deadline expired and as
// errors.Provider otherwise; a non-2xx status is a Provider error wrapping
// *StatusError.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	ctx, requestID := logger.NewRequestID(ctx)
	log := c.logger.WithContext(ctx).WithFields(interfaces.String("op", r.Op))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.execute(ctx, r, requestID)
	elapsed := time.Since(start)
	metrics.ProviderRequestDuration.WithLabelValues(c.name, r.Op).Observe(elapsed.Seconds())

	if err != nil {
		err = c.classify(r.Op, err)
		metrics.ProviderRequests.WithLabelValues(c.name, r.Op, outcome(err)).Inc()
		log.Warn("provider request failed",
			interfaces.String("url", r.URL),
			interfaces.Duration("elapsed", elapsed),
			interfaces.Error(err))
		return nil, err
	}

	metrics.ProviderRequests.WithLabelValues(c.name, r.Op, "ok").Inc()
	log.Debug("provider request completed",
		interfaces.Int("status", resp.StatusCode),
		interfaces.Duration("elapsed", elapsed))
	return resp, nil
}

func (c *Client) execute(ctx context.Context, r Request, requestID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}
	if c.breaker == nil {
		return c.roundTrip(ctx, r, requestID)
	}
	return c.breaker.Execute(func() (*Response, error) {
		return c.roundTrip(ctx, r, requestID)
	})
}

func (c *Client) roundTrip(ctx context.Context, r Request, requestID string) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range c.header {
		req.Header[k] = vs
	}
	for k, vs := range r.Header {
		req.Header[k] = vs
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func (c *Client) classify(op string, err error) error {
	if isTimeout(err) {
		return errors.Timeout(op, err)
	}
	return errors.Provider(op, err)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func outcome(err error) string {
	switch {
	case errors.IsTimeout(err):
		return "timeout"
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	case StatusCode(err) == http.StatusNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// DecodeJSON decodes a response body, reporting malformed payloads as a
// provider error for op.
func DecodeJSON(op string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Provider(op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
