package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/questboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/questboard/internal/platform/config"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/questboard/internal/adapters/clients"

	// httpStatusCategoryDivisor turns 404 into 4 for the "4xx" label.
	httpStatusCategoryDivisor = 100

	// jitterRangeMultiplier maps rand [0,1) onto [-1,1).
	jitterRangeMultiplier = 2
)

// Config configures a Client.
type Config struct {
	// BaseURL is prefixed to every path, e.g. "http://localhost:8000/api".
	BaseURL string

	// ServiceName identifies the backend in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff can make the
	// whole call take longer.
	Timeout time.Duration

	// DefaultHeaders are sent with every request that does not set them.
	DefaultHeaders map[string]string

	Retry   config.RetryConfig
	Circuit config.CircuitBreakerConfig
	Pool    config.TransportConfig

	// Transport replaces the pooled transport built from Pool. Tests use it
	// to fake the network.
	Transport http.RoundTripper

	// Interceptors run inside the logging interceptor, outermost first.
	Interceptors []Interceptor

	Logger *slog.Logger
}

// ConfigFrom builds a client Config from the application settings.
func ConfigFrom(cfg *config.Config, logger *slog.Logger) *Config {
	return &Config{
		BaseURL:        cfg.API.URL,
		ServiceName:    cfg.API.Name,
		Timeout:        cfg.Client.Timeout,
		DefaultHeaders: cfg.API.Headers,
		Retry:          cfg.Client.Retry,
		Circuit:        cfg.Client.CircuitBreaker,
		Pool:           cfg.Client.Transport,
		Logger:         logger,
	}
}

// Client is the instrumented HTTP client for the quest backend. One Client
// is built at startup and shared by every service; it is safe for
// concurrent use.
//
// Non-2xx answers come back as *ResponseError with the body already read.
// Reads (GET, HEAD, OPTIONS) are retried with exponential backoff and jitter
// when no response arrives or the backend answers 5xx or 429. Every other
// method is sent exactly once.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	cfg         *Config
	logger      *slog.Logger
	cb          *CircuitBreaker

	tracer          trace.Tracer
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New builds a Client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultClientTimeout
	}

	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	cb := NewCircuitBreaker(cfg.Circuit)
	cb.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	c := &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName: cfg.ServiceName,
		cfg:         cfg,
		logger:      logger,
		cb:          cb,
		tracer:      otel.Tracer(instrumentationName),
	}

	if err := c.initMetrics(otel.Meter(instrumentationName)); err != nil {
		return nil, err
	}

	base := cfg.Transport
	if base == nil {
		base = newTransport(cfg.Pool)
	}

	interceptors := append([]Interceptor{
		LoggingInterceptor(cfg.ServiceName),
		HeaderInterceptor(cfg.DefaultHeaders),
	}, cfg.Interceptors...)

	c.http = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: chain(base, interceptors...),
	}

	return c, nil
}

func newTransport(pool config.TransportConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if pool.MaxIdleConns > 0 {
		t.MaxIdleConns = pool.MaxIdleConns
	}

	if pool.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = pool.MaxIdleConnsPerHost
	}

	if pool.IdleConnTimeout > 0 {
		t.IdleConnTimeout = pool.IdleConnTimeout
	}

	return t
}

func (c *Client) initMetrics(meter metric.Meter) error {
	var err error

	c.requestDuration, err = meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of quest backend requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating duration metric: %w", err)
	}

	c.requestTotal, err = meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of quest backend requests"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	_, err = meter.Int64ObservableGauge(
		"http.client.circuit.state",
		metric.WithDescription("Circuit breaker state: 0 closed, 1 open, 2 half-open"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(c.cb.State()), metric.WithAttributes(attribute.String("peer.service", c.serviceName)))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("creating circuit gauge: %w", err)
	}

	return nil
}

// Do sends req. A 2xx response is returned open for the caller to read and
// close; every other outcome is an error: *ResponseError, *NoResponseError
// or *SetupError, possibly wrapped in ErrMaxRetriesExceeded.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	if !c.cb.Allow() {
		c.recordMetrics(ctx, req.Method, 0, time.Since(start), "circuit_open")
		logging.FromContext(ctx).Warn("request blocked by circuit breaker",
			slog.String("downstream", c.serviceName),
			slog.String("method", req.Method),
		)

		return nil, &NoResponseError{Method: req.Method, URL: req.URL.String(), Err: ErrCircuitOpen}
	}

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	c.injectHeaders(ctx, req)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, attempts, err := c.executeWithRetry(ctx, req)

	return c.recordResult(ctx, req, resp, attempts, err, span, start)
}

// executeWithRetry returns the final response or error and how many
// attempts were made.
func (c *Client) executeWithRetry(ctx context.Context, req *http.Request) (*http.Response, int, error) {
	maxAttempts := 1
	if isReplayable(req.Method) {
		maxAttempts = c.cfg.Retry.MaxAttempts
	}

	var lastErr error

	for attempt := range maxAttempts {
		if attempt > 0 {
			if err := c.waitForRetry(ctx, attempt, lastErr); err != nil {
				return nil, attempt, lastErr
			}
		}

		attemptReq, err := rewind(ctx, req)
		if err != nil {
			return nil, attempt + 1, err
		}

		resp, err := c.http.Do(attemptReq)
		if err != nil {
			lastErr = &NoResponseError{Method: req.Method, URL: req.URL.String(), Err: err}
			if ctx.Err() != nil {
				return nil, attempt + 1, lastErr
			}

			continue
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			return resp, attempt + 1, nil
		}

		respErr := newResponseError(req, resp)
		lastErr = respErr

		if !isRetryableStatus(respErr.StatusCode) {
			return nil, attempt + 1, respErr
		}
	}

	return nil, maxAttempts, lastErr
}

// rewind clones req for one attempt, refreshing the body when it can be
// replayed.
func rewind(ctx context.Context, req *http.Request) (*http.Request, error) {
	attemptReq := req.Clone(ctx)
	if req.GetBody == nil {
		return attemptReq, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, &SetupError{Op: "rewind request body", Err: err}
	}

	attemptReq.Body = body

	return attemptReq, nil
}

func (c *Client) waitForRetry(ctx context.Context, attempt int, lastErr error) error {
	backoff := c.calculateBackoff(attempt)
	logging.FromContext(ctx).Debug("retrying request",
		slog.String("downstream", c.serviceName),
		slog.Int("attempt", attempt+1),
		slog.Duration("backoff", backoff),
		slog.Any("error", lastErr),
	)

	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) recordResult(
	ctx context.Context,
	req *http.Request,
	resp *http.Response,
	attempts int,
	err error,
	span trace.Span,
	start time.Time,
) (*http.Response, error) {
	duration := time.Since(start)
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("attempts", attempts),
		slog.Duration("duration", duration),
	)

	span.SetAttributes(attribute.Int("http.attempts", attempts))

	if err == nil {
		c.cb.RecordSuccess()
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		c.recordMetrics(ctx, req.Method, resp.StatusCode, duration, statusCategory(resp.StatusCode))
		logger.Debug("request completed", slog.Int("status", resp.StatusCode))

		return resp, nil
	}

	span.SetStatus(codes.Error, err.Error())

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		span.SetAttributes(attribute.Int("http.status_code", respErr.StatusCode))
		c.recordMetrics(ctx, req.Method, respErr.StatusCode, duration, statusCategory(respErr.StatusCode))

		if respErr.StatusCode >= http.StatusInternalServerError {
			c.cb.RecordFailure()
		} else {
			c.cb.RecordSuccess()
		}

		logger.Debug("request rejected", slog.Int("status", respErr.StatusCode))
	} else {
		var setupErr *SetupError
		if errors.As(err, &setupErr) {
			c.cb.RecordSuccess()
			c.recordMetrics(ctx, req.Method, 0, duration, "setup_error")
			logger.Error("request setup failed", slog.String("failure", failureSetup), slog.Any("error", err))

			return nil, err
		}

		c.cb.RecordFailure()
		c.recordMetrics(ctx, req.Method, 0, duration, "error")
		logger.Error("request failed", slog.Any("error", err))
	}

	if attempts > 1 {
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, attempts, err)
	}

	return nil, err
}

// Get sends a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, query, nil)
}

// Post sends a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, path, nil, body)
}

// Put sends a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.send(ctx, http.MethodPut, path, nil, body)
}

// Patch sends a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.send(ctx, http.MethodPatch, path, nil, body)
}

// Delete sends a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.send(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	target := c.buildURL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		logging.FromContext(ctx).Error("request setup failed",
			slog.String("downstream", c.serviceName),
			slog.String("method", method),
			slog.String("failure", failureSetup),
			slog.Any("error", err),
		)

		return nil, &SetupError{Op: "creating request", Err: err}
	}

	if body != http.NoBody {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.Do(ctx, req)
}

// CircuitState returns the breaker's current state.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

// BaseURL returns the backend URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// injectHeaders forwards the caller's request and correlation IDs.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// calculateBackoff returns initial * multiplier^(attempt-1), capped at the
// max interval, with symmetric jitter.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	r := c.cfg.Retry

	backoff := float64(r.InitialInterval) * math.Pow(r.Multiplier, float64(attempt-1))
	if r.MaxInterval > 0 && backoff > float64(r.MaxInterval) {
		backoff = float64(r.MaxInterval)
	}

	jitter := rand.Float64()*jitterRangeMultiplier - 1 //nolint:gosec // jitter needs no crypto randomness
	backoff += backoff * r.JitterFactor * jitter

	return time.Duration(backoff)
}

func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func statusCategory(code int) string {
	return fmt.Sprintf("%dxx", code/httpStatusCategoryDivisor)
}

// isReplayable reports whether a request may be sent again after a failure.
// Only reads qualify: a replayed DELETE whose first attempt landed answers
// 404 for an action that succeeded.
func isReplayable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
