package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/masq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/clients/params"
	"github.com/jsamuelsen/axcelerate-go/internal/domain"
	"github.com/jsamuelsen/axcelerate-go/internal/platform/logging"
)

const (
	// instrumentationName is used for OpenTelemetry tracer and meter.
	instrumentationName = "github.com/jsamuelsen/axcelerate-go/internal/adapters/clients"

	// httpStatusCategoryDivisor divides status code to get category (2xx, 4xx, 5xx).
	httpStatusCategoryDivisor = 100

	// DefaultServiceName labels logs, spans and metrics.
	DefaultServiceName = "axcelerate"

	// DefaultTimeout is the per-attempt timeout when none is configured.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryAttempts is the number of retries after the first attempt.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the base of the linear backoff.
	DefaultRetryDelay = time.Second

	// apiPrefix is inserted between the base URL and every endpoint path.
	apiPrefix = "/api/"

	transportMaxIdleConns        = 100
	transportMaxIdleConnsPerHost = 10
	transportIdleConnTimeout     = 90 * time.Second
)

// Auth header names expected by the LMS.
const (
	HeaderWSToken  = "wstoken"
	HeaderAPIToken = "apitoken"
)

// BreakerConfig configures the optional circuit breaker. A zero MaxFailures
// disables it.
type BreakerConfig struct {
	MaxFailures    int
	Cooldown       time.Duration
	ProbeSuccesses int
}

// TransportConfig sizes the connection pool of the default transport.
type TransportConfig struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// Config configures a Client. New copies it; later changes have no effect.
type Config struct {
	// BaseURL is the tenant URL, e.g. "https://acme.app.axcelerate.com".
	BaseURL string

	// WSToken and APIToken authenticate every request.
	WSToken  string
	APIToken string

	// Timeout bounds each attempt, not the whole call. Zero means DefaultTimeout.
	Timeout time.Duration

	// RetryAttempts is the number of retries after the first attempt. Nil
	// means DefaultRetryAttempts; point at 0 to disable retries.
	RetryAttempts *int

	// RetryDelay is the base of the linear backoff. Nil means DefaultRetryDelay.
	RetryDelay *time.Duration

	// LogRequests logs every attempt and response at info level with the
	// auth headers redacted.
	LogRequests bool

	// ServiceName labels logs, spans and metrics.
	ServiceName string

	Breaker   BreakerConfig
	Transport TransportConfig

	// HTTPClient replaces the pooled default client. Its Timeout is set to
	// Timeout when zero.
	HTTPClient *http.Client

	// Logger is an optional logger. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Request describes one logical call. Query is sent in order; Body is
// marshalled once and replayed on every attempt.
type Request struct {
	Method string
	Path   string
	Query  params.Params
	Body   any
}

// Client is the authenticated, retrying pipeline every endpoint call goes
// through. It is safe for concurrent use.
type Client struct {
	http          *http.Client
	baseURL       string
	wsToken       string
	apiToken      string
	serviceName   string
	retryAttempts int
	retryDelay    time.Duration
	logRequests   bool
	logger        *slog.Logger
	breaker       *Breaker
	redact        func(groups []string, a slog.Attr) slog.Attr

	tracer          trace.Tracer
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New validates cfg and builds a Client. BaseURL is checked first, then the
// tokens, then the numeric settings.
func New(cfg *Config) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, domain.NewConfigurationError("base_url", domain.MessageMissingBaseURL)
	}

	if cfg.WSToken == "" || cfg.APIToken == "" {
		return nil, domain.NewMissingTokensError()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, domain.NewConfigurationError("base_url",
			fmt.Sprintf("Base URL must be an absolute URL, got %q", cfg.BaseURL))
	}

	retryAttempts := DefaultRetryAttempts
	if cfg.RetryAttempts != nil {
		retryAttempts = *cfg.RetryAttempts
	}
	if retryAttempts < 0 {
		return nil, domain.NewConfigurationError("retry_attempts",
			fmt.Sprintf("Retry attempts must not be negative, got %d", retryAttempts))
	}

	retryDelay := DefaultRetryDelay
	if cfg.RetryDelay != nil {
		retryDelay = *cfg.RetryDelay
	}
	if retryDelay < 0 {
		return nil, domain.NewConfigurationError("retry_delay",
			fmt.Sprintf("Retry delay must not be negative, got %s", retryDelay))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", serviceName),
	)

	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"axcelerate.client.request.duration",
		metric.WithDescription("Duration of LMS API calls including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"axcelerate.client.request.total",
		metric.WithDescription("Total number of LMS API calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	c := &Client{
		http:            newHTTPClient(cfg.HTTPClient, cfg.Transport, timeout),
		baseURL:         baseURL,
		wsToken:         cfg.WSToken,
		apiToken:        cfg.APIToken,
		serviceName:     serviceName,
		retryAttempts:   retryAttempts,
		retryDelay:      retryDelay,
		logRequests:     cfg.LogRequests,
		logger:          logger,
		redact:          masq.New(masq.WithFieldName(HeaderWSToken), masq.WithFieldName(HeaderAPIToken)),
		tracer:          tracer,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}

	c.breaker = newBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Cooldown, cfg.Breaker.ProbeSuccesses,
		func(from, to State) {
			logger.Warn("circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		})

	return c, nil
}

func newHTTPClient(base *http.Client, tc TransportConfig, timeout time.Duration) *http.Client {
	if base != nil {
		clone := *base
		if clone.Timeout == 0 {
			clone.Timeout = timeout
		}

		return &clone
	}

	if tc.MaxIdleConns <= 0 {
		tc.MaxIdleConns = transportMaxIdleConns
	}
	if tc.MaxIdleConnsPerHost <= 0 {
		tc.MaxIdleConnsPerHost = transportMaxIdleConnsPerHost
	}
	if tc.IdleConnTimeout <= 0 {
		tc.IdleConnTimeout = transportIdleConnTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        tc.MaxIdleConns,
			MaxIdleConnsPerHost: tc.MaxIdleConnsPerHost,
			IdleConnTimeout:     tc.IdleConnTimeout,
		},
	}
}

// Get sends a GET with query parameters in the order given.
func (c *Client) Get(ctx context.Context, path string, query params.Params) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post sends body as JSON. A nil body is sent as {}.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put sends body as JSON. A nil body is sent as {}.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete sends a DELETE without a body.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// BaseURL returns the normalized tenant URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CircuitState returns the breaker state, or StateClosed when the breaker is disabled.
func (c *Client) CircuitState() State {
	if c.breaker == nil {
		return StateClosed
	}

	return c.breaker.State()
}

// Do executes req with retry, tracing, logging and error classification.
// It returns either a Response holding valid JSON or exactly one domain error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()
	endpoint := strings.TrimLeft(req.Path, "/")
	target := c.buildURL(endpoint, req.Query)
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("method", req.Method),
		slog.String("endpoint", endpoint),
	)

	payload, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	if _, err := http.NewRequestWithContext(ctx, req.Method, target, http.NoBody); err != nil {
		return nil, domain.NewValidationErrorWithValue("path", params.RuleInvalidPath,
			fmt.Sprintf("Request path cannot form a valid URL: %v", err), req.Path)
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			c.recordMetrics(ctx, req.Method, endpoint, 0, time.Since(startTime), "circuit_open")
			logger.Warn("request blocked by circuit breaker")
			return nil, domain.NewTransportError(req.Method, target, err)
		}
	}

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("LMS %s %s", req.Method, endpoint),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", target),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	resp, attemptErr := c.executeWithRetry(ctx, req.Method, target, payload, logger)

	if c.breaker != nil {
		if ctx.Err() != nil {
			c.breaker.Release()
		} else {
			c.breaker.Record(isRetryable(resp, attemptErr))
		}
	}

	out, err := classify(req.Method, target, resp, attemptErr)

	c.recordResult(ctx, req.Method, endpoint, resp, err, span, logger, startTime)

	return out, err
}

// executeWithRetry runs attempts until one succeeds, fails permanently, or the
// retry budget is spent. It returns the last observed response or error.
func (c *Client) executeWithRetry(ctx context.Context, method, target string, payload []byte, logger *slog.Logger) (*Response, error) {
	for retries := 0; ; retries++ {
		if retries > 0 {
			if err := c.waitForRetry(ctx, retries, logger); err != nil {
				return nil, err
			}
		}

		resp, err := c.attempt(ctx, method, target, payload, logger)

		if !isRetryable(resp, err) || ctx.Err() != nil {
			return resp, err
		}

		if retries >= c.retryAttempts {
			return resp, err
		}

		attrs := []any{slog.Int("attempt", retries+1)}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		} else {
			attrs = append(attrs, slog.Int("status", resp.StatusCode))
		}
		logger.Debug("request attempt failed, will retry", attrs...)
	}
}

// waitForRetry sleeps RetryDelay * retry, returning early when ctx is done.
func (c *Client) waitForRetry(ctx context.Context, retry int, logger *slog.Logger) error {
	backoff := c.retryDelay * time.Duration(retry)
	logger.Debug("retrying request",
		slog.Int("retry", retry),
		slog.Duration("backoff", backoff),
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

// attempt performs one HTTP exchange and reads the whole body.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, logger *slog.Logger) (*Response, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.injectHeaders(ctx, httpReq)

	if c.logRequests {
		logger.Info("axcelerate API request",
			slog.String("method", method),
			slog.String("uri", target),
			c.headerAttr(httpReq.Header),
		)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			logger.Debug("failed to close response body", slog.Any("error", closeErr))
		}
	}()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.logRequests {
		logger.Info("axcelerate API response",
			slog.Int("status", httpResp.StatusCode),
			c.headerAttr(httpResp.Header),
		)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// injectHeaders sets the JSON and auth headers and propagates trace context.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderWSToken, c.wsToken)
	req.Header.Set(HeaderAPIToken, c.apiToken)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// headerAttr renders headers as a lowercase-keyed map with auth values masked.
func (c *Client) headerAttr(h http.Header) slog.Attr {
	headers := make(map[string]string, len(h))
	for name, values := range h {
		headers[strings.ToLower(name)] = strings.Join(values, ", ")
	}

	return c.redact(nil, slog.Any("headers", headers))
}

// recordResult updates the span, metrics and logs for the finished call.
func (c *Client) recordResult(ctx context.Context, method, endpoint string, resp *Response, err error, span trace.Span, logger *slog.Logger, startTime time.Time) {
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		result := "error"
		if statusCode > 0 {
			result = fmt.Sprintf("%dxx", statusCode/httpStatusCategoryDivisor)
		}
		c.recordMetrics(ctx, method, endpoint, statusCode, duration, result)
		logger.Warn("request failed",
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)

		return
	}

	c.recordMetrics(ctx, method, endpoint, statusCode, duration,
		fmt.Sprintf("%dxx", statusCode/httpStatusCategoryDivisor))

	logger.Debug("request completed",
		slog.Int("status", statusCode),
		slog.Duration("duration", duration),
	)
}

// recordMetrics records request metrics.
func (c *Client) recordMetrics(ctx context.Context, method, endpoint string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("endpoint", endpoint),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// buildURL joins the base URL, the API prefix, the endpoint and the query.
func (c *Client) buildURL(endpoint string, query params.Params) string {
	target := c.baseURL + apiPrefix + endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	return target
}

// encodeBody marshals the body of POST and PUT requests once per call.
func encodeBody(req Request) ([]byte, error) {
	if req.Method != http.MethodPost && req.Method != http.MethodPut {
		return nil, nil
	}

	if req.Body == nil {
		return []byte(`{}`), nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, domain.NewValidationErrorWithValue("body", params.RuleInvalidBody,
			fmt.Sprintf("Request body cannot be encoded as JSON: %v", err), req.Body)
	}

	return data, nil
}

// isRetryable reports whether an attempt failed in a way worth retrying:
// a transport error or a 5xx response. Caller cancellation never retries.
func isRetryable(resp *Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}

	return resp != nil && resp.StatusCode >= http.StatusInternalServerError
}
