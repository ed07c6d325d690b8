package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/personrest/internal/json"
	"github.com/kbukum/personrest/logger"
)

// Adapter is a configurable HTTP adapter with built-in auth, request ids,
// retry and telemetry. It is safe for concurrent use.
type Adapter struct {
	httpClient  *http.Client
	config      Config
	log         *logger.Logger
	tracer      trace.Tracer
	meter       metric.Meter
	instruments instruments
}

// WithLogger sets the logger used for retry and failure diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithHTTPClient replaces the underlying *http.Client. The adapter's
// Timeout is not applied to a client supplied this way.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
		log:    logger.Nop(),
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.instruments = newInstruments(a.meter)

	return a, nil
}

// Do executes an HTTP request and returns the complete response.
// On a non-2xx status both the response and a classified *Error are returned.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	req = a.withRequestID(req)
	url := a.resolveURL(req.Path)

	ctx, span := a.startSpan(ctx, req, url)

	var resp *Response
	var err error
	if a.config.Retry == nil {
		resp, err = a.executeRequest(ctx, req, url)
	} else {
		attempt := 0
		err = a.config.Retry.retry(ctx, func() error {
			attempt++
			if attempt > 1 {
				a.log.Debug("retrying request", logger.Fields(
					logger.FieldMethod, req.Method,
					logger.FieldURL, url,
					logger.FieldAttempt, attempt,
					logger.FieldRequestID, req.Headers[a.config.RequestIDHeader],
				))
			}
			var execErr error
			resp, execErr = a.executeRequest(ctx, req, url)
			return execErr
		})
	}

	a.endSpan(ctx, span, req, resp, err)
	return resp, err
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter's configuration with defaults applied.
func (a *Adapter) Config() Config {
	return a.config
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// executeRequest builds and sends a single attempt.
func (a *Adapter) executeRequest(ctx context.Context, req Request, url string) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req, url)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	a.instruments.attempts.Add(ctx, 1)
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		a.log.Debug("request failed", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, url,
			logger.FieldStatus, resp.StatusCode,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		return result, classErr
	}

	return result, nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request, url string) (*http.Request, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Errorf("encode body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewValidationError(fmt.Errorf("create request: %w", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	// request-specific headers override defaults
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

func (a *Adapter) resolveURL(path string) string {
	if a.config.BaseURL == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// withRequestID returns req carrying a request id header. The caller's
// header map is never mutated.
func (a *Adapter) withRequestID(req Request) Request {
	name := a.config.RequestIDHeader
	if _, ok := req.Headers[name]; ok {
		return req
	}
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[name] = uuid.NewString()
	req.Headers = headers
	return req
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
