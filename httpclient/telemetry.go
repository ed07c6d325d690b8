package httpclient

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/personrest/httpclient"

// Option configures optional adapter collaborators.
type Option func(*Adapter)

// WithTracerProvider sets the provider spans are created from. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Adapter) { a.tracer = tp.Tracer(instrumentationName) }
}

// WithMeterProvider sets the provider request counters are created from.
// Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(a *Adapter) { a.meter = mp.Meter(instrumentationName) }
}

type instruments struct {
	requests metric.Int64Counter
	attempts metric.Int64Counter
}

func newInstruments(m metric.Meter) instruments {
	// counter creation only fails on invalid names; fall back to no-ops
	requests, err := m.Int64Counter("http.client.requests",
		metric.WithDescription("Logical HTTP requests issued, retries excluded."))
	if err != nil {
		requests, _ = otel.GetMeterProvider().Meter(instrumentationName).Int64Counter("http.client.requests")
	}
	attempts, err := m.Int64Counter("http.client.attempts",
		metric.WithDescription("HTTP attempts sent on the wire."))
	if err != nil {
		attempts, _ = otel.GetMeterProvider().Meter(instrumentationName).Int64Counter("http.client.attempts")
	}
	return instruments{requests: requests, attempts: attempts}
}

func (a *Adapter) startSpan(ctx context.Context, req Request, url string) (context.Context, trace.Span) {
	return a.tracer.Start(ctx, "http.client "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", url),
			attribute.String("client.name", a.config.Name),
		),
	)
}

func (a *Adapter) endSpan(ctx context.Context, span trace.Span, req Request, resp *Response, err error) {
	status := 0
	if resp != nil {
		status = resp.StatusCode
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	a.instruments.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client.name", a.config.Name),
		attribute.String("http.request.method", req.Method),
		attribute.Int("http.response.status_code", status),
		attribute.Bool("error", err != nil),
	))
}
