package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestAdapter_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/person/7" {
			t.Errorf("expected /rest/person/7, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"firstName": "Ada"})
	}))
	defer srv.Close()

	a, err := New(Config{BaseURL: srv.URL + "/rest/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/person/7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() || resp.IsError() {
		t.Errorf("expected success, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "Ada") {
		t.Errorf("response body should contain Ada, got %s", string(resp.Body))
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected flattened content type header, got %v", resp.Headers)
	}
}

func TestAdapter_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	a, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := a.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/person",
		Body:   map[string]string{"lastName": "Lovelace"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "Lovelace") {
		t.Errorf("expected echoed body, got %s", resp.Body)
	}
}

func TestAdapter_Do_StringAndByteBodies(t *testing.T) {
	var gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})

	if _, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: "plain"}); err != nil {
		t.Fatal(err)
	}
	if gotType != "text/plain" || gotBody != "plain" {
		t.Errorf("string body: got type %q body %q", gotType, gotBody)
	}

	if _, err := a.Do(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: []byte("raw")}); err != nil {
		t.Fatal(err)
	}
	if gotType != "" || gotBody != "raw" {
		t.Errorf("byte body: got type %q body %q", gotType, gotBody)
	}
}

func TestAdapter_Do_HeadersQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected default Accept header, got %q", got)
		}
		if got := r.Header.Get("X-Tenant"); got != "override" {
			t.Errorf("expected request header to override default, got %q", got)
		}
		if got := r.URL.Query().Get("expand"); got != "true" {
			t.Errorf("expected expand=true, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer per-request" {
			t.Errorf("expected per-request auth, got %q", got)
		}
	}))
	defer srv.Close()

	a, _ := New(Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"Accept": "application/json", "X-Tenant": "default"},
		Auth:    BearerAuth("adapter-level"),
	})

	_, err := a.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/person",
		Headers: map[string]string{"X-Tenant": "override"},
		Query:   map[string]string{"expand": "true"},
		Auth:    BearerAuth("per-request"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_RequestID(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-Id"))
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})

	headers := map[string]string{"X-Other": "1"}
	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/", Headers: headers}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/",
		Headers: map[string]string{"X-Request-Id": "fixed"},
	}); err != nil {
		t.Fatal(err)
	}

	if len(ids) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(ids))
	}
	if len(ids[0]) != 36 {
		t.Errorf("expected generated uuid, got %q", ids[0])
	}
	if ids[1] != "fixed" {
		t.Errorf("expected caller request id to be kept, got %q", ids[1])
	}
	if _, ok := headers["X-Request-Id"]; ok {
		t.Error("caller header map must not be mutated")
	}
}

func TestAdapter_Do_ErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusUnauthorized, IsAuth, "auth"},
		{http.StatusNotFound, IsNotFound, "not_found"},
		{http.StatusTooManyRequests, IsRateLimit, "rate_limit"},
		{http.StatusBadGateway, IsServerError, "server"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"errors":true}`))
			}))
			defer srv.Close()

			a, _ := New(Config{BaseURL: srv.URL})
			resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			if !tc.check(err) {
				t.Fatalf("expected %s error, got %v", tc.name, err)
			}
			if resp == nil || resp.StatusCode != tc.status {
				t.Fatalf("expected response with status %d alongside the error", tc.status)
			}
			var he *Error
			if !errors.As(err, &he) || string(he.Body) != `{"errors":true}` {
				t.Errorf("expected body on error, got %+v", he)
			}
		})
	}
}

func TestAdapter_Do_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a, _ := New(Config{BaseURL: url})
	_, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("connection errors are retryable")
	}
}

func TestAdapter_Do_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestAdapter_Do_ContextCanceledWithRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: srv.URL, Retry: DefaultRetryConfig()})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	var hErr *Error
	if !errors.As(err, &hErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline, got %v", err)
	}
}

func TestAdapter_Do_ContextEndsDuringBackoff(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a, _ := New(Config{
		BaseURL: srv.URL,
		Retry:   &RetryConfig{MaxRetries: 5, InitialInterval: time.Second, MaxInterval: time.Second},
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsServerError(err) {
		t.Fatalf("expected the last server error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt before the deadline, got %d", calls.Load())
	}
}

func TestAdapter_Do_FullURLIgnoresBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/absolute" {
			t.Errorf("expected /absolute, got %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	a, _ := New(Config{BaseURL: "http://unused.invalid"})
	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/absolute"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Do_Retry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	var notified int
	a, _ := New(Config{
		BaseURL: srv.URL,
		Retry: &RetryConfig{
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			OnRetry:         func(error, time.Duration) { notified++ },
		},
	})

	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("unexpected body %q", resp.Body)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
	if notified != 2 {
		t.Errorf("expected 2 retry notifications, got %d", notified)
	}
}

func TestAdapter_Do_NoRetryOnPermanentError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a, _ := New(Config{
		BaseURL: srv.URL,
		Retry:   &RetryConfig{MaxRetries: 5, InitialInterval: time.Millisecond},
	})

	_, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found error to surface unwrapped, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestAdapter_Do_RetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a, _ := New(Config{
		BaseURL: srv.URL,
		Retry:   &RetryConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
	})

	_, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsServerError(err) {
		t.Fatalf("expected last server error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 1 attempt + 2 retries, got %d", calls.Load())
	}
}

func TestAdapter_Do_RecordsSpan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	a, _ := New(Config{Name: "person-api", BaseURL: srv.URL}, WithTracerProvider(tp))
	_, _ = a.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/person/delete/1"})

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "http.client DELETE" {
		t.Errorf("unexpected span name %q", span.Name())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", span.Status())
	}
	var sawStatus bool
	for _, kv := range span.Attributes() {
		if kv.Key == "http.response.status_code" && kv.Value.AsInt64() == http.StatusNotFound {
			sawStatus = true
		}
	}
	if !sawStatus {
		t.Errorf("expected status code attribute, got %v", span.Attributes())
	}
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: expected int64 sum, got %T", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestAdapter_Do_RecordsCounters(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	a, err := New(Config{
		BaseURL: srv.URL,
		Retry:   &RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
	}, WithMeterProvider(mp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := counterValue(t, reader, "http.client.requests"); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
	if got := counterValue(t, reader, "http.client.attempts"); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestWithHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	custom := srv.Client()
	a, err := New(Config{BaseURL: srv.URL}, WithHTTPClient(custom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Unwrap() != custom {
		t.Error("expected the supplied client to be used")
	}
	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAdapter_Close(t *testing.T) {
	a, _ := New(Config{})
	if err := a.Close(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if a.Unwrap() == nil {
		t.Error("expected underlying http client")
	}
}
