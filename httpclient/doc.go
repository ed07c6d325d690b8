// Package httpclient provides the HTTP adapter the REST transport is built
// on: base URL resolution, default headers, authentication, request IDs,
// optional retry with exponential backoff, OpenTelemetry spans and request
// counters, and classification of failures into typed errors.
//
// # Basic Usage
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:8080/rest",
//	    Timeout: 10 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/person/7",
//	})
//
// # With Retry
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL: "http://localhost:8080/rest",
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//
// Only errors flagged as retryable (timeouts, connection failures, 429 and
// 5xx responses) are retried.
package httpclient
