package rest

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/kbukum/personrest/httpclient"
	"github.com/kbukum/personrest/internal/json"
)

var (
	// ErrUnknownRequest is returned by URL for a request name with no route.
	ErrUnknownRequest = errors.New("rest: unknown request")
	// ErrMissingVariable is returned when a URL template placeholder has no value.
	ErrMissingVariable = errors.New("rest: missing uri variable")
)

// Config configures a REST client built by NewFromConfig.
type Config struct {
	HTTP httpclient.Config `yaml:",inline" mapstructure:",squash"`
	// Routes maps logical request names to URL templates relative to
	// HTTP.BaseURL (or absolute).
	Routes map[string]string `yaml:"routes" mapstructure:"routes"`
}

// Entity carries the status and headers of an exchanged response. The
// decoded body is written to the caller's out value.
type Entity struct {
	StatusCode int
	Headers    map[string]string
}

// Client is a JSON REST helper: it resolves logical request names to URL
// templates, binds template variables, and decodes JSON responses. It is
// immutable after construction and safe for concurrent use.
type Client struct {
	http   *httpclient.Adapter
	routes map[string]string
}

// New creates a REST client on top of an existing adapter. The routes map
// is copied.
func New(adapter *httpclient.Adapter, routes map[string]string) *Client {
	return &Client{http: adapter, routes: maps.Clone(routes)}
}

// NewFromConfig creates the adapter and the REST client. JSON Content-Type
// and Accept headers are added unless configured otherwise.
func NewFromConfig(cfg Config, opts ...httpclient.Option) (*Client, error) {
	headers := maps.Clone(cfg.HTTP.Headers)
	if headers == nil {
		headers = make(map[string]string, 2)
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}
	cfg.HTTP.Headers = headers

	adapter, err := httpclient.New(cfg.HTTP, opts...)
	if err != nil {
		return nil, err
	}
	return New(adapter, cfg.Routes), nil
}

// HTTP returns the underlying adapter.
func (c *Client) HTTP() *httpclient.Adapter {
	return c.http
}

// Close releases idle connections of the underlying adapter.
func (c *Client) Close(ctx context.Context) error {
	return c.http.Close(ctx)
}

// URL returns the URL template registered for the request name, joined to
// the adapter's base URL unless the template is absolute.
func (c *Client) URL(name string) (string, error) {
	tmpl, ok := c.routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRequest, name)
	}
	if isAbsolute(tmpl) {
		return tmpl, nil
	}
	base := c.http.Config().BaseURL
	if base == "" {
		return tmpl, nil
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(tmpl, "/"), nil
}

// Get issues a GET to the expanded URL and decodes the response into out.
func (c *Client) Get(ctx context.Context, target string, out any, vars map[string]any) error {
	_, err := c.Exchange(ctx, http.MethodGet, target, nil, out, vars)
	return err
}

// Post issues a POST with body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, target string, body, out any, vars map[string]any) error {
	_, err := c.Exchange(ctx, http.MethodPost, target, body, out, vars)
	return err
}

// Exchange issues a request with an arbitrary method. The response body is
// decoded into out when both are non-empty; status and headers are
// returned in the Entity.
func (c *Client) Exchange(ctx context.Context, method, target string, body, out any, vars map[string]any) (*Entity, error) {
	expanded, err := Expand(target, vars)
	if err != nil {
		return nil, httpclient.NewValidationError(err)
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: method,
		Path:   expanded,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return nil, httpclient.NewDecodeError(resp.StatusCode, resp.Body, fmt.Errorf("decode response: %w", err))
		}
	}

	return &Entity{StatusCode: resp.StatusCode, Headers: resp.Headers}, nil
}

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Expand replaces every {name} placeholder of the template with the
// path-escaped value of vars[name]. Variables absent from the template are
// ignored; placeholders absent from vars are an error.
func Expand(template string, vars map[string]any) (string, error) {
	var missing []string
	expanded := placeholder.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(fmt.Sprint(v))
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s in %q", ErrMissingVariable, strings.Join(missing, ", "), template)
	}
	return expanded, nil
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}
