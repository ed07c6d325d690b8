package person

import (
	"context"
	"net/http"

	"github.com/kbukum/personrest/logger"
	"github.com/kbukum/personrest/response"
	"github.com/kbukum/personrest/rest"
)

// Request names used to look up URL templates.
const (
	FindByIDRequest      = "person.findById"
	FindPaginatedRequest = "person.findPaginated"
	FindRequest          = "person.find"
	SaveRequest          = "person.save"
	DeleteRequest        = "person.delete"
)

// URL template variable names.
const (
	IDVar       = "id"
	PageVar     = "page"
	PageSizeVar = "page-size"
)

// DefaultRoutes returns the URL templates of the person service, keyed by
// request name.
func DefaultRoutes() map[string]string {
	return map[string]string{
		FindByIDRequest:      "/person/{" + IDVar + "}",
		FindPaginatedRequest: "/person/paginated/{" + PageVar + "}/{" + PageSizeVar + "}",
		FindRequest:          "/person",
		SaveRequest:          "/person",
		DeleteRequest:        "/person/delete/{" + IDVar + "}",
	}
}

// Transport resolves request names to URL templates and performs the HTTP
// calls, binding vars into the template and decoding the body into out.
type Transport interface {
	URL(name string) (string, error)
	Get(ctx context.Context, url string, out any, vars map[string]any) error
	Post(ctx context.Context, url string, body, out any, vars map[string]any) error
	Exchange(ctx context.Context, method, url string, body, out any, vars map[string]any) (*rest.Entity, error)
}

var _ Transport = (*rest.Client)(nil)

// Client is the person REST client. It keeps no state besides its
// collaborators and is safe for concurrent use when the transport is.
// Errors from the transport are returned unchanged.
type Client struct {
	transport Transport
	log       *logger.Logger
}

// New creates a person client. A nil logger discards log records.
func New(transport Transport, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		transport: transport,
		log:       log.WithComponent("person-client"),
	}
}

// FindByID fetches one person. The response is nil when the service
// answers with an empty body.
func (c *Client) FindByID(ctx context.Context, id int64) (*Response, error) {
	url, err := c.transport.URL(FindByIDRequest)
	if err != nil {
		return nil, err
	}

	c.log.Debug("REST client findById", logger.Fields(IDVar, id, logger.FieldURL, url))

	var resp *Response
	if err := c.transport.Get(ctx, url, &resp, map[string]any{IDVar: id}); err != nil {
		return nil, err
	}
	return resp, nil
}

// FindPaginated fetches one page of persons.
func (c *Client) FindPaginated(ctx context.Context, page, pageSize int) (*FindResponse, error) {
	url, err := c.transport.URL(FindPaginatedRequest)
	if err != nil {
		return nil, err
	}

	c.log.Debug("REST client paginated find", logger.Fields(
		PageVar, page,
		"pageSize", pageSize,
		logger.FieldURL, url,
	))

	vars := map[string]any{
		PageVar:     page,
		PageSizeVar: pageSize,
	}

	var resp *FindResponse
	if err := c.transport.Get(ctx, url, &resp, vars); err != nil {
		return nil, err
	}
	return resp, nil
}

// Find fetches all persons.
func (c *Client) Find(ctx context.Context) (*FindResponse, error) {
	url, err := c.transport.URL(FindRequest)
	if err != nil {
		return nil, err
	}

	c.log.Debug("REST client find", logger.Fields(logger.FieldURL, url))

	var resp *FindResponse
	if err := c.transport.Get(ctx, url, &resp, nil); err != nil {
		return nil, err
	}
	return resp, nil
}

// Save creates or updates a person. The response usually carries the
// stored person with its assigned id.
func (c *Client) Save(ctx context.Context, p *Person) (*Response, error) {
	url, err := c.transport.URL(SaveRequest)
	if err != nil {
		return nil, err
	}

	var id int64
	if p != nil {
		id = p.ID
	}
	c.log.Debug("REST client save", logger.Fields(IDVar, id, logger.FieldURL, url))

	var resp *Response
	if err := c.transport.Post(ctx, url, p, &resp, nil); err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a person. Unlike the other operations it returns the
// decoded body of the exchange rather than an entity envelope.
func (c *Client) Delete(ctx context.Context, id int64) (*response.Result, error) {
	url, err := c.transport.URL(DeleteRequest)
	if err != nil {
		return nil, err
	}

	c.log.Debug("REST client delete", logger.Fields(IDVar, id, logger.FieldURL, url))

	var result *response.Result
	if _, err := c.transport.Exchange(ctx, http.MethodDelete, url, nil, &result, map[string]any{IDVar: id}); err != nil {
		return nil, err
	}
	return result, nil
}
