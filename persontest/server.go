// Package persontest provides an in-memory Person service for tests and
// local demos. It serves the routes of person.DefaultRoutes.
package persontest

import (
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/personrest/logger"
	"github.com/kbukum/personrest/person"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger logs every handled request at a level derived from its status.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithPersons seeds the store. Ids of seeded persons are kept.
func WithPersons(persons ...person.Person) Option {
	return func(s *Server) {
		for _, p := range persons {
			s.insert(p)
		}
	}
}

// WithClock replaces time.Now for created and last-updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server is a fake Person service. It is safe for concurrent use.
type Server struct {
	// URL is the base URL of the running server, without a trailing slash.
	URL string

	srv *httptest.Server
	log *logger.Logger
	now func() time.Time

	mu      sync.Mutex
	persons map[int64]person.Person
	nextID  int64
	hits    map[string]int
}

// NewServer starts a fake Person service on a loopback port.
func NewServer(opts ...Option) *Server {
	s := newServer(opts...)
	s.srv = httptest.NewServer(s.Handler())
	s.URL = s.srv.URL
	return s
}

func newServer(opts ...Option) *Server {
	s := &Server{
		log:     logger.Nop(),
		now:     time.Now,
		persons: make(map[int64]person.Person),
		nextID:  1,
		hits:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	if s.srv != nil {
		s.srv.Close()
	}
}

// Client returns an HTTP client configured for the server.
func (s *Server) Client() *http.Client {
	return s.srv.Client()
}

// Routes returns the route table to configure a client against this server.
func (s *Server) Routes() map[string]string {
	return person.DefaultRoutes()
}

// Handler returns the gin engine serving the Person routes.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/person", s.count(person.FindRequest), s.find)
	r.POST("/person", s.count(person.SaveRequest), s.save)
	r.GET("/person/:id", s.count(person.FindByIDRequest), s.findByID)
	r.GET("/person/paginated/:page/:pageSize", s.count(person.FindPaginatedRequest), s.findPaginated)
	r.DELETE("/person/delete/:id", s.count(person.DeleteRequest), s.delete)
	return r
}

// Hits returns how many requests the server handled for a request name,
// such as person.FindByIDRequest.
func (s *Server) Hits(request string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[request]
}

// Person returns a stored person.
func (s *Server) Person(id int64) (person.Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.persons[id]
	return p, ok
}

// Len returns the number of stored persons.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.persons)
}

func (s *Server) count(request string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.hits[request]++
		s.mu.Unlock()
		c.Next()
	}
}

// insert stores p under its own id, assigning one when it is zero.
// Callers must hold mu or be constructing the server.
func (s *Server) insert(p person.Person) person.Person {
	if p.ID == 0 {
		p.ID = s.nextID
	}
	if p.ID >= s.nextID {
		s.nextID = p.ID + 1
	}
	s.persons[p.ID] = p
	return p
}

// sorted returns all persons ordered by id. Callers must hold mu.
func (s *Server) sorted() []person.Person {
	ids := slices.Sorted(maps.Keys(s.persons))
	out := make([]person.Person, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.persons[id])
	}
	return out
}
