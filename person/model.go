package person

import (
	"time"

	"github.com/kbukum/personrest/response"
)

// Person is the remote person entity. The client passes it through
// unchanged; only ID is ever read, for logging.
type Person struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Response is the envelope for operations returning a single person.
type Response struct {
	response.Result
	Results *Person `json:"results,omitempty"`
}

// FindResponse is the envelope for operations returning a list of persons.
type FindResponse struct {
	response.Result
	Count   int64    `json:"count"`
	Results []Person `json:"results"`
}
