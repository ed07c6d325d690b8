package persontest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/personrest/person"
	"github.com/kbukum/personrest/response"
)

func (s *Server) findByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	p, found := s.persons[id]
	s.mu.Unlock()

	if !found {
		notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, person.Response{Results: &p})
}

func (s *Server) find(c *gin.Context) {
	s.mu.Lock()
	all := s.sorted()
	s.mu.Unlock()

	c.JSON(http.StatusOK, person.FindResponse{Count: int64(len(all)), Results: all})
}

// findPaginated serves zero-based pages. Count is the total number of
// stored persons, not the size of the page.
func (s *Server) findPaginated(c *gin.Context) {
	page, err1 := strconv.Atoi(c.Param("page"))
	size, err2 := strconv.Atoi(c.Param("pageSize"))
	if err1 != nil || err2 != nil || page < 0 || size <= 0 {
		c.JSON(http.StatusBadRequest, response.Error("invalid page request", c.Param("page"), c.Param("pageSize")))
		return
	}

	s.mu.Lock()
	all := s.sorted()
	s.mu.Unlock()

	results := []person.Person{}
	if start := page * size; start < len(all) {
		results = all[start:min(start+size, len(all))]
	}
	c.JSON(http.StatusOK, person.FindResponse{Count: int64(len(all)), Results: results})
}

// save creates a person when its id is zero or unknown and updates it
// otherwise, keeping the original creation time.
func (s *Server) save(c *gin.Context) {
	var p person.Person
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("invalid person", err.Error()))
		return
	}

	now := s.now().UTC()

	s.mu.Lock()
	if existing, ok := s.persons[p.ID]; ok && p.ID != 0 {
		p.Created = existing.Created
	} else {
		p.Created = &now
	}
	p.LastUpdated = &now
	p = s.insert(p)
	s.mu.Unlock()

	c.JSON(http.StatusOK, person.Response{Result: response.Info("saved person", strconv.FormatInt(p.ID, 10)), Results: &p})
}

func (s *Server) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	_, found := s.persons[id]
	delete(s.persons, id)
	s.mu.Unlock()

	if !found {
		notFound(c, id)
		return
	}
	c.JSON(http.StatusOK, response.Info("deleted person", strconv.FormatInt(id, 10)))
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("invalid id", c.Param("id")))
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, id int64) {
	c.JSON(http.StatusNotFound, response.Error(fmt.Sprintf("person %d not found", id), strconv.FormatInt(id, 10)))
}
