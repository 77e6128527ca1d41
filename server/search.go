package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/carprompt/search"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type basicRequest struct {
	Prompt *string `json:"prompt" binding:"required"`
}

type advancedRequest struct {
	Prompt        *string `json:"prompt" binding:"required"`
	Limit         *int    `json:"limit"`
	UseHybrid     *bool   `json:"use_hybrid"`
	UseSpellCheck bool    `json:"use_spell_check"`
	ExpandQuery   bool    `json:"expand_query"`
}

var errLimitOutOfRange = fmt.Errorf("limit must be between 1 and %d", maxSearchLimit)

// searchRequest applies the defaults: a limit of 20 and hybrid scoring on.
func (r advancedRequest) searchRequest() (search.AdvancedRequest, error) {
	limit := defaultSearchLimit
	if r.Limit != nil {
		limit = *r.Limit
	}
	if limit < 1 || limit > maxSearchLimit {
		return search.AdvancedRequest{}, errLimitOutOfRange
	}
	hybrid := true
	if r.UseHybrid != nil {
		hybrid = *r.UseHybrid
	}
	return search.AdvancedRequest{
		Request: search.Request{
			Prompt:     *r.Prompt,
			Limit:      limit,
			Hybrid:     hybrid,
			SpellCheck: r.UseSpellCheck,
		},
		ExpandQuery: r.ExpandQuery,
	}, nil
}

func bindAdvanced(c *gin.Context) (search.AdvancedRequest, bool) {
	var body advancedRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request")
		return search.AdvancedRequest{}, false
	}
	req, err := body.searchRequest()
	if err != nil {
		fail(c, http.StatusBadRequest, err, err.Error())
		return search.AdvancedRequest{}, false
	}
	return req, true
}

func searchFailed(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, search.ErrInvalidLimit) {
		status = http.StatusBadRequest
	}
	fail(c, status, err, "Search failed: "+err.Error())
}

func (s *Server) basicSearch(c *gin.Context) {
	var body basicRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request")
		return
	}
	result, err := s.searcher.Basic(c.Request.Context(), *body.Prompt)
	if err != nil {
		searchFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) advancedSearch(c *gin.Context) {
	req, ok := bindAdvanced(c)
	if !ok {
		return
	}
	result, err := s.searcher.Advanced(c.Request.Context(), req)
	if err != nil {
		searchFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// compare ignores the preprocessing flags; every algorithm sees the prompt
// as given.
func (s *Server) compare(c *gin.Context) {
	req, ok := bindAdvanced(c)
	if !ok {
		return
	}
	cmp, err := s.searcher.Compare(c.Request.Context(), req.Request)
	if err != nil {
		searchFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prompt": cmp.Prompt,
		"comparison": gin.H{
			"basic":           cmp.Basic,
			"advanced_hybrid": cmp.Hybrid,
			"vector_only":     cmp.VectorOnly,
		},
		"recommendation": cmp.Recommendation,
	})
}

func (s *Server) testQueries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"test_queries": search.TestQueries(),
		"usage":        "Use these queries with /compare endpoint to test algorithms",
	})
}
