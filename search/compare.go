package search

import (
	"context"
	"errors"

	"github.com/poiesic/carprompt/core"
	"golang.org/x/sync/errgroup"
)

// Outcome summarises one algorithm's run in a comparison. A failed run
// carries Error and counts as zero results.
type Outcome struct {
	Algorithm string          `json:"algorithm"`
	Count     int             `json:"count"`
	AvgScore  *float64        `json:"avg_score,omitempty"`
	Filters   *core.FilterSet `json:"filters,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Recommendation names the algorithm that found the most results.
type Recommendation struct {
	Algorithm string `json:"algorithm"`
	Reason    string `json:"reason"`
}

// Comparison is the result of running every algorithm on one prompt.
type Comparison struct {
	Prompt         string         `json:"prompt"`
	Basic          Outcome        `json:"basic"`
	Hybrid         Outcome        `json:"advanced_hybrid"`
	VectorOnly     Outcome        `json:"vector_only"`
	Recommendation Recommendation `json:"recommendation"`
}

// Compare runs the basic, hybrid and vector-only searches on req.Prompt
// concurrently. Individual failures are reported in their Outcome; only
// cancellation fails the comparison.
func (s *Searcher) Compare(ctx context.Context, req Request) (*Comparison, error) {
	if req.Limit <= 0 {
		return nil, ErrInvalidLimit
	}

	cmp := &Comparison{Prompt: req.Prompt}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := s.Basic(gctx, req.Prompt)
		cmp.Basic = Outcome{Algorithm: string(core.SearchTypeFilterOnly)}
		if err != nil {
			return recordFailure(gctx, &cmp.Basic, err)
		}
		cmp.Basic.Count = result.Count
		cmp.Basic.Filters = &result.Filters
		return nil
	})

	g.Go(func() error {
		hybrid := req
		hybrid.Hybrid = true
		result, err := s.Search(gctx, hybrid)
		cmp.Hybrid = Outcome{Algorithm: string(core.SearchTypeHybrid)}
		if err != nil {
			return recordFailure(gctx, &cmp.Hybrid, err)
		}
		cmp.Hybrid.Count = result.Count
		cmp.Hybrid.Filters = &result.Filters
		cmp.Hybrid.AvgScore = core.Ptr(averageScore(result.Results))
		return nil
	})

	g.Go(func() error {
		result, err := s.VectorOnly(gctx, req)
		cmp.VectorOnly = Outcome{Algorithm: string(core.SearchTypeVectorOnly)}
		if err != nil {
			return recordFailure(gctx, &cmp.VectorOnly, err)
		}
		cmp.VectorOnly.Count = result.Count
		cmp.VectorOnly.AvgScore = core.Ptr(averageScore(result.Results))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	cmp.Recommendation = recommend(cmp.Basic.Count, cmp.Hybrid.Count, cmp.VectorOnly.Count)
	return cmp, nil
}

// recordFailure stores err in out. Cancellation is returned so the group
// stops.
func recordFailure(ctx context.Context, out *Outcome, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	out.Error = err.Error()
	return nil
}

func averageScore(results []core.RankedResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}

// recommend prefers hybrid, then basic, on ties.
func recommend(basic, hybrid, vector int) Recommendation {
	switch {
	case hybrid >= basic && hybrid >= vector:
		return Recommendation{Algorithm: "hybrid", Reason: "Hybrid search found the most or equally relevant results"}
	case basic >= hybrid && basic >= vector:
		return Recommendation{Algorithm: "basic", Reason: "Basic filter search performed best for this query"}
	default:
		return Recommendation{Algorithm: "vector", Reason: "Semantic search performed best for this descriptive query"}
	}
}

// TestQuery is a sample prompt for evaluating the search algorithms.
type TestQuery struct {
	Query       string `json:"query"`
	Description string `json:"description"`
}

// TestQueries returns prompts that exercise different parts of the ranker.
// Run them through Compare to evaluate the algorithms.
func TestQueries() []TestQuery {
	return []TestQuery{
		{"reliable Japanese family car under £15k", "Clear filters with budget constraint"},
		{"fast sporty convertible for weekend drives", "Descriptive with emphasis on experience"},
		{"cheap to run commuter car with good mpg", "Emphasis on running costs"},
		{"luxury SUV with low mileage", "Combination of luxury and condition"},
		{"first car for new driver, cheap insurance", "Specific use case with insurance consideration"},
		{"electric car with 200+ mile range", "Technical specification focus"},
		{"7 seater for large family, reliable", "Capacity requirement with reliability"},
		{"classic British car for restoration", "Niche/vintage focus"},
	}
}
