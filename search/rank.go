package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/carprompt/core"
)

// Factor weights. They sum to 1 and are fixed for every request.
const (
	WeightVectorSimilarity = 0.40
	WeightPrice            = 0.20
	WeightYear             = 0.15
	WeightMileage          = 0.15
	WeightKeywordMatch     = 0.10
)

const defaultExplanation = "Matches your basic criteria"

type rankConfig struct {
	pool *ants.Pool
	now  time.Time
}

// RankOption configures a Rank call.
type RankOption func(*rankConfig)

// WithPool scores candidates on pool instead of the calling goroutine.
func WithPool(pool *ants.Pool) RankOption {
	return func(c *rankConfig) {
		c.pool = pool
	}
}

// WithNow sets the time the year scale ends at when max_year is open.
// Default is time.Now().
func WithNow(now time.Time) RankOption {
	return func(c *rankConfig) {
		c.now = now
	}
}

// Rank scores every candidate and returns them ordered by aggregate score,
// highest first. Candidates missing from vectorScores get a vector score of
// 0. Ties keep the order the candidates were passed in.
func Rank(
	ctx context.Context,
	candidates []*core.Listing,
	f core.FilterSet,
	vectorScores map[core.ID]float64,
	opts ...RankOption,
) ([]core.RankedResult, error) {
	cfg := rankConfig{now: time.Now()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]core.RankedResult, len(candidates))
	matcher := newKeywordMatcher(f.Keywords)
	scoreRange := func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = scoreCandidate(candidates[i], f, vectorScores, matcher, cfg.now)
		}
	}

	if cfg.pool == nil || len(candidates) < 2 {
		scoreRange(0, len(candidates))
	} else if err := scoreOnPool(cfg.pool, len(candidates), scoreRange); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b core.RankedResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results, nil
}

// scoreOnPool splits [0,n) into one chunk per worker. Each chunk writes a
// disjoint part of the result slice.
func scoreOnPool(pool *ants.Pool, n int, scoreRange func(start, end int)) error {
	workers := max(pool.Cap(), 1)
	size := (n + workers - 1) / workers

	var wg sync.WaitGroup
	var submitErr error
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			scoreRange(start, end)
		})
		if err != nil {
			wg.Done()
			submitErr = fmt.Errorf("scoring candidates: %w", err)
			break
		}
	}
	wg.Wait()
	return submitErr
}

func scoreCandidate(
	listing *core.Listing,
	f core.FilterSet,
	vectorScores map[core.ID]float64,
	matcher *keywordMatcher,
	now time.Time,
) core.RankedResult {
	factors := map[string]float64{
		core.FactorVectorSimilarity: clamp01(vectorScores[listing.Id]),
		core.FactorPrice:            PriceScore(listing.Price, f),
		core.FactorYear:             YearScore(listing.Year, f, now),
		core.FactorMileage:          MileageScore(listing.Mileage, f),
		core.FactorKeywordMatch:     matcher.score(listing.Text()),
	}

	total := factors[core.FactorVectorSimilarity]*WeightVectorSimilarity +
		factors[core.FactorPrice]*WeightPrice +
		factors[core.FactorYear]*WeightYear +
		factors[core.FactorMileage]*WeightMileage +
		factors[core.FactorKeywordMatch]*WeightKeywordMatch

	return core.RankedResult{
		ListingView: listing.View(),
		ScoreBreakdown: core.ScoreBreakdown{
			Score:       clamp01(total),
			Factors:     factors,
			Explanation: Explain(factors),
		},
	}
}

// Explain summarises the factors that scored well.
func Explain(factors map[string]float64) string {
	var reasons []string

	switch vector := factors[core.FactorVectorSimilarity]; {
	case vector > 0.7:
		reasons = append(reasons, "Highly matches your description")
	case vector > 0.4:
		reasons = append(reasons, "Matches your description")
	}
	if factors[core.FactorPrice] > 0.8 {
		reasons = append(reasons, "Great price for your budget")
	}
	if factors[core.FactorYear] > 0.8 {
		reasons = append(reasons, "Right age range")
	}
	if factors[core.FactorMileage] > 0.8 {
		reasons = append(reasons, "Low mileage")
	}
	if factors[core.FactorKeywordMatch] > 0.5 {
		reasons = append(reasons, "Matches your keywords")
	}

	if len(reasons) == 0 {
		return defaultExplanation
	}
	return strings.Join(reasons, "; ")
}
