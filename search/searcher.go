package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// overFetch is how many candidates are fetched per requested result, so the
// ranker has material to reorder rather than just truncate.
const overFetch = 3

// Searcher ranks listings against natural-language prompts.
// A Searcher is safe for concurrent use. Call Release when done with it.
type Searcher struct {
	listings   storage.ListingRepository
	searchLogs storage.SearchLogRepository
	parser     ai.FilterParser
	embedder   ai.Embedder
	expander   ai.QueryExpander
	vector     *VectorScorer
	pool       *ants.Pool
	poolSize   int
	monitor    SearchMonitor
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithSearchLog records every successful search in repo.
func WithSearchLog(repo storage.SearchLogRepository) Option {
	return func(s *Searcher) error {
		s.searchLogs = repo
		return nil
	}
}

// WithMonitor sets the monitor notified at each search stage.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		s.monitor = monitor
		return nil
	}
}

// WithClock sets the source of the current time used by the year scorer.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		if now == nil {
			now = time.Now
		}
		s.now = now
		return nil
	}
}

// WithPoolSize sets the number of workers scoring candidates.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		s.poolSize = max(size, 1)
		return nil
	}
}

// NewSearcher creates a new searcher. The provider supplies the parser,
// embedder and query expander; an offline provider is a valid choice.
func NewSearcher(listings storage.ListingRepository, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		listings: listings,
		parser:   provider.FilterParser(),
		embedder: provider.Embedder(),
		expander: provider.QueryExpander(),
		poolSize: runtime.NumCPU(),
		monitor:  &noopMonitor{},
		now:      time.Now,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	vector, err := NewVectorScorer(s.embedder, s.logger)
	if err != nil {
		return nil, err
	}
	s.vector = vector

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// Release stops the scoring workers. The searcher must not be used after.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Request is a ranked search.
type Request struct {
	Prompt string
	// Limit is the number of results returned. It must be positive.
	Limit int
	// Hybrid enables vector scoring when the filter has keywords.
	Hybrid bool
	// SpellCheck corrects manufacturer names before parsing. Only Advanced
	// applies it; Search takes the prompt as given.
	SpellCheck bool
}

// Search parses the prompt, fetches up to Limit*3 matching listings, ranks
// them and returns the best Limit. Count is the number ranked before
// truncation.
//
// A parser failure degrades to an unconstrained search and an embedding
// failure to a search without vector scores. A store failure or a
// cancelled context fails the search.
func (s *Searcher) Search(ctx context.Context, req Request) (*core.SearchResult, error) {
	return s.search(ctx, OperationSearch, req)
}

func (s *Searcher) search(ctx context.Context, op Operation, req Request) (*core.SearchResult, error) {
	if req.Limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var result *core.SearchResult
	err := s.observe(op, req.Prompt, func() (int, error) {
		filters, err := s.parse(ctx, op, req.Prompt)
		if err != nil {
			return 0, err
		}
		expanded := Expand(filters.Keywords)

		candidates, err := s.listings.Fetch(ctx, storage.Query{
			Predicates: BuildPredicates(filters),
			Limit:      req.Limit * overFetch,
		})
		if err != nil {
			return 0, fmt.Errorf("fetching candidates: %w", err)
		}
		s.monitor.Fetched(op, len(candidates))

		var vectorScores map[core.ID]float64
		if req.Hybrid && len(expanded) > 0 {
			vectorScores, err = s.vector.Score(ctx, expanded, candidates)
			if err != nil {
				if ctx.Err() != nil {
					return 0, ctx.Err()
				}
				s.logger.Warn("vector scoring skipped", "err", err)
				vectorScores = nil
			}
			s.monitor.VectorScored(op, len(vectorScores), err)
		}

		ranked, err := Rank(ctx, candidates, filters, vectorScores, WithPool(s.pool), WithNow(s.now()))
		if err != nil {
			return 0, err
		}

		searchType := core.SearchTypeFilterOnly
		if req.Hybrid {
			searchType = core.SearchTypeHybrid
		}
		result = &core.SearchResult{
			Prompt:  req.Prompt,
			Filters: filters,
			Results: truncate(ranked, req.Limit),
			Count:   len(ranked),
			Metadata: core.SearchMetadata{
				SearchType:       searchType,
				KeywordsExpanded: expanded,
				VectorSearchUsed: len(vectorScores) > 0,
			},
		}
		s.logSearch(ctx, req.Prompt, filters, result.Count)
		return result.Count, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// observe reports the start and outcome of fn to the monitor.
func (s *Searcher) observe(op Operation, prompt string, fn func() (int, error)) error {
	start := time.Now()
	s.monitor.Started(op, prompt)
	count, err := fn()
	if err != nil {
		s.logger.Error("search failed", "op", op, "err", err)
		s.monitor.Failed(op, err)
		return err
	}
	s.monitor.Completed(op, count, time.Since(start))
	return nil
}

// parse runs the filter parser. Parser failures give an empty filter;
// only cancellation is returned.
func (s *Searcher) parse(ctx context.Context, op Operation, prompt string) (core.FilterSet, error) {
	filters, err := s.parser.ParseFilters(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return core.FilterSet{}, ctx.Err()
		}
		s.logger.Warn("filter parsing failed, searching without filters", "err", err)
		filters = core.EmptyFilterSet()
	}
	s.monitor.Parsed(op, filters, err)
	return filters, nil
}

// logSearch records a completed search. Failures are logged and otherwise
// ignored.
func (s *Searcher) logSearch(ctx context.Context, prompt string, filters core.FilterSet, count int) {
	if s.searchLogs == nil {
		return
	}
	data, err := json.Marshal(filters)
	if err != nil {
		s.logger.Warn("failed to encode filters for search log", "err", err)
		return
	}
	_, err = s.searchLogs.AddSearchLog(ctx, &core.SearchLog{
		Prompt:        prompt,
		ParsedFilters: string(data),
		ResultsCount:  count,
	})
	if err != nil {
		s.logger.Warn("failed to record search", "err", err)
	}
}

func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
