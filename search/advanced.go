package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/poiesic/carprompt/core"
)

// AdvancedRequest is a ranked search with optional prompt preprocessing.
type AdvancedRequest struct {
	Request
	// ExpandQuery asks the query expander for related terms. The terms are
	// reported in the metadata only.
	ExpandQuery bool
}

// Advanced spell-corrects the prompt when SpellCheck is set, expands it
// when ExpandQuery is set, then runs Search on the corrected prompt.
func (s *Searcher) Advanced(ctx context.Context, req AdvancedRequest) (*core.SearchResult, error) {
	if req.Limit <= 0 {
		return nil, ErrInvalidLimit
	}

	prompt := req.Prompt
	if req.SpellCheck {
		prompt = Correct(prompt)
	}

	terms := []string{}
	if req.ExpandQuery {
		expanded, err := s.expander.ExpandQuery(ctx, prompt)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			s.logger.Warn("query expansion failed", "err", err)
		default:
			terms = expanded
		}
	}

	inner := req.Request
	inner.Prompt = prompt
	result, err := s.search(ctx, OperationAdvanced, inner)
	if err != nil {
		return nil, err
	}
	result.Metadata.AdvancedMetadata = &core.AdvancedMetadata{
		SpellCorrected: req.SpellCheck && prompt != req.Prompt,
		QueryExpanded:  len(terms) > 0,
		ExpandedTerms:  terms,
	}
	return result, nil
}

// VectorOnly ranks the listings nearest to the embedded prompt across the
// whole catalog, ignoring the filter's predicates. The parsed filter still
// drives the attribute factors. Unlike Search, an embedding failure fails
// the search since there is nothing else to rank by.
func (s *Searcher) VectorOnly(ctx context.Context, req Request) (*core.SearchResult, error) {
	if req.Limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var result *core.SearchResult
	err := s.observe(OperationVectorOnly, req.Prompt, func() (int, error) {
		filters, err := s.parse(ctx, OperationVectorOnly, req.Prompt)
		if err != nil {
			return 0, err
		}

		result = &core.SearchResult{
			Prompt:  req.Prompt,
			Filters: filters,
			Results: []core.RankedResult{},
			Metadata: core.SearchMetadata{
				SearchType:       core.SearchTypeVectorOnly,
				KeywordsExpanded: Expand(filters.Keywords),
			},
		}
		if strings.TrimSpace(req.Prompt) == "" {
			return 0, nil
		}

		query, err := s.embedder.EmbedText(ctx, req.Prompt)
		if err != nil {
			return 0, fmt.Errorf("embedding prompt: %w", err)
		}
		similar, err := s.listings.FindSimilar(ctx, query, req.Limit*overFetch)
		if err != nil {
			return 0, fmt.Errorf("finding similar listings: %w", err)
		}

		candidates := make([]*core.Listing, len(similar))
		scores := make(map[core.ID]float64, len(similar))
		for i, match := range similar {
			candidates[i] = match.Listing
			scores[match.Listing.Id] = math.Max(0, match.Score)
		}
		s.monitor.Fetched(OperationVectorOnly, len(candidates))
		s.monitor.VectorScored(OperationVectorOnly, len(scores), nil)

		ranked, err := Rank(ctx, candidates, filters, scores, WithPool(s.pool), WithNow(s.now()))
		if err != nil {
			return 0, err
		}
		result.Results = truncate(ranked, req.Limit)
		result.Count = len(ranked)
		result.Metadata.VectorSearchUsed = len(scores) > 0
		s.logSearch(ctx, req.Prompt, filters, result.Count)
		return result.Count, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
