package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// BasicLimit is the number of listings a basic search returns.
const BasicLimit = 20

// Basic runs the plain filter search: listings matching the parsed filter,
// closest to the embedded keywords first when there are keywords, otherwise
// in the requested sort order. Nothing is scored.
//
// Relevance and value orders have no column to sort on, so they fall back
// to cheapest first. When the keywords can't be embedded the sort order
// applies instead.
func (s *Searcher) Basic(ctx context.Context, prompt string) (*core.BasicResult, error) {
	var result *core.BasicResult
	err := s.observe(OperationBasic, prompt, func() (int, error) {
		filters, err := s.parse(ctx, OperationBasic, prompt)
		if err != nil {
			return 0, err
		}

		var listings []*core.Listing
		if len(filters.Keywords) > 0 {
			listings, err = s.basicBySimilarity(ctx, filters)
		} else {
			listings, err = s.basicBySortOrder(ctx, filters)
		}
		if err != nil {
			return 0, err
		}

		views := make([]core.ListingView, len(listings))
		for i, listing := range listings {
			views[i] = listing.View()
		}
		result = &core.BasicResult{
			Prompt:  prompt,
			Filters: filters,
			Results: views,
			Count:   len(views),
		}
		s.logSearch(ctx, prompt, filters, result.Count)
		return result.Count, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Searcher) basicBySortOrder(ctx context.Context, filters core.FilterSet) ([]*core.Listing, error) {
	order := filters.SortBy
	if order == core.SortRelevance || order == core.SortValue {
		order = core.SortPriceAsc
	}
	listings, err := s.listings.Fetch(ctx, storage.Query{
		Predicates: BuildPredicates(filters),
		Order:      order,
		Limit:      BasicLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching listings: %w", err)
	}
	s.monitor.Fetched(OperationBasic, len(listings))
	return listings, nil
}

// basicBySimilarity orders every matching listing by similarity to the raw
// keywords. Listings without an embedding follow the ones that have one.
func (s *Searcher) basicBySimilarity(ctx context.Context, filters core.FilterSet) ([]*core.Listing, error) {
	listings, err := s.listings.Fetch(ctx, storage.Query{Predicates: BuildPredicates(filters)})
	if err != nil {
		return nil, fmt.Errorf("fetching listings: %w", err)
	}
	s.monitor.Fetched(OperationBasic, len(listings))

	scores, err := s.vector.Score(ctx, filters.Keywords, listings)
	s.monitor.VectorScored(OperationBasic, len(scores), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("keyword embedding failed, using sort order", "err", err)
		return s.basicBySortOrder(ctx, filters)
	}

	slices.SortStableFunc(listings, func(a, b *core.Listing) int {
		sa, okA := scores[a.Id]
		sb, okB := scores[b.Id]
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		}
		return cmp.Compare(sb, sa)
	})
	return truncate(listings, BasicLimit), nil
}
