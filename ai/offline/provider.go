// Package offline provides the AI collaborators used when no model is
// configured. Parsing degrades to keyword extraction, embedding is reported
// as unavailable, and query expansion echoes the query.
package offline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
)

// carKeywords are the qualities recognised without a model, matched as
// substrings of the lowercased prompt.
var carKeywords = []string{
	"reliable", "fuel efficient", "economical", "cheap", "affordable",
	"luxury", "premium", "sporty", "fast", "comfortable", "spacious",
	"practical", "family", "first car", "commuter", "weekend", "fun",
	"low mileage", "good condition", "full service history", "one owner",
	"automatic", "manual", "petrol", "diesel", "electric", "hybrid",
	"suv", "hatchback", "saloon", "estate", "convertible", "coupe",
	"japanese", "german", "british", "american", "korean", "french",
	"new", "used", "recent", "old", "classic", "modern",
}

// Provider implements ai.AIProvider without any backend.
type Provider struct {
	parser   FilterParser
	embedder Embedder
	expander QueryExpander
}

// NewProvider returns the offline provider.
func NewProvider() ai.AIProvider {
	slog.Default().With("component", "offline-provider").Warn("no AI credentials configured, running offline")
	return &Provider{}
}

// Embedder returns an embedder that always fails with ai.ErrUnavailable.
func (p *Provider) Embedder() ai.Embedder { return p.embedder }

// FilterParser returns the keyword-extracting parser.
func (p *Provider) FilterParser() ai.FilterParser { return p.parser }

// QueryExpander returns the echoing expander.
func (p *Provider) QueryExpander() ai.QueryExpander { return p.expander }

// Close is a no-op.
func (p *Provider) Close() error { return nil }

// FilterParser extracts known car keywords and nothing else.
type FilterParser struct{}

// ParseFilters returns a FilterSet whose only content is the keywords found
// in prompt, in the order they are listed in carKeywords.
func (FilterParser) ParseFilters(ctx context.Context, prompt string) (core.FilterSet, error) {
	if err := ctx.Err(); err != nil {
		return core.FilterSet{}, err
	}
	lower := strings.ToLower(prompt)
	filters := core.FilterSet{}
	for _, keyword := range carKeywords {
		if strings.Contains(lower, keyword) {
			filters.Keywords = append(filters.Keywords, keyword)
		}
	}
	filters.Normalize()
	return filters, nil
}

// Embedder is the null embedder.
type Embedder struct{}

// EmbedText always returns ai.ErrUnavailable.
func (Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return nil, ai.ErrUnavailable
}

// EmbedTexts always returns ai.ErrUnavailable.
func (Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, ai.ErrUnavailable
}

// QueryExpander returns the query as its only term.
type QueryExpander struct{}

// ExpandQuery returns []string{query}.
func (QueryExpander) ExpandQuery(ctx context.Context, query string) ([]string, error) {
	return []string{query}, nil
}
