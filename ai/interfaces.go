package ai

import (
	"context"

	"github.com/poiesic/carprompt/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// FilterParser turns a free-text search prompt into a FilterSet.
// Implementations must be thread-safe for concurrent use.
type FilterParser interface {
	// ParseFilters returns the normalized filters implied by prompt. Empty or
	// meaningless prompts yield an empty FilterSet. Upstream failures return
	// an error wrapping ErrParseFailure.
	ParseFilters(ctx context.Context, prompt string) (core.FilterSet, error)
}

// QueryExpander suggests related search terms for a query.
type QueryExpander interface {
	// ExpandQuery returns terms related to query. Implementations that cannot
	// reach their backend return []string{query}.
	ExpandQuery(ctx context.Context, query string) ([]string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates the parser, embedder and expander so that they share
// configuration and resources.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// FilterParser returns the prompt parsing service.
	FilterParser() FilterParser

	// QueryExpander returns the query expansion service.
	QueryExpander() QueryExpander

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
