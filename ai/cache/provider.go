package cache

import (
	"github.com/poiesic/carprompt/ai"
	"github.com/redis/go-redis/v9"
)

// Provider routes the embedder of another ai.AIProvider through the cache.
// Parsing and query expansion are passed through unchanged.
type Provider struct {
	ai.AIProvider
	embedder *Embedder
}

var _ ai.AIProvider = (*Provider)(nil)

// NewProvider wraps next so its embeddings are cached in client.
func NewProvider(next ai.AIProvider, client redis.Cmdable, opts ...Option) *Provider {
	return &Provider{
		AIProvider: next,
		embedder:   NewEmbedder(next.Embedder(), client, opts...),
	}
}

// Embedder returns the caching embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}
