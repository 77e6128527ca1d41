// Package cache provides a Redis-backed ai.Embedder decorator. Embeddings
// are keyed by a hash of the text, so repeated prompts and re-embedding runs
// skip the upstream call.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a cached embedding lives.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultKeyPrefix namespaces cache keys.
	DefaultKeyPrefix = "carprompt:emb:"
)

// Embedder caches the vectors produced by another ai.Embedder. Redis
// failures are logged and the wrapped embedder is used directly.
type Embedder struct {
	next   ai.Embedder
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// Option configures an Embedder.
type Option func(*Embedder)

// WithTTL sets the expiry of cached vectors. Zero means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(e *Embedder) {
		e.ttl = ttl
	}
}

// WithKeyPrefix sets the key namespace. Include the model name when several
// models share one Redis.
func WithKeyPrefix(prefix string) Option {
	return func(e *Embedder) {
		e.prefix = prefix
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Embedder) {
		e.logger = logger
	}
}

// NewEmbedder wraps next with a cache stored in client.
func NewEmbedder(next ai.Embedder, client redis.Cmdable, opts ...Option) *Embedder {
	e := &Embedder{
		next:   next,
		client: client,
		ttl:    DefaultTTL,
		prefix: DefaultKeyPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "embedding-cache")
	return e
}

// EmbedText returns the cached vector for text, embedding and caching it on
// a miss.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts looks every text up in one MGET, embeds the misses in one
// batch and writes them back in one pipeline.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = e.key(text)
	}

	vectors := make([][]float32, len(texts))
	cached, err := e.client.MGet(ctx, keys...).Result()
	if err != nil {
		e.logger.Warn("cache lookup failed", "err", err)
		cached = nil
	}

	var missIdx []int
	var missTexts []string
	for i := range texts {
		if i < len(cached) {
			if s, ok := cached[i].(string); ok {
				if v, err := decodeVector([]byte(s)); err == nil {
					vectors[i] = v
					continue
				}
				e.logger.Warn("discarding corrupt cache entry", "key", keys[i])
			}
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, texts[i])
	}

	e.logger.Debug("embedding cache lookup", "hits", len(texts)-len(missIdx), "misses", len(missIdx))
	if len(missIdx) == 0 {
		return vectors, nil
	}

	fresh, err := e.next.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("embedding cache: expected %d vectors, got %d", len(missTexts), len(fresh))
	}

	pipe := e.client.Pipeline()
	for j, i := range missIdx {
		vectors[i] = fresh[j]
		if len(fresh[j]) == 0 {
			continue
		}
		pipe.Set(ctx, keys[i], encodeVector(fresh[j]), e.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		e.logger.Warn("cache write failed", "err", err)
	}
	return vectors, nil
}

func (e *Embedder) key(text string) string {
	return fmt.Sprintf("%s%016x", e.prefix, uint64(core.IDFromContent(text)))
}

func encodeVector(v []float32) []byte {
	size := varint.Uint64.Size(uint64(len(v)))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	bs := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(len(v)), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return bs
}

func decodeVector(bs []byte) ([]float32, error) {
	l, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return nil, err
	}
	if l == 0 || l > uint64(len(bs)-n)/4 {
		return nil, fmt.Errorf("embedding cache: bad vector length %d", l)
	}
	v := make([]float32, l)
	for i := range v {
		f, m, err := raw.Float32.Unmarshal(bs[n:])
		if err != nil {
			return nil, err
		}
		v[i] = f
		n += m
	}
	return v, nil
}
