package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// Observer is notified after each asynchronous embedding batch.
type Observer interface {
	ListingsEmbedded(n int, err error)
}

type noopObserver struct{}

func (noopObserver) ListingsEmbedded(int, error) {}

// Pipeline stores new listings and embeds them in the background.
type Pipeline struct {
	listings      storage.ListingRepository
	embeddingPool *ants.Pool
	embeddingProc processor
	observer      Observer
	wg            sync.WaitGroup
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for background embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithObserver reports embedding outcomes, typically to metrics.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) error {
		if observer == nil {
			observer = noopObserver{}
		}
		p.observer = observer
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(listings storage.ListingRepository, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		listings:      listings,
		embeddingPool: pool,
		observer:      noopObserver{},
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	embeddingProc, err := newEmbeddingProcessor(listings, provider.Embedder(), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// Ingest normalizes and stores listings, then embeds them asynchronously.
// The stored listings are returned as soon as they are written; embedding
// failures are logged and reported to the observer but never fail the call.
func (p *Pipeline) Ingest(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	added, err := p.listings.AddListings(ctx, listings...)
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		return added, nil
	}

	ids := make([]core.ID, len(added))
	for i, listing := range added {
		ids[i] = listing.Id
	}

	p.wg.Add(1)
	err = p.embeddingPool.Submit(func() {
		defer p.wg.Done()
		p.embed(ids)
	})
	if err != nil {
		p.wg.Done()
		p.logger.Error("error submitting embedding work", "err", err, "listings", len(ids))
	}

	return added, nil
}

func (p *Pipeline) embed(ids []core.ID) {
	err := p.embeddingProc.process(context.Background(), ids...)
	p.observer.ListingsEmbedded(len(ids), err)
	switch {
	case err == nil:
	case errors.Is(err, ai.ErrUnavailable):
		p.logger.Info("embedding skipped, no embedder configured", "listings", len(ids))
	default:
		p.logger.Error("error processing embeddings", "err", err)
	}
}

// Wait blocks until all submitted embedding work has finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release waits for in-flight work and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
