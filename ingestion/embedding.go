package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// embeddingProcessor generates embeddings for listings.
type embeddingProcessor struct {
	listings storage.ListingRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

func newEmbeddingProcessor(listings storage.ListingRepository, embedder ai.Embedder, logger *slog.Logger) (processor, error) {
	if listings == nil {
		return nil, ErrListingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		listings: listings,
		embedder: embedder,
		logger:   logger.With("processor", "embeddings"),
	}, nil
}

// process embeds the listings identified by ids and writes the vectors back.
// Listings deleted since ingestion are skipped.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	if len(ids) == 0 {
		return nil
	}
	ep.logger.Debug("processing listings for embeddings", "listings", len(ids))

	listings, err := ep.listings.GetListings(ctx, ids...)
	if err != nil {
		return fmt.Errorf("loading listings: %w", err)
	}
	if len(listings) == 0 {
		return nil
	}

	texts := make([]string, len(listings))
	for i, listing := range listings {
		texts[i] = listing.EmbeddingText()
	}

	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("generating embeddings: %w", err)
	}
	if len(embeddings) != len(listings) {
		return fmt.Errorf("%w: expected %d embeddings, received %d", ErrEmbeddingMismatch, len(listings), len(embeddings))
	}

	for i := range embeddings {
		listings[i].Vector = embeddings[i]
	}

	if _, err := ep.listings.UpdateListings(ctx, listings...); err != nil {
		return fmt.Errorf("storing embeddings: %w", err)
	}
	return nil
}
