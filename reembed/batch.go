package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// BatchProcessor embeds batches of listings and writes the vectors back.
type BatchProcessor struct {
	repo           storage.ListingRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.ListingRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of listings and updates them in the database.
// Vectors are normalized so stored embeddings compare by cosine similarity
// alone.
func (bp *BatchProcessor) Process(ctx context.Context, listings []*core.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	texts := make([]string, len(listings))
	for i, listing := range listings {
		texts[i] = listing.EmbeddingText()
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("generating embeddings: %w", err)
	}

	if len(embeddings) != len(listings) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, len(listings), len(embeddings))
	}

	for i := range listings {
		listings[i].Vector = core.Normalize(embeddings[i])
	}

	if _, err := bp.repo.UpdateListings(ctx, listings...); err != nil {
		return fmt.Errorf("updating listings: %w", err)
	}
	return nil
}
