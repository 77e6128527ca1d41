// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of listings to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of listings)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each embedding call
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// OnlyMissing restricts the run to listings without an embedding
	OnlyMissing bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Summary reports what a run did.
type Summary struct {
	Examined int           `json:"examined"`
	Embedded int           `json:"embedded"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Reembedder recomputes listing embeddings across the whole catalog.
type Reembedder struct {
	repo      storage.ListingRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ListingIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.ListingRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrListingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewListingIterator(repo, config.BatchSize, config.OnlyMissing),
	}, nil
}

// Run embeds every listing (or every listing missing a vector when
// OnlyMissing is set) and stores the normalized vectors.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) (*Summary, error) {
	total, err := r.repo.CountListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting listings: %w", err)
	}

	summary := &Summary{}
	if total == 0 {
		fmt.Fprintf(r.progress, "No listings found in database (0 listings)\n")
		return summary, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d listings (batch size: %d)\n",
		total, r.iterator.batchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	err = r.iterator.ForEach(ctx, func(listings []*core.Listing, examined int) error {
		if err := r.processor.Process(ctx, listings); err != nil {
			return fmt.Errorf("processing batch: %w", err)
		}
		summary.Examined += examined
		summary.Embedded += len(listings)
		tracker.Update(summary.Examined)
		return nil
	})
	if err != nil {
		return summary, err
	}

	tracker.Finish()
	summary.Elapsed = tracker.Elapsed()

	fmt.Fprintf(r.progress, "Reembedding complete. Embedded %d of %d listings in %v (%.1f listings/sec)\n",
		summary.Embedded, summary.Examined, summary.Elapsed.Round(time.Millisecond),
		float64(summary.Embedded)/summary.Elapsed.Seconds())

	return summary, nil
}
