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

	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

const (
	// DefaultBatchSize is the default number of listings to fetch in each batch
	DefaultBatchSize = 100
)

// ListingIterator walks the catalog in ID order, one batch at a time.
type ListingIterator struct {
	repo        storage.ListingRepository
	batchSize   int
	onlyMissing bool
}

// NewListingIterator creates a new listing iterator.
// batchSize: number of listings to fetch in each batch; values <= 0 use
// DefaultBatchSize.
// onlyMissing: skip listings that already carry an embedding.
func NewListingIterator(repo storage.ListingRepository, batchSize int, onlyMissing bool) *ListingIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &ListingIterator{
		repo:        repo,
		batchSize:   batchSize,
		onlyMissing: onlyMissing,
	}
}

// ForEach calls fn for each batch with the listings to embed and the number
// of listings examined to produce it. With onlyMissing the batch may be
// empty. Iteration stops on the first error from fn, and context
// cancellation is checked between batches.
func (it *ListingIterator) ForEach(ctx context.Context, fn func(listings []*core.Listing, examined int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return it.repo.ForEachListing(ctx, it.batchSize, func(batch []*core.Listing) error {
		examined := len(batch)
		if it.onlyMissing {
			batch = missingVectors(batch)
		}
		if err := fn(batch, examined); err != nil {
			return err
		}
		return ctx.Err()
	})
}

func missingVectors(listings []*core.Listing) []*core.Listing {
	missing := listings[:0]
	for _, listing := range listings {
		if len(listing.Vector) == 0 {
			missing = append(missing, listing)
		}
	}
	return missing
}
