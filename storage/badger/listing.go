package badger

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// ListingRepository implements storage.ListingRepository for BadgerDB.
// Predicates are evaluated in process over a prefix scan.
type ListingRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ListingRepository = (*ListingRepository)(nil)

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(backend *Backend) (*ListingRepository, error) {
	idSeq, err := backend.GetSequence(listingIDSeq)
	if err != nil {
		return nil, err
	}

	return &ListingRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ListingRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ListingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddListings adds one or more listings to storage.
func (r *ListingRepository) AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	for _, listing := range listings {
		listing.Normalize()
		if err := core.ValidateListing(listing); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, listing := range listings {
			if listing.Id == 0 {
				id, err := nextID(r.idSeq)
				if err != nil {
					return err
				}
				listing.Id = id
			} else {
				// Explicit IDs replace whatever is stored under them
				old, err := readListing(tx, makeListingKey(listing.Id))
				if err != nil {
					return err
				}
				if old != nil {
					if err := tx.Delete(makeListingDateKey(old.InsertedAt, old.Id)); err != nil {
						return err
					}
				}
			}

			if listing.InsertedAt.IsZero() {
				listing.InsertedAt = time.Now().UTC().Truncate(time.Microsecond)
			}
			listing.UpdatedAt = listing.InsertedAt

			if err := tx.Set(makeListingKey(listing.Id), storage.MarshalListing(listing)); err != nil {
				return err
			}
			dateKey := makeListingDateKey(listing.InsertedAt, listing.Id)
			if err := tx.Set(dateKey, storage.MarshalID(listing.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateListings updates existing listings.
func (r *ListingRepository) UpdateListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, listing := range listings {
			key := makeListingKey(listing.Id)
			old, err := readListing(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			listing.Normalize()
			// The insertion date is part of the index key and never changes
			listing.InsertedAt = old.InsertedAt
			listing.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

			if err := tx.Set(key, storage.MarshalListing(listing)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// DeleteListings removes listings and their index entries.
func (r *ListingRepository) DeleteListings(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeListingKey(id)
			old, err := readListing(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeListingDateKey(old.InsertedAt, id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetListing retrieves a single listing by ID.
func (r *ListingRepository) GetListing(ctx context.Context, id core.ID) (*core.Listing, error) {
	var listing *core.Listing
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		listing, err = readListing(tx, makeListingKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, storage.ErrNotFound
	}
	return listing, nil
}

// GetListings retrieves the listings that exist among ids.
func (r *ListingRepository) GetListings(ctx context.Context, ids ...core.ID) ([]*core.Listing, error) {
	results := make([]*core.Listing, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			listing, err := readListing(tx, makeListingKey(id))
			if err != nil {
				return err
			}
			if listing != nil {
				results = append(results, listing)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListListings pages through listings, newest first, using the date index.
func (r *ListingRepository) ListListings(ctx context.Context, offset, limit int) ([]*core.Listing, error) {
	if offset < 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var ids []core.ID
	skipped := 0
	err := r.backend.scanPrefix(ctx, []byte(listingDatePrefix), true, func(val []byte) (bool, error) {
		if skipped < offset {
			skipped++
			return true, nil
		}
		id, err := storage.UnmarshalID(val)
		if err != nil {
			return false, err
		}
		ids = append(ids, id)
		return len(ids) < limit, nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetListings(ctx, ids...)
}

// Fetch returns the listings matching q.
func (r *ListingRepository) Fetch(ctx context.Context, q storage.Query) ([]*core.Listing, error) {
	earlyStop := keepsStoreOrder(q.Order) && q.Limit > 0

	var results []*core.Listing
	err := r.scan(ctx, func(listing *core.Listing) (bool, error) {
		ok, err := matches(listing, q.Predicates)
		if err != nil {
			return false, err
		}
		if ok {
			results = append(results, listing)
		}
		return !earlyStop || len(results) < q.Limit, nil
	})
	if err != nil {
		return nil, err
	}

	sortListings(results, q.Order)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// FindSimilar returns the listings nearest to vector by cosine similarity.
// Listings without an embedding, or with one of another dimension, are
// skipped.
func (r *ListingRepository) FindSimilar(ctx context.Context, vector []float32, limit int) ([]storage.SimilarListing, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []storage.SimilarListing
	err := r.scan(ctx, func(listing *core.Listing) (bool, error) {
		if len(listing.Vector) == 0 {
			return true, nil
		}
		score, err := core.CosineSimilarity(vector, listing.Vector)
		if err != nil {
			if errors.Is(err, core.ErrDimensionMismatch) {
				r.backend.logger.Warn("skipping listing with mismatched embedding", "id", listing.Id, "err", err)
				return true, nil
			}
			return false, err
		}
		results = append(results, storage.SimilarListing{Listing: listing, Score: score})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortStableFunc(results, func(a, b storage.SimilarListing) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountListings returns the number of stored listings.
func (r *ListingRepository) CountListings(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// ForEachListing calls fn with batches of listings in ID order.
func (r *ListingRepository) ForEachListing(ctx context.Context, batchSize int, fn func([]*core.Listing) error) error {
	if batchSize <= 0 {
		return storage.ErrInvalidQuery
	}

	// Collect a batch under the read transaction, hand it to fn outside of
	// it so fn may write.
	start := makeListingKey(0)
	for {
		batch := make([]*core.Listing, 0, batchSize)
		err := r.backend.scanFrom(ctx, []byte(listingPrefix), start, false, func(val []byte) (bool, error) {
			listing, err := storage.UnmarshalListing(val)
			if err != nil {
				return false, err
			}
			batch = append(batch, listing)
			return len(batch) < batchSize, nil
		})
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < batchSize {
			return nil
		}
		start = makeListingKey(batch[len(batch)-1].Id + 1)
	}
}

// scan decodes every listing in ID order.
func (r *ListingRepository) scan(ctx context.Context, fn func(*core.Listing) (bool, error)) error {
	return r.backend.scanPrefix(ctx, []byte(listingPrefix), false, func(val []byte) (bool, error) {
		listing, err := storage.UnmarshalListing(val)
		if err != nil {
			return false, err
		}
		return fn(listing)
	})
}

// readListing reads a listing from the transaction. Returns nil, nil when
// the key doesn't exist.
func readListing(tx *badger.Txn, key []byte) (*core.Listing, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var listing *core.Listing
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		listing, unmarshalErr = storage.UnmarshalListing(val)
		return unmarshalErr
	})
	return listing, err
}
