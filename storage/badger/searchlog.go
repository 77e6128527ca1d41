package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// SearchLogRepository implements storage.SearchLogRepository for BadgerDB.
// Entries are keyed by sequential ID, so key order is insertion order.
type SearchLogRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.SearchLogRepository = (*SearchLogRepository)(nil)

// NewSearchLogRepository creates a new SearchLogRepository.
func NewSearchLogRepository(backend *Backend) (*SearchLogRepository, error) {
	idSeq, err := backend.GetSequence(searchLogIDSeq)
	if err != nil {
		return nil, err
	}
	return &SearchLogRepository{backend: backend, idSeq: idSeq}, nil
}

// Close releases the ID sequence.
func (r *SearchLogRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *SearchLogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddSearchLog stores a log entry.
func (r *SearchLogRepository) AddSearchLog(ctx context.Context, entry *core.SearchLog) (*core.SearchLog, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := nextID(r.idSeq)
		if err != nil {
			return err
		}
		entry.Id = id
		entry.InsertedAt = time.Now().UTC().Truncate(time.Microsecond)
		if err := tx.Set(makeSearchLogKey(entry.Id), storage.MarshalSearchLog(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecentSearchLogs returns up to limit entries, most recent first.
func (r *SearchLogRepository) RecentSearchLogs(ctx context.Context, limit int) ([]*core.SearchLog, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	var entries []*core.SearchLog
	err := r.backend.scanPrefix(ctx, []byte(searchLogPrefix), true, func(val []byte) (bool, error) {
		entry, err := storage.UnmarshalSearchLog(val)
		if err != nil {
			return false, err
		}
		entries = append(entries, entry)
		return len(entries) < limit, nil
	})
	return entries, err
}
