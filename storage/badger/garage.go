package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// GarageRepository implements storage.GarageRepository for BadgerDB.
type GarageRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.GarageRepository = (*GarageRepository)(nil)

// NewGarageRepository creates a new GarageRepository.
func NewGarageRepository(backend *Backend) (*GarageRepository, error) {
	idSeq, err := backend.GetSequence(garageIDSeq)
	if err != nil {
		return nil, err
	}
	return &GarageRepository{backend: backend, idSeq: idSeq}, nil
}

// Close releases the ID sequence.
func (r *GarageRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *GarageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddGarages adds one or more garages to storage.
func (r *GarageRepository) AddGarages(ctx context.Context, garages ...*core.Garage) ([]*core.Garage, error) {
	for _, garage := range garages {
		if err := core.ValidateGarage(garage); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, garage := range garages {
			if garage.Id == 0 {
				id, err := nextID(r.idSeq)
				if err != nil {
					return err
				}
				garage.Id = id
			}
			if garage.InsertedAt.IsZero() {
				garage.InsertedAt = time.Now().UTC().Truncate(time.Microsecond)
			}
			if err := tx.Set(makeGarageKey(garage.Id), storage.MarshalGarage(garage)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return garages, nil
}

// GetGarage retrieves a single garage by ID.
func (r *GarageRepository) GetGarage(ctx context.Context, id core.ID) (*core.Garage, error) {
	var garage *core.Garage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeGarageKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			garage, err = storage.UnmarshalGarage(val)
			return err
		})
	}, false)
	return garage, err
}

// ListGarages returns every garage in ID order.
func (r *GarageRepository) ListGarages(ctx context.Context) ([]*core.Garage, error) {
	var garages []*core.Garage
	err := r.backend.scanPrefix(ctx, []byte(garagePrefix), false, func(val []byte) (bool, error) {
		garage, err := storage.UnmarshalGarage(val)
		if err != nil {
			return false, err
		}
		garages = append(garages, garage)
		return true, nil
	})
	return garages, err
}
