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

package badger

import (
	"errors"

	"github.com/poiesic/carprompt/storage"
)

// Repositories bundles the repositories opened on one backend.
type Repositories struct {
	Listings   storage.ListingRepository
	Garages    storage.GarageRepository
	SearchLogs storage.SearchLogRepository
	Backend    *Backend
}

// OpenRepositories creates every repository on backend. On error, the
// repositories created so far are closed; the backend is left open.
func OpenRepositories(backend *Backend) (*Repositories, error) {
	listings, err := NewListingRepository(backend)
	if err != nil {
		return nil, err
	}

	garages, err := NewGarageRepository(backend)
	if err != nil {
		listings.Close()
		return nil, err
	}

	searchLogs, err := NewSearchLogRepository(backend)
	if err != nil {
		garages.Close()
		listings.Close()
		return nil, err
	}

	return &Repositories{
		Listings:   listings,
		Garages:    garages,
		SearchLogs: searchLogs,
		Backend:    backend,
	}, nil
}

// Close closes every repository, then the backend.
func (r *Repositories) Close() error {
	return errors.Join(
		r.SearchLogs.Close(),
		r.Garages.Close(),
		r.Listings.Close(),
		r.Backend.Close(),
	)
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must Close the result when done.
func NewMemoryRepositories() (*Repositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	repos, err := OpenRepositories(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return repos, nil
}
