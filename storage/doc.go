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

// Package storage provides the storage abstraction layer for carprompt.
//
// This package defines repository interfaces that decouple the listing store
// from the ranking engine. The engine only needs the contracts here: fetch
// candidates under conjunctive predicates, scan for nearest neighbours, and
// record search logs.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces:
//
//	repo, err := badger.NewListingRepository(backend)  // returns storage.ListingRepository
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Architecture
//
//   - Repository: operations shared by every repository
//   - ListingRepository: listings, predicate fetch and vector scan
//   - GarageRepository: dealers that own listings
//   - SearchLogRepository: the prompt log
//
// Records are encoded with mus-go (see serialization.go).
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
