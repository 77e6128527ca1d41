package storage

import (
	"context"

	"github.com/poiesic/carprompt/core"
)

// Query selects listings for ranking.
type Query struct {
	// Predicates are conjunctive. An empty slice selects every listing.
	Predicates []core.Predicate

	// Order is applied before Limit. SortRelevance and SortValue keep
	// store order (ascending ID).
	Order core.SortOrder

	// Limit caps the number of listings returned. Zero or less means no cap.
	Limit int
}

// SimilarListing is a listing returned by a nearest-neighbour scan.
type SimilarListing struct {
	Listing *core.Listing
	Score   float64
}

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// ListingRepository provides operations for managing listings.
type ListingRepository interface {
	Repository

	// AddListings validates, normalizes and stores listings.
	// For listings with ID=0, generates new IDs from sequence; listings that
	// already carry an ID are written under it, replacing any existing record.
	// Sets InsertedAt if not already set.
	AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// UpdateListings updates existing listings and their UpdatedAt timestamp.
	// Returns ErrNotFound if any listing doesn't exist.
	UpdateListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// DeleteListings removes listings by ID.
	// Returns ErrNotFound if any listing doesn't exist.
	DeleteListings(ctx context.Context, ids ...core.ID) error

	// GetListing retrieves a single listing.
	// Returns ErrNotFound if the listing doesn't exist.
	GetListing(ctx context.Context, id core.ID) (*core.Listing, error)

	// GetListings retrieves multiple listings by their IDs.
	// Returns only the listings that exist (no error for missing ones).
	GetListings(ctx context.Context, ids ...core.ID) ([]*core.Listing, error)

	// ListListings pages through listings, newest first.
	ListListings(ctx context.Context, offset, limit int) ([]*core.Listing, error)

	// Fetch returns the listings matching every predicate in q.
	Fetch(ctx context.Context, q Query) ([]*core.Listing, error)

	// FindSimilar scans all listings carrying an embedding of the same
	// dimension as vector and returns up to limit of them ordered by cosine
	// similarity, highest first.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]SimilarListing, error)

	// CountListings returns the number of stored listings.
	CountListings(ctx context.Context) (int, error)

	// ForEachListing calls fn with successive batches of listings in ID
	// order. Iteration stops at the first error from fn.
	ForEachListing(ctx context.Context, batchSize int, fn func([]*core.Listing) error) error
}

// GarageRepository provides operations for managing garages.
type GarageRepository interface {
	Repository

	// AddGarages validates and stores garages, assigning IDs to those with ID=0.
	AddGarages(ctx context.Context, garages ...*core.Garage) ([]*core.Garage, error)

	// GetGarage retrieves a single garage.
	// Returns ErrNotFound if the garage doesn't exist.
	GetGarage(ctx context.Context, id core.ID) (*core.Garage, error)

	// ListGarages returns every garage in ID order.
	ListGarages(ctx context.Context) ([]*core.Garage, error)
}

// SearchLogRepository records searches.
type SearchLogRepository interface {
	Repository

	// AddSearchLog stores a log entry, assigning its ID and timestamp.
	AddSearchLog(ctx context.Context, entry *core.SearchLog) (*core.SearchLog, error)

	// RecentSearchLogs returns up to limit entries, most recent first.
	RecentSearchLogs(ctx context.Context, limit int) ([]*core.SearchLog, error)
}
