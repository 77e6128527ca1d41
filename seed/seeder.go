package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// Ingester stores listings. ingestion.Pipeline satisfies it and embeds the
// listings in the background.
type Ingester interface {
	Ingest(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)
}

// Result counts what a seeding run wrote and what it found already present.
type Result struct {
	GaragesAdded    int `json:"garages_added"`
	GaragesSkipped  int `json:"garages_skipped"`
	ListingsAdded   int `json:"listings_added"`
	ListingsSkipped int `json:"listings_skipped"`
}

// Seeder writes a Catalog into the store. Records already present under
// their content ID are left untouched, so running it twice is a no-op.
type Seeder struct {
	garages  storage.GarageRepository
	listings storage.ListingRepository
	ingester Ingester
	logger   *slog.Logger
}

// NewSeeder creates a seeder. ingester may be nil, in which case listings are
// written straight to the repository without embeddings.
func NewSeeder(garages storage.GarageRepository, listings storage.ListingRepository, ingester Ingester, logger *slog.Logger) (*Seeder, error) {
	if garages == nil || listings == nil {
		return nil, ErrRepositoryRequired
	}
	if ingester == nil {
		ingester = repositoryIngester{listings}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		garages:  garages,
		listings: listings,
		ingester: ingester,
		logger:   logger.With("component", "seed"),
	}, nil
}

// Seed writes catalog's garages, then its listings.
func (s *Seeder) Seed(ctx context.Context, catalog *Catalog) (*Result, error) {
	result := &Result{}

	garageIDs := make(map[string]core.ID, len(catalog.Garages))
	var newGarages []*core.Garage
	for _, entry := range catalog.Garages {
		g := entry.garage()
		garageIDs[entry.Name] = g.Id
		exists, err := s.garageExists(ctx, g.Id)
		if err != nil {
			return nil, err
		}
		if exists {
			result.GaragesSkipped++
			continue
		}
		newGarages = append(newGarages, g)
	}
	if len(newGarages) > 0 {
		if _, err := s.garages.AddGarages(ctx, newGarages...); err != nil {
			return nil, fmt.Errorf("adding garages: %w", err)
		}
		result.GaragesAdded = len(newGarages)
	}

	candidates := make([]*core.Listing, len(catalog.Listings))
	ids := make([]core.ID, len(catalog.Listings))
	for i, entry := range catalog.Listings {
		candidates[i] = entry.listing(garageIDs[entry.Garage])
		ids[i] = candidates[i].Id
	}
	existing, err := s.listings.GetListings(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("checking listings: %w", err)
	}
	present := make(map[core.ID]struct{}, len(existing))
	for _, l := range existing {
		present[l.Id] = struct{}{}
	}

	var newListings []*core.Listing
	for _, l := range candidates {
		if _, ok := present[l.Id]; ok {
			result.ListingsSkipped++
			continue
		}
		present[l.Id] = struct{}{}
		newListings = append(newListings, l)
	}
	if len(newListings) > 0 {
		if _, err := s.ingester.Ingest(ctx, newListings...); err != nil {
			return nil, fmt.Errorf("adding listings: %w", err)
		}
		result.ListingsAdded = len(newListings)
	}

	s.logger.Info("catalog seeded",
		"garages_added", result.GaragesAdded, "garages_skipped", result.GaragesSkipped,
		"listings_added", result.ListingsAdded, "listings_skipped", result.ListingsSkipped)
	return result, nil
}

func (s *Seeder) garageExists(ctx context.Context, id core.ID) (bool, error) {
	_, err := s.garages.GetGarage(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("checking garage: %w", err)
	}
}

type repositoryIngester struct {
	listings storage.ListingRepository
}

func (r repositoryIngester) Ingest(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error) {
	return r.listings.AddListings(ctx, listings...)
}
