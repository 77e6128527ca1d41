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

package core

import (
	"fmt"
	"time"
)

// MinListingYear is the earliest model year a listing may carry.
const MinListingYear = 1886

// ValidateListing validates a Listing according to domain rules.
//
// Validation rules:
//   - Title, Make and Model must not be empty
//   - Year must lie between MinListingYear and next year
//   - Price must not be negative
//   - Mileage, when present, must not be negative
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding processor runs)
//   - ID (0 is valid from database sequences)
func ValidateListing(listing *Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: listing is nil", ErrInvalidListing)
	}
	if listing.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyTitle)
	}
	if listing.Make == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyMake)
	}
	if listing.Model == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyModel)
	}
	if listing.Year < MinListingYear || listing.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidListing, ErrInvalidYear, listing.Year)
	}
	if listing.Price < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrNegativePrice)
	}
	if listing.Mileage != nil && *listing.Mileage < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrNegativeMileage)
	}
	return nil
}

// ValidateGarage validates a Garage according to domain rules.
func ValidateGarage(garage *Garage) error {
	if garage == nil {
		return fmt.Errorf("%w: garage is nil", ErrInvalidGarage)
	}
	if garage.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidGarage, ErrEmptyGarageName)
	}
	return nil
}

// ValidateFilterSet checks the numeric bounds of a FilterSet. Bounds must
// not be negative, and a lower bound must not exceed its upper bound.
func ValidateFilterSet(f *FilterSet) error {
	if f == nil {
		return fmt.Errorf("%w: filter set is nil", ErrInvalidFilterSet)
	}
	for name, v := range map[string]*float64{
		"min_year":    intBound(f.MinYear),
		"max_year":    intBound(f.MaxYear),
		"min_price":   f.MinPrice,
		"max_price":   f.MaxPrice,
		"max_mileage": intBound(f.MaxMileage),
		"min_doors":   intBound(f.MinDoors),
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %w: %s", ErrInvalidFilterSet, ErrNegativeBound, name)
		}
	}
	if f.MinYear != nil && f.MaxYear != nil && *f.MinYear > *f.MaxYear {
		return fmt.Errorf("%w: %w: year %d > %d", ErrInvalidFilterSet, ErrInvertedRange, *f.MinYear, *f.MaxYear)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: %w: price %.0f > %.0f", ErrInvalidFilterSet, ErrInvertedRange, *f.MinPrice, *f.MaxPrice)
	}
	return nil
}

func intBound(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
