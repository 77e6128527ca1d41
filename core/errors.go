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

import "errors"

// Domain validation errors
var (
	// ErrInvalidListing indicates a Listing failed validation.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrInvalidGarage indicates a Garage failed validation.
	ErrInvalidGarage = errors.New("invalid garage")

	// ErrEmptyTitle indicates the listing Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyMake indicates the listing Make field is empty.
	ErrEmptyMake = errors.New("make cannot be empty")

	// ErrEmptyModel indicates the listing Model field is empty.
	ErrEmptyModel = errors.New("model cannot be empty")

	// ErrInvalidYear indicates a model year outside the plausible range.
	ErrInvalidYear = errors.New("invalid year")

	// ErrNegativePrice indicates a price below zero.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrNegativeMileage indicates a mileage below zero.
	ErrNegativeMileage = errors.New("mileage cannot be negative")

	// ErrEmptyGarageName indicates the garage Name field is empty.
	ErrEmptyGarageName = errors.New("garage name cannot be empty")
)

// ErrDimensionMismatch indicates two vectors of different lengths were compared.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// FilterSet validation errors
var (
	// ErrInvalidFilterSet indicates a FilterSet failed validation.
	ErrInvalidFilterSet = errors.New("invalid filter set")

	// ErrNegativeBound indicates a numeric bound below zero.
	ErrNegativeBound = errors.New("bound cannot be negative")

	// ErrInvertedRange indicates a lower bound above its upper bound.
	ErrInvertedRange = errors.New("lower bound exceeds upper bound")
)
