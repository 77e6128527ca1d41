package core

import (
	"slices"
	"strings"
)

// SortOrder is the ordering a user asked for.
type SortOrder string

const (
	SortRelevance  SortOrder = "relevance"
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortMileageAsc SortOrder = "mileage_asc"
	SortYearDesc   SortOrder = "year_desc"
	SortValue      SortOrder = "value"
)

// SortOrders lists every valid SortOrder.
var SortOrders = []SortOrder{SortRelevance, SortPriceAsc, SortPriceDesc, SortMileageAsc, SortYearDesc, SortValue}

// Valid reports whether s is a known sort order.
func (s SortOrder) Valid() bool {
	return slices.Contains(SortOrders, s)
}

// FilterSet is the structured form of a search prompt.
//
// Numeric bounds are pointers: nil means the user stated no constraint and
// must never be read as zero.
type FilterSet struct {
	Makes           []string  `json:"makes"`
	Models          []string  `json:"models"`
	FuelTypes       []string  `json:"fuel_types"`
	Transmissions   []string  `json:"transmissions"`
	BodyTypes       []string  `json:"body_types"`
	MinYear         *int      `json:"min_year"`
	MaxYear         *int      `json:"max_year"`
	MinPrice        *float64  `json:"min_price"`
	MaxPrice        *float64  `json:"max_price"`
	MaxMileage      *int      `json:"max_mileage"`
	MinDoors        *int      `json:"min_doors"`
	Keywords        []string  `json:"keywords"`
	SortBy          SortOrder `json:"sort_by"`
	PriorityFactors []string  `json:"priority_factors"`
	UseCase         []string  `json:"use_case"`
}

// Normalize lowercases the set fields, drops blanks and duplicates, and
// resets an unknown sort order to relevance. Keywords keep their case since
// they are matched case-insensitively later.
func (f *FilterSet) Normalize() {
	f.Makes = normalizeSet(f.Makes, true)
	f.Models = normalizeSet(f.Models, true)
	f.FuelTypes = normalizeSet(f.FuelTypes, true)
	f.Transmissions = normalizeSet(f.Transmissions, true)
	f.BodyTypes = normalizeSet(f.BodyTypes, true)
	f.Keywords = normalizeSet(f.Keywords, false)
	f.PriorityFactors = normalizeSet(f.PriorityFactors, false)
	f.UseCase = normalizeSet(f.UseCase, false)
	if !f.SortBy.Valid() {
		f.SortBy = SortRelevance
	}
}

// IsEmpty reports whether the filter constrains nothing.
func (f *FilterSet) IsEmpty() bool {
	return len(f.Makes) == 0 && len(f.Models) == 0 && len(f.FuelTypes) == 0 &&
		len(f.Transmissions) == 0 && len(f.BodyTypes) == 0 &&
		f.MinYear == nil && f.MaxYear == nil && f.MinPrice == nil && f.MaxPrice == nil &&
		f.MaxMileage == nil && f.MinDoors == nil && len(f.Keywords) == 0
}

// EmptyFilterSet returns an unconstrained, normalized filter.
func EmptyFilterSet() FilterSet {
	f := FilterSet{}
	f.Normalize()
	return f
}

// Ptr returns a pointer to v. Handy for filling optional bounds.
func Ptr[T any](v T) *T {
	return &v
}

func normalizeSet(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
