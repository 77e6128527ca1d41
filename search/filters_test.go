package search

import (
	"testing"

	"github.com/poiesic/carprompt/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildPredicates_Empty(t *testing.T) {
	assert.Empty(t, BuildPredicates(core.EmptyFilterSet()))
	assert.Empty(t, BuildPredicates(core.FilterSet{}))
}

func TestBuildPredicates(t *testing.T) {
	f := core.FilterSet{
		Makes:      []string{"Toyota", "honda"},
		FuelTypes:  []string{"petrol"},
		MinYear:    core.Ptr(2015),
		MaxYear:    core.Ptr(2023),
		MaxPrice:   core.Ptr(15000.0),
		MaxMileage: core.Ptr(60000),
		MinDoors:   core.Ptr(5),
		Keywords:   []string{"reliable"},
	}

	got := BuildPredicates(f)
	want := []core.Predicate{
		core.MatchAny{Field: core.FieldMake, Values: []string{"toyota", "honda"}},
		core.MatchAny{Field: core.FieldFuelType, Values: []string{"petrol"}},
		core.Range{Field: core.FieldYear, Gte: core.Ptr(2015.0), Lte: core.Ptr(2023.0)},
		core.Range{Field: core.FieldPrice, Lte: core.Ptr(15000.0)},
		core.Range{Field: core.FieldMileage, Lte: core.Ptr(60000.0)},
		core.Range{Field: core.FieldDoors, Gte: core.Ptr(5.0)},
	}
	assert.Equal(t, want, got)
}

func TestBuildPredicates_ZeroBoundIsAConstraint(t *testing.T) {
	got := BuildPredicates(core.FilterSet{MaxMileage: core.Ptr(0)})
	assert.Equal(t, []core.Predicate{
		core.Range{Field: core.FieldMileage, Lte: core.Ptr(0.0)},
	}, got)
}

func TestBuildPredicates_SingleSidedRanges(t *testing.T) {
	got := BuildPredicates(core.FilterSet{MinYear: core.Ptr(2018), MinPrice: core.Ptr(5000.0)})
	assert.Equal(t, []core.Predicate{
		core.Range{Field: core.FieldYear, Gte: core.Ptr(2018.0)},
		core.Range{Field: core.FieldPrice, Gte: core.Ptr(5000.0)},
	}, got)
}
