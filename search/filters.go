package search

import (
	"strings"

	"github.com/poiesic/carprompt/core"
)

// BuildPredicates converts f into conjunctive store predicates, one per
// populated field. Paired bounds on the same field share a single Range.
// An empty filter yields no predicates, which selects every listing.
func BuildPredicates(f core.FilterSet) []core.Predicate {
	var predicates []core.Predicate

	for _, set := range []struct {
		field  core.Field
		values []string
	}{
		{core.FieldMake, f.Makes},
		{core.FieldModel, f.Models},
		{core.FieldFuelType, f.FuelTypes},
		{core.FieldTransmission, f.Transmissions},
		{core.FieldBodyType, f.BodyTypes},
	} {
		if len(set.values) == 0 {
			continue
		}
		values := make([]string, len(set.values))
		for i, v := range set.values {
			values[i] = strings.ToLower(v)
		}
		predicates = append(predicates, core.MatchAny{Field: set.field, Values: values})
	}

	if f.MinYear != nil || f.MaxYear != nil {
		predicates = append(predicates, core.Range{
			Field: core.FieldYear,
			Gte:   toFloat(f.MinYear),
			Lte:   toFloat(f.MaxYear),
		})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		predicates = append(predicates, core.Range{
			Field: core.FieldPrice,
			Gte:   f.MinPrice,
			Lte:   f.MaxPrice,
		})
	}
	if f.MaxMileage != nil {
		predicates = append(predicates, core.Range{Field: core.FieldMileage, Lte: toFloat(f.MaxMileage)})
	}
	if f.MinDoors != nil {
		predicates = append(predicates, core.Range{Field: core.FieldDoors, Gte: toFloat(f.MinDoors)})
	}

	return predicates
}

func toFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	return core.Ptr(float64(*v))
}
