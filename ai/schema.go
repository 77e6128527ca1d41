package ai

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/poiesic/carprompt/core"
	"github.com/xeipuuv/gojsonschema"
)

// FilterSetSchema describes the JSON object a parser model must return.
// Every field is optional and may be null. Integer bounds are capped so
// they fit an int on every platform.
const FilterSetSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "makes":            {"type": ["array", "null"], "items": {"type": "string"}},
    "models":           {"type": ["array", "null"], "items": {"type": "string"}},
    "fuel_types":       {"type": ["array", "null"], "items": {"type": "string"}},
    "transmissions":    {"type": ["array", "null"], "items": {"type": "string"}},
    "body_types":       {"type": ["array", "null"], "items": {"type": "string"}},
    "keywords":         {"type": ["array", "null"], "items": {"type": "string"}},
    "priority_factors": {"type": ["array", "null"], "items": {"type": "string"}},
    "use_case":         {"type": ["array", "null"], "items": {"type": "string"}},
    "min_year":         {"type": ["integer", "null"], "minimum": 0, "maximum": 2147483647},
    "max_year":         {"type": ["integer", "null"], "minimum": 0, "maximum": 2147483647},
    "min_price":        {"type": ["number", "null"], "minimum": 0},
    "max_price":        {"type": ["number", "null"], "minimum": 0},
    "max_mileage":      {"type": ["integer", "null"], "minimum": 0, "maximum": 2147483647},
    "min_doors":        {"type": ["integer", "null"], "minimum": 0, "maximum": 2147483647},
    "sort_by":          {"type": ["string", "null"], "enum": ["relevance", "price_asc", "price_desc", "mileage_asc", "year_desc", "value", null]}
  }
}`

var filterSetSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(FilterSetSchema))
})

// DecodeFilterSet turns raw parser output into a normalized FilterSet.
//
// The payload must be a JSON object. Each top-level field that does not
// match FilterSetSchema is dropped, as is each bound pair whose lower end
// exceeds its upper end; the names of dropped fields are returned so the
// caller can log them. Anything that is not a JSON object is an error
// wrapping ErrParseFailure.
func DecodeFilterSet(data []byte) (core.FilterSet, []string, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.FilterSet{}, nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	if doc == nil {
		return core.FilterSet{}, nil, fmt.Errorf("%w: payload is not an object", ErrParseFailure)
	}

	schema, err := filterSetSchema()
	if err != nil {
		return core.FilterSet{}, nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return core.FilterSet{}, nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	var dropped []string
	for _, desc := range result.Errors() {
		field, _, _ := strings.Cut(desc.Field(), ".")
		if field == "(root)" {
			continue
		}
		if _, ok := doc[field]; ok {
			delete(doc, field)
			dropped = append(dropped, field)
		}
	}

	cleaned, err := json.Marshal(doc)
	if err != nil {
		return core.FilterSet{}, nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}
	var filters core.FilterSet
	if err := json.Unmarshal(cleaned, &filters); err != nil {
		return core.FilterSet{}, nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	if filters.MinYear != nil && filters.MaxYear != nil && *filters.MinYear > *filters.MaxYear {
		filters.MinYear, filters.MaxYear = nil, nil
		dropped = append(dropped, "min_year", "max_year")
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		filters.MinPrice, filters.MaxPrice = nil, nil
		dropped = append(dropped, "min_price", "max_price")
	}

	filters.Normalize()
	if err := core.ValidateFilterSet(&filters); err != nil {
		return core.FilterSet{}, nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	slices.Sort(dropped)
	return filters, dropped, nil
}
