package search

import (
	"slices"
	"strings"
)

// synonyms maps a lowercase keyword to the terms it expands to.
var synonyms = map[string][]string{
	"reliable":       {"dependable", "trustworthy", "durable"},
	"fuel efficient": {"economical", "good mpg", "low fuel consumption"},
	"cheap":          {"affordable", "inexpensive", "budget"},
	"luxury":         {"premium", "high-end", "luxurious"},
	"sporty":         {"fast", "performance", "quick"},
	"family":         {"practical", "spacious", "roomy"},
	"suv":            {"4x4", "crossover", "off-road"},
	"hatchback":      {"5-door"},
	"saloon":         {"sedan", "4-door"},
	"estate":         {"wagon", "station wagon"},
	"convertible":    {"cabriolet", "drophead"},
	"manual":         {"stick shift", "standard"},
	"automatic":      {"auto", "self-shifting"},
}

// Expand returns keywords followed by their synonyms and substring-triggered
// additions, without duplicates. The originals always come first and in
// input order; additions follow in the order they were first produced.
func Expand(keywords []string) []string {
	if len(keywords) == 0 {
		return []string{}
	}

	out := make([]string, 0, len(keywords)*3)
	add := func(terms ...string) {
		for _, term := range terms {
			if !slices.Contains(out, term) {
				out = append(out, term)
			}
		}
	}

	add(keywords...)

	large := slices.ContainsFunc(keywords, func(k string) bool {
		return strings.EqualFold(k, "large")
	})
	for _, keyword := range keywords {
		lower := strings.ToLower(keyword)
		add(synonyms[lower]...)
		if lower == "hatchback" && large {
			add("estate")
		}
		if strings.Contains(lower, "economy") || strings.Contains(lower, "mpg") {
			add("fuel efficient")
		}
		if strings.Contains(lower, "4x4") {
			add("suv", "off-road")
		}
	}
	return out
}
