package search

import (
	"math"
	"time"

	"github.com/poiesic/carprompt/core"
)

// Scorer defaults used when a filter leaves a bound open.
const (
	// DefaultPriceCeiling stands in for an open price ceiling when the
	// candidate itself has no usable price.
	DefaultPriceCeiling = 50000.0

	// DefaultMinYear is the floor of the year scale.
	DefaultMinYear = 1990

	// DefaultMaxMileage is the ceiling of the mileage scale.
	DefaultMaxMileage = 200000

	// unknownMileageScore is neutral: no reward, no penalty.
	unknownMileageScore = 0.5

	// neutralPriceScore applies when the band is centred on zero.
	neutralPriceScore = 0.5
)

// PriceScore rates how close price is to the middle of the requested price
// band. With no max_price the ceiling is twice the candidate's own price,
// so the scale differs from one candidate to the next. A band whose middle
// is 0 (max_price 0, no min_price) scores every price 0.5.
func PriceScore(price float64, f core.FilterSet) float64 {
	lo := 0.0
	if f.MinPrice != nil {
		lo = *f.MinPrice
	}
	var hi float64
	switch {
	case f.MaxPrice != nil:
		hi = *f.MaxPrice
	case price > 0:
		hi = price * 2
	default:
		hi = DefaultPriceCeiling
	}

	ideal := (lo + hi) / 2
	if ideal == 0 {
		return neutralPriceScore
	}
	width := hi - lo
	if width <= 0 {
		if price == ideal {
			return 1
		}
		return 0
	}
	return clamp01(1 - math.Abs(price-ideal)/width)
}

// YearScore places year linearly between min_year (default 1990) and
// max_year (default the year of now).
func YearScore(year int, f core.FilterSet, now time.Time) float64 {
	lo := DefaultMinYear
	if f.MinYear != nil {
		lo = *f.MinYear
	}
	hi := now.Year()
	if f.MaxYear != nil {
		hi = *f.MaxYear
	}

	if hi <= lo {
		if year >= lo && year <= hi {
			return 1
		}
		return 0
	}
	return clamp01(float64(year-lo) / float64(hi-lo))
}

// MileageScore favours lower mileage relative to max_mileage (default
// 200000). Unknown mileage is neutral.
func MileageScore(mileage *int, f core.FilterSet) float64 {
	if mileage == nil {
		return unknownMileageScore
	}
	if *mileage <= 0 {
		return 1
	}
	ceiling := DefaultMaxMileage
	if f.MaxMileage != nil {
		ceiling = *f.MaxMileage
	}
	if ceiling <= 0 {
		// Any distance driven is over a zero cap
		return 0
	}
	return clamp01(1 - float64(min(*mileage, ceiling))/float64(ceiling))
}

// KeywordScore is the fraction of keywords found as whole words in the
// listing's title and description, ignoring case.
func KeywordScore(listing *core.Listing, keywords []string) float64 {
	return newKeywordMatcher(keywords).score(listing.Text())
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
