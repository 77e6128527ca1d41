package badger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

// matches reports whether listing satisfies every predicate. A numeric
// predicate on a field the listing has no value for does not match, the
// same way a SQL comparison against NULL is false.
func matches(listing *core.Listing, predicates []core.Predicate) (bool, error) {
	for _, p := range predicates {
		switch p := p.(type) {
		case core.MatchAny:
			v, ok := listing.StringField(p.Field)
			if !ok {
				return false, fmt.Errorf("%w: %q is not a text field", storage.ErrInvalidQuery, p.Field)
			}
			if !slices.Contains(p.Values, strings.ToLower(v)) {
				return false, nil
			}
		case core.Range:
			v, ok := listing.NumericField(p.Field)
			if !ok {
				return false, nil
			}
			if p.Gte != nil && v < *p.Gte {
				return false, nil
			}
			if p.Lte != nil && v > *p.Lte {
				return false, nil
			}
		default:
			return false, fmt.Errorf("%w: unsupported predicate %T", storage.ErrInvalidQuery, p)
		}
	}
	return true, nil
}

// keepsStoreOrder reports whether order leaves listings in ID order, which
// lets a fetch stop scanning once it has enough.
func keepsStoreOrder(order core.SortOrder) bool {
	switch order {
	case core.SortPriceAsc, core.SortPriceDesc, core.SortMileageAsc, core.SortYearDesc:
		return false
	}
	return true
}

// sortListings orders listings in place. The sort is stable so equal keys
// stay in ID order. Listings without a mileage sort last.
func sortListings(listings []*core.Listing, order core.SortOrder) {
	var less func(a, b *core.Listing) int
	switch order {
	case core.SortPriceAsc:
		less = func(a, b *core.Listing) int { return cmp.Compare(a.Price, b.Price) }
	case core.SortPriceDesc:
		less = func(a, b *core.Listing) int { return cmp.Compare(b.Price, a.Price) }
	case core.SortYearDesc:
		less = func(a, b *core.Listing) int { return cmp.Compare(b.Year, a.Year) }
	case core.SortMileageAsc:
		less = func(a, b *core.Listing) int {
			switch {
			case a.Mileage == nil && b.Mileage == nil:
				return 0
			case a.Mileage == nil:
				return 1
			case b.Mileage == nil:
				return -1
			}
			return cmp.Compare(*a.Mileage, *b.Mileage)
		}
	default:
		return
	}
	slices.SortStableFunc(listings, less)
}
