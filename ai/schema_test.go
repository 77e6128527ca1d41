package ai

import (
	"testing"

	"github.com/poiesic/carprompt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFilterSet(t *testing.T) {
	t.Run("well formed payload", func(t *testing.T) {
		data := []byte(`{
			"makes": ["Toyota", "Honda", "toyota"],
			"min_year": 2015,
			"max_price": 10000,
			"fuel_types": ["Hybrid"],
			"keywords": ["reliable", "Fuel Efficient"],
			"sort_by": "price_asc",
			"use_case": ["daily commute"]
		}`)

		filters, dropped, err := DecodeFilterSet(data)
		require.NoError(t, err)
		assert.Empty(t, dropped)

		assert.Equal(t, []string{"toyota", "honda"}, filters.Makes)
		assert.Equal(t, []string{"hybrid"}, filters.FuelTypes)
		assert.Equal(t, []string{"reliable", "Fuel Efficient"}, filters.Keywords)
		assert.Equal(t, core.Ptr(2015), filters.MinYear)
		assert.Equal(t, core.Ptr(10000.0), filters.MaxPrice)
		assert.Nil(t, filters.MaxYear)
		assert.Nil(t, filters.MinPrice)
		assert.Equal(t, core.SortPriceAsc, filters.SortBy)
		assert.Equal(t, []string{"daily commute"}, filters.UseCase)
		assert.NotNil(t, filters.Models)
	})

	t.Run("malformed fields are dropped", func(t *testing.T) {
		data := []byte(`{
			"makes": "Toyota",
			"models": ["Yaris", 4],
			"min_year": "recent",
			"max_mileage": -5,
			"max_price": 8000,
			"sort_by": "cheapest",
			"keywords": ["cheap"]
		}`)

		filters, dropped, err := DecodeFilterSet(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"makes", "max_mileage", "min_year", "models", "sort_by"}, dropped)

		assert.Empty(t, filters.Makes)
		assert.Empty(t, filters.Models)
		assert.Nil(t, filters.MinYear)
		assert.Nil(t, filters.MaxMileage)
		assert.Equal(t, core.Ptr(8000.0), filters.MaxPrice)
		assert.Equal(t, core.SortRelevance, filters.SortBy)
		assert.Equal(t, []string{"cheap"}, filters.Keywords)
	})

	t.Run("nulls are unset bounds", func(t *testing.T) {
		filters, dropped, err := DecodeFilterSet([]byte(`{"min_price": null, "max_price": 0, "keywords": null}`))
		require.NoError(t, err)
		assert.Empty(t, dropped)
		assert.Nil(t, filters.MinPrice)
		assert.Equal(t, core.Ptr(0.0), filters.MaxPrice)
		assert.NotNil(t, filters.Keywords)
	})

	t.Run("oversized integers are dropped alone", func(t *testing.T) {
		filters, dropped, err := DecodeFilterSet([]byte(`{
			"min_year": 1e30,
			"max_mileage": 99999999999,
			"min_doors": 4,
			"max_price": 12000,
			"makes": ["Skoda"]
		}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"max_mileage", "min_year"}, dropped)
		assert.Nil(t, filters.MinYear)
		assert.Nil(t, filters.MaxMileage)
		assert.Equal(t, core.Ptr(4), filters.MinDoors)
		assert.Equal(t, core.Ptr(12000.0), filters.MaxPrice)
		assert.Equal(t, []string{"skoda"}, filters.Makes)
	})

	t.Run("inverted ranges are dropped", func(t *testing.T) {
		filters, dropped, err := DecodeFilterSet([]byte(`{"min_year": 2022, "max_year": 2010, "min_price": 100, "max_price": 900}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"max_year", "min_year"}, dropped)
		assert.Nil(t, filters.MinYear)
		assert.Nil(t, filters.MaxYear)
		assert.Equal(t, core.Ptr(100.0), filters.MinPrice)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		filters, dropped, err := DecodeFilterSet([]byte(`{"engine_size": 1.4, "keywords": ["first car"]}`))
		require.NoError(t, err)
		assert.Empty(t, dropped)
		assert.Equal(t, []string{"first car"}, filters.Keywords)
	})

	t.Run("empty object", func(t *testing.T) {
		filters, _, err := DecodeFilterSet([]byte(`{}`))
		require.NoError(t, err)
		assert.True(t, filters.IsEmpty())
	})

	for _, payload := range []string{`[1, 2]`, `null`, `"text"`, `not json`, ``} {
		t.Run("not an object: "+payload, func(t *testing.T) {
			_, _, err := DecodeFilterSet([]byte(payload))
			assert.ErrorIs(t, err, ErrParseFailure)
		})
	}
}
