package storage

import (
	"testing"
	"time"

	"github.com/poiesic/carprompt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Empty(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalListing(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("full listing", func(t *testing.T) {
		listing := &core.Listing{
			Id:           12,
			Title:        "2019 Toyota Yaris 1.5 VVT-i Icon",
			Description:  "Excellent first car.",
			Make:         "toyota",
			Model:        "yaris",
			Variant:      "1.5 VVT-i Icon",
			Year:         2019,
			Price:        9500,
			Mileage:      core.Ptr(28000),
			FuelType:     "petrol",
			Transmission: "manual",
			BodyType:     "hatchback",
			Doors:        5,
			Colour:       "silver",
			EngineSize:   core.Ptr(1.5),
			Location:     "Birmingham",
			Postcode:     "B1 1AA",
			Images:       []string{"a.jpg", "b.jpg"},
			GarageId:     3,
			Vector:       []float32{0.1, -0.2, 0.3},
			InsertedAt:   now,
			UpdatedAt:    now.Add(time.Minute),
		}

		decoded, err := UnmarshalListing(MarshalListing(listing))
		require.NoError(t, err)

		assert.Equal(t, listing.Id, decoded.Id)
		assert.Equal(t, listing.Title, decoded.Title)
		assert.Equal(t, listing.Description, decoded.Description)
		assert.Equal(t, listing.Variant, decoded.Variant)
		assert.Equal(t, listing.Year, decoded.Year)
		assert.Equal(t, listing.Price, decoded.Price)
		require.NotNil(t, decoded.Mileage)
		assert.Equal(t, 28000, *decoded.Mileage)
		require.NotNil(t, decoded.EngineSize)
		assert.Equal(t, 1.5, *decoded.EngineSize)
		assert.Equal(t, listing.Images, decoded.Images)
		assert.Equal(t, listing.GarageId, decoded.GarageId)
		assert.Equal(t, listing.Vector, decoded.Vector)
		assert.True(t, listing.InsertedAt.Equal(decoded.InsertedAt))
		assert.True(t, listing.UpdatedAt.Equal(decoded.UpdatedAt))
	})

	t.Run("optional fields unset", func(t *testing.T) {
		listing := &core.Listing{Title: "Tesla", Make: "tesla", Model: "model 3", Year: 2022, Price: 36900}

		decoded, err := UnmarshalListing(MarshalListing(listing))
		require.NoError(t, err)
		assert.Nil(t, decoded.Mileage)
		assert.Nil(t, decoded.EngineSize)
		assert.Nil(t, decoded.Vector)
		assert.Empty(t, decoded.Images)
	})

	t.Run("truncated data", func(t *testing.T) {
		data := MarshalListing(&core.Listing{Title: "x", Make: "y", Model: "z", Vector: make([]float32, 16)})
		_, err := UnmarshalListing(data[:len(data)/2])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestMarshalUnmarshalGarage(t *testing.T) {
	garage := &core.Garage{
		Id:         1,
		Name:       "City Motors Birmingham",
		Email:      "info@citymotors.co.uk",
		Phone:      "0121 000 0001",
		Address:    "123 High Street",
		Postcode:   "B1 1AA",
		InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalGarage(MarshalGarage(garage))
	require.NoError(t, err)
	assert.Equal(t, garage.Name, decoded.Name)
	assert.Equal(t, garage.Email, decoded.Email)
	assert.Equal(t, garage.Postcode, decoded.Postcode)
	assert.True(t, garage.InsertedAt.Equal(decoded.InsertedAt))
}

func TestMarshalUnmarshalSearchLog(t *testing.T) {
	entry := &core.SearchLog{
		Id:            9,
		Prompt:        "reliable japanese family car under 15k",
		ParsedFilters: `{"makes":["toyota"]}`,
		ResultsCount:  4,
		InsertedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalSearchLog(MarshalSearchLog(entry))
	require.NoError(t, err)
	assert.Equal(t, entry.Id, decoded.Id)
	assert.Equal(t, entry.Prompt, decoded.Prompt)
	assert.Equal(t, entry.ParsedFilters, decoded.ParsedFilters)
	assert.Equal(t, entry.ResultsCount, decoded.ResultsCount)
}
