package badger

import (
	"context"
	"testing"

	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func testListing(title, mk, model string, year int, price float64, mileage int) *core.Listing {
	return &core.Listing{
		Title:        title,
		Description:  "A well kept " + mk + " " + model,
		Make:         mk,
		Model:        model,
		Year:         year,
		Price:        price,
		Mileage:      core.Ptr(mileage),
		FuelType:     "Petrol",
		Transmission: "Manual",
		BodyType:     "Hatchback",
		Doors:        5,
	}
}

func seedListings(t *testing.T, repo storage.ListingRepository) []*core.Listing {
	t.Helper()
	listings := []*core.Listing{
		testListing("Ford Fiesta Zetec", "Ford", "Fiesta", 2018, 8995, 42000),
		testListing("BMW 320d M Sport", "BMW", "3 Series", 2020, 21500, 31000),
		testListing("Toyota Yaris Hybrid", "Toyota", "Yaris", 2021, 15250, 18000),
		testListing("Ford Focus Titanium", "Ford", "Focus", 2016, 7495, 68000),
	}
	listings[1].FuelType = "Diesel"
	listings[1].BodyType = "Saloon"
	listings[1].Doors = 4
	listings[2].FuelType = "Hybrid"
	listings[2].Transmission = "Automatic"

	added, err := repo.AddListings(context.Background(), listings...)
	require.NoError(t, err)
	return added
}

func titles(listings []*core.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Title
	}
	return out
}

func TestAddListings(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	added := seedListings(t, repos.Listings)
	require.Len(t, added, 4)

	for _, l := range added {
		assert.NotZero(t, l.Id)
		assert.False(t, l.InsertedAt.IsZero())
	}
	// Filterable fields are stored lowercased
	assert.Equal(t, "ford", added[0].Make)
	assert.Equal(t, "petrol", added[0].FuelType)

	got, err := repos.Listings.GetListing(ctx, added[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "BMW 320d M Sport", got.Title)
	assert.Equal(t, 31000, *got.Mileage)

	count, err := repos.Listings.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestAddListings_Invalid(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Listings.AddListings(context.Background(), &core.Listing{Make: "ford", Model: "ka", Year: 2010})
	assert.ErrorIs(t, err, core.ErrInvalidListing)
	assert.ErrorIs(t, err, core.ErrEmptyTitle)
}

func TestAddListings_ExplicitIDReplaces(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	first := testListing("Ford Ka", "Ford", "Ka", 2012, 2995, 80000)
	first.Id = core.IDFromContent(first.ContentKey())
	_, err := repos.Listings.AddListings(ctx, first)
	require.NoError(t, err)

	second := testListing("Ford Ka", "Ford", "Ka", 2012, 2495, 80000)
	second.Id = first.Id
	_, err = repos.Listings.AddListings(ctx, second)
	require.NoError(t, err)

	count, err := repos.Listings.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	listed, err := repos.Listings.ListListings(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 2495.0, listed[0].Price)
}

func TestUpdateListings(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	added := seedListings(t, repos.Listings)

	listing := added[0]
	inserted := listing.InsertedAt
	listing.Price = 7995
	listing.Vector = []float32{0.1, 0.2}

	_, err := repos.Listings.UpdateListings(ctx, listing)
	require.NoError(t, err)

	got, err := repos.Listings.GetListing(ctx, listing.Id)
	require.NoError(t, err)
	assert.Equal(t, 7995.0, got.Price)
	assert.Equal(t, []float32{0.1, 0.2}, got.Vector)
	assert.True(t, inserted.Equal(got.InsertedAt))

	_, err = repos.Listings.UpdateListings(ctx, &core.Listing{Id: 9999})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteListings(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	added := seedListings(t, repos.Listings)

	require.NoError(t, repos.Listings.DeleteListings(ctx, added[0].Id))

	_, err := repos.Listings.GetListing(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	listed, err := repos.Listings.ListListings(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	assert.ErrorIs(t, repos.Listings.DeleteListings(ctx, added[0].Id), storage.ErrNotFound)
}

func TestGetListings_SkipsMissing(t *testing.T) {
	repos := newTestRepos(t)
	added := seedListings(t, repos.Listings)

	got, err := repos.Listings.GetListings(context.Background(), added[0].Id, 424242, added[2].Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ford Fiesta Zetec", "Toyota Yaris Hybrid"}, titles(got))
}

func TestListListings_Paging(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedListings(t, repos.Listings)

	page, err := repos.Listings.ListListings(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	_, err = repos.Listings.ListListings(ctx, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFetch(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedListings(t, repos.Listings)

	tests := []struct {
		name     string
		query    storage.Query
		expected []string
	}{
		{
			name:     "no predicates returns everything in store order",
			query:    storage.Query{},
			expected: []string{"Ford Fiesta Zetec", "BMW 320d M Sport", "Toyota Yaris Hybrid", "Ford Focus Titanium"},
		},
		{
			name: "match any make",
			query: storage.Query{Predicates: []core.Predicate{
				core.MatchAny{Field: core.FieldMake, Values: []string{"ford"}},
			}},
			expected: []string{"Ford Fiesta Zetec", "Ford Focus Titanium"},
		},
		{
			name: "price range",
			query: storage.Query{Predicates: []core.Predicate{
				core.Range{Field: core.FieldPrice, Gte: core.Ptr(8000.0), Lte: core.Ptr(16000.0)},
			}},
			expected: []string{"Ford Fiesta Zetec", "Toyota Yaris Hybrid"},
		},
		{
			name: "conjunction",
			query: storage.Query{Predicates: []core.Predicate{
				core.MatchAny{Field: core.FieldFuelType, Values: []string{"petrol", "hybrid"}},
				core.Range{Field: core.FieldYear, Gte: core.Ptr(2017.0)},
			}},
			expected: []string{"Ford Fiesta Zetec", "Toyota Yaris Hybrid"},
		},
		{
			name: "min doors",
			query: storage.Query{Predicates: []core.Predicate{
				core.Range{Field: core.FieldDoors, Gte: core.Ptr(5.0)},
			}},
			expected: []string{"Ford Fiesta Zetec", "Toyota Yaris Hybrid", "Ford Focus Titanium"},
		},
		{
			name:     "sorted by price with limit",
			query:    storage.Query{Order: core.SortPriceAsc, Limit: 2},
			expected: []string{"Ford Focus Titanium", "Ford Fiesta Zetec"},
		},
		{
			name:     "sorted by year",
			query:    storage.Query{Order: core.SortYearDesc},
			expected: []string{"Toyota Yaris Hybrid", "BMW 320d M Sport", "Ford Fiesta Zetec", "Ford Focus Titanium"},
		},
		{
			name:     "relevance keeps store order",
			query:    storage.Query{Order: core.SortRelevance, Limit: 3},
			expected: []string{"Ford Fiesta Zetec", "BMW 320d M Sport", "Toyota Yaris Hybrid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.Listings.Fetch(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(got))
		})
	}
}

func TestFetch_MissingMileage(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	withMileage := testListing("Kia Picanto", "Kia", "Picanto", 2019, 6995, 20000)
	noMileage := testListing("Kia Rio", "Kia", "Rio", 2019, 7995, 0)
	noMileage.Mileage = nil
	_, err := repos.Listings.AddListings(ctx, noMileage, withMileage)
	require.NoError(t, err)

	got, err := repos.Listings.Fetch(ctx, storage.Query{Predicates: []core.Predicate{
		core.Range{Field: core.FieldMileage, Lte: core.Ptr(50000.0)},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kia Picanto"}, titles(got))

	got, err = repos.Listings.Fetch(ctx, storage.Query{Order: core.SortMileageAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kia Picanto", "Kia Rio"}, titles(got))
}

func TestFetch_InvalidPredicate(t *testing.T) {
	repos := newTestRepos(t)
	seedListings(t, repos.Listings)

	_, err := repos.Listings.Fetch(context.Background(), storage.Query{Predicates: []core.Predicate{
		core.MatchAny{Field: core.FieldYear, Values: []string{"2020"}},
	}})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFindSimilar(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	listings := []*core.Listing{
		testListing("Close", "Ford", "Fiesta", 2018, 8995, 42000),
		testListing("Somewhat", "Ford", "Focus", 2018, 8995, 42000),
		testListing("Far", "Ford", "Puma", 2018, 8995, 42000),
		testListing("No vector", "Ford", "Kuga", 2018, 8995, 42000),
		testListing("Wrong size", "Ford", "Ranger", 2018, 8995, 42000),
	}
	listings[0].Vector = []float32{1, 0, 0}
	listings[1].Vector = []float32{0.9, 0.1, 0}
	listings[2].Vector = []float32{0, 0, 1}
	listings[4].Vector = []float32{1, 0}
	_, err := repos.Listings.AddListings(ctx, listings...)
	require.NoError(t, err)

	results, err := repos.Listings.FindSimilar(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Close", results[0].Listing.Title)
	assert.Equal(t, "Somewhat", results[1].Listing.Title)
	assert.Equal(t, "Far", results[2].Listing.Title)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)

	results, err = repos.Listings.FindSimilar(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = repos.Listings.FindSimilar(ctx, []float32{1, 0, 0}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestForEachListing(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedListings(t, repos.Listings)

	var batches [][]string
	err := repos.Listings.ForEachListing(ctx, 3, func(batch []*core.Listing) error {
		batches = append(batches, titles(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Ford Fiesta Zetec", "BMW 320d M Sport", "Toyota Yaris Hybrid"},
		{"Ford Focus Titanium"},
	}, batches)

	err = repos.Listings.ForEachListing(ctx, 2, func(batch []*core.Listing) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestForEachListing_CanWrite(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedListings(t, repos.Listings)

	err := repos.Listings.ForEachListing(ctx, 2, func(batch []*core.Listing) error {
		for _, l := range batch {
			l.Vector = []float32{1}
		}
		_, err := repos.Listings.UpdateListings(ctx, batch...)
		return err
	})
	require.NoError(t, err)

	all, err := repos.Listings.Fetch(ctx, storage.Query{})
	require.NoError(t, err)
	for _, l := range all {
		assert.Equal(t, []float32{1}, l.Vector)
	}
}
