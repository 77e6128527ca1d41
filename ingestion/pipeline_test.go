package ingestion

import (
	"context"
	"sync"
	"testing"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/ai/mock"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEmbedderProvider is an ai.AIProvider without an embedder.
type noEmbedderProvider struct{}

func (noEmbedderProvider) Embedder() ai.Embedder           { return nil }
func (noEmbedderProvider) FilterParser() ai.FilterParser   { return nil }
func (noEmbedderProvider) QueryExpander() ai.QueryExpander { return nil }
func (noEmbedderProvider) Close() error                    { return nil }

type embedEvent struct {
	n   int
	err error
}

type recordingObserver struct {
	mu     sync.Mutex
	events []embedEvent
}

func (o *recordingObserver) ListingsEmbedded(n int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, embedEvent{n: n, err: err})
}

func (o *recordingObserver) snapshot() []embedEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]embedEvent(nil), o.events...)
}

func setupTestRepositories(t *testing.T) *badger.Repositories {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func setupTestPipeline(t *testing.T, embedder *mock.MockEmbedder, opts ...Option) (*Pipeline, *badger.Repositories) {
	t.Helper()
	repos := setupTestRepositories(t)
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockFilterParser(), mock.NewMockQueryExpander())
	p, err := NewPipeline(repos.Listings, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p, repos
}

func testListings() []*core.Listing {
	mileage := 42000
	return []*core.Listing{
		{Title: "Toyota Yaris Hybrid", Make: "Toyota", Model: "Yaris", Year: 2021, Price: 14500, Mileage: &mileage, FuelType: "Hybrid", BodyType: "Hatchback"},
		{Title: "Volvo XC60 R-Design", Make: "Volvo", Model: "XC60", Year: 2019, Price: 26000, FuelType: "Diesel", BodyType: "SUV"},
	}
}

func TestNewPipeline(t *testing.T) {
	repos := setupTestRepositories(t)

	tests := []struct {
		name     string
		build    func() (*Pipeline, error)
		expected error
	}{
		{
			name:     "missing repository",
			build:    func() (*Pipeline, error) { return NewPipeline(nil, mock.NewMockProvider()) },
			expected: ErrListingRepositoryRequired,
		},
		{
			name:     "missing provider",
			build:    func() (*Pipeline, error) { return NewPipeline(repos.Listings, nil) },
			expected: ErrAIProviderRequired,
		},
		{
			name:     "missing embedder",
			build:    func() (*Pipeline, error) { return NewPipeline(repos.Listings, noEmbedderProvider{}) },
			expected: ErrEmbedderRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, p)
		})
	}

	t.Run("with options", func(t *testing.T) {
		p, err := NewPipeline(repos.Listings, mock.NewMockProvider(), WithPoolSize(0), WithLogger(nil), WithObserver(nil))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 1, p.embeddingPool.Cap())
		assert.NotNil(t, p.logger)
		assert.NotNil(t, p.observer)
	})
}

func TestIngest_StoresAndEmbeds(t *testing.T) {
	observer := &recordingObserver{}
	embedder := mock.NewMockEmbedder()
	p, repos := setupTestPipeline(t, embedder, WithObserver(observer))
	ctx := context.Background()

	added, err := p.Ingest(ctx, testListings()...)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.NotZero(t, added[0].Id)
	assert.Equal(t, "toyota", added[0].Make)

	p.Wait()

	for _, listing := range added {
		stored, err := repos.Listings.GetListing(ctx, listing.Id)
		require.NoError(t, err)
		assert.Equal(t, mock.DeterministicVector(stored.EmbeddingText(), mock.DefaultDimensions), stored.Vector)
	}
	assert.Equal(t, 1, embedder.CallCount(), "one batch per ingest")
	assert.Equal(t, []embedEvent{{n: 2}}, observer.snapshot())
}

func TestIngest_EmbedderUnavailable(t *testing.T) {
	observer := &recordingObserver{}
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, ai.ErrUnavailable
	})
	p, repos := setupTestPipeline(t, embedder, WithObserver(observer))
	ctx := context.Background()

	added, err := p.Ingest(ctx, testListings()...)
	require.NoError(t, err, "embedding failures never fail ingestion")
	p.Wait()

	stored, err := repos.Listings.GetListing(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Empty(t, stored.Vector)

	events := observer.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].n)
	assert.ErrorIs(t, events[0].err, ai.ErrUnavailable)
}

func TestIngest_EmbeddingMismatch(t *testing.T) {
	observer := &recordingObserver{}
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0, 0}}, nil
	})
	p, repos := setupTestPipeline(t, embedder, WithObserver(observer))
	ctx := context.Background()

	added, err := p.Ingest(ctx, testListings()...)
	require.NoError(t, err)
	p.Wait()

	events := observer.snapshot()
	require.Len(t, events, 1)
	assert.ErrorIs(t, events[0].err, ErrEmbeddingMismatch)

	for _, listing := range added {
		stored, err := repos.Listings.GetListing(ctx, listing.Id)
		require.NoError(t, err)
		assert.Empty(t, stored.Vector, "no partial writes")
	}
}

func TestIngest_Empty(t *testing.T) {
	observer := &recordingObserver{}
	embedder := mock.NewMockEmbedder()
	p, _ := setupTestPipeline(t, embedder, WithObserver(observer))

	added, err := p.Ingest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, added)
	p.Wait()
	assert.Zero(t, embedder.CallCount())
	assert.Empty(t, observer.snapshot())
}

func TestIngest_InvalidListing(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	p, _ := setupTestPipeline(t, embedder)

	_, err := p.Ingest(context.Background(), &core.Listing{Title: "no make or model"})
	assert.Error(t, err)
	p.Wait()
	assert.Zero(t, embedder.CallCount())
}

func TestIngest_ManyBatches(t *testing.T) {
	observer := &recordingObserver{}
	embedder := mock.NewMockEmbedder()
	p, repos := setupTestPipeline(t, embedder, WithPoolSize(4), WithObserver(observer))
	ctx := context.Background()

	for range 10 {
		_, err := p.Ingest(ctx, testListings()...)
		require.NoError(t, err)
	}
	p.Wait()

	assert.Len(t, observer.snapshot(), 10)
	assert.Equal(t, 10, embedder.CallCount())

	count, err := repos.Listings.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
