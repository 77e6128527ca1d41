package offline

import (
	"context"
	"testing"

	"github.com/poiesic/carprompt/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterParser(t *testing.T) {
	parser := NewProvider().FilterParser()

	filters, err := parser.ParseFilters(context.Background(), "Reliable FAMILY hatchback, low mileage please")
	require.NoError(t, err)
	assert.Equal(t, []string{"reliable", "family", "low mileage", "hatchback"}, filters.Keywords)
	assert.Empty(t, filters.Makes)
	assert.Nil(t, filters.MaxPrice)

	filters, err = parser.ParseFilters(context.Background(), "xyzzy")
	require.NoError(t, err)
	assert.True(t, filters.IsEmpty())
}

func TestFilterParser_SubstringMatches(t *testing.T) {
	// "renewed" contains "new", matching the substring rule
	filters, err := FilterParser{}.ParseFilters(context.Background(), "renewed")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, filters.Keywords)
}

func TestEmbedder_Unavailable(t *testing.T) {
	embedder := NewProvider().Embedder()

	_, err := embedder.EmbedText(context.Background(), "reliable")
	assert.ErrorIs(t, err, ai.ErrUnavailable)

	_, err = embedder.EmbedTexts(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ai.ErrUnavailable)
}

func TestQueryExpander_Echo(t *testing.T) {
	terms, err := NewProvider().QueryExpander().ExpandQuery(context.Background(), "cheap suv")
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap suv"}, terms)
}
