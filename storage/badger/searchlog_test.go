package badger

import (
	"context"
	"testing"

	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchLogRepository(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	for _, prompt := range []string{"cheap ford", "family suv", "electric under 20k"} {
		entry, err := repos.SearchLogs.AddSearchLog(ctx, &core.SearchLog{
			Prompt:        prompt,
			ParsedFilters: `{"keywords":[]}`,
			ResultsCount:  3,
		})
		require.NoError(t, err)
		assert.NotZero(t, entry.Id)
		assert.False(t, entry.InsertedAt.IsZero())
	}

	recent, err := repos.SearchLogs.RecentSearchLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "electric under 20k", recent[0].Prompt)
	assert.Equal(t, "family suv", recent[1].Prompt)
	assert.Equal(t, 3, recent[0].ResultsCount)

	_, err = repos.SearchLogs.RecentSearchLogs(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
