package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catlover7211/news-aggregator/internal/news"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTrending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for _, kw := range []string{"颱風", "選舉", "颱風", "AI", "颱風", "選舉"} {
		require.NoError(t, s.Record(ctx, kw, news.ScopeAll))
	}

	trends, err := s.Trending(ctx, 24*time.Hour, 2)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "颱風", trends[0].Keyword)
	assert.Equal(t, 3, trends[0].Count)
	assert.Equal(t, "選舉", trends[1].Keyword)
	assert.Equal(t, 2, trends[1].Count)
	assert.Equal(t, now.Unix(), trends[0].LastSearched.Unix())
}

func TestTrendingWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, s.Record(ctx, "old", news.ScopeLocal))

	s.now = func() time.Time { return now }
	require.NoError(t, s.Record(ctx, "new", news.ScopeLocal))

	trends, err := s.Trending(ctx, 24*time.Hour, 10)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "new", trends[0].Keyword)

	n, err := s.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestTrendingEmpty(t *testing.T) {
	s := openTestStore(t)
	trends, err := s.Trending(context.Background(), time.Hour, 0)
	require.NoError(t, err)
	assert.NotNil(t, trends)
	assert.Empty(t, trends)
}

func TestRecordRejectsEmptyKeyword(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.Record(context.Background(), "  ", news.ScopeAll), news.ErrKeywordRequired)
}
