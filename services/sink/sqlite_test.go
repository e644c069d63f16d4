package sink

import (
	"path/filepath"
	"testing"

	"sjsage522/newsworker/internal/crawler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteSink(t *testing.T) *SQLiteSink {
	t.Helper()
	s, err := NewSQLiteSink(filepath.Join(t.TempDir(), "news.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSink_DuplicateURL(t *testing.T) {
	s := newTestSQLiteSink(t)
	article := testArticles()[0]

	require.NoError(t, s.Save(Batch{RunID: "run-1", Articles: []crawler.ArticleRecord{article}}))
	require.NoError(t, s.Save(Batch{RunID: "run-2", Articles: []crawler.ArticleRecord{article}}))

	count, err := s.TotalCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteSink_DuplicateWithinBatch(t *testing.T) {
	s := newTestSQLiteSink(t)
	article := testArticles()[0]

	require.NoError(t, s.Save(Batch{Articles: []crawler.ArticleRecord{article, article}}))

	count, err := s.TotalCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteSink_ArticlesByRegion(t *testing.T) {
	s := newTestSQLiteSink(t)
	require.NoError(t, s.Save(testBatch()))

	articles, err := s.ArticlesByRegion(crawler.RegionSeoul)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	urls := []string{articles[0].URL, articles[1].URL}
	assert.ElementsMatch(t, []string{"https://news.example.com/1", "https://news.example.com/3"}, urls)
	for _, a := range articles {
		assert.Equal(t, crawler.RegionSeoul, a.Region)
		assert.True(t, collected.Equal(a.CollectedAt))
	}

	articles, err = s.ArticlesByRegion(crawler.RegionJeju)
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestSQLiteSink_RegionStats(t *testing.T) {
	s := newTestSQLiteSink(t)
	require.NoError(t, s.Save(testBatch()))

	stats, err := s.RegionStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, RegionStat{
		Region: crawler.RegionSeoul, Newspaper: "서울신문", ArticleCount: 2,
		LastCrawled: "2026-02-23 09:30:15", RunID: "run-1",
	}, stats[0])
	assert.Equal(t, crawler.RegionGyeonggi, stats[1].Region)
	assert.Equal(t, 1, stats[1].ArticleCount)

	// a later run refreshes the existing rows instead of adding new ones
	extra := testArticles()[1]
	extra.URL = "https://news.example.com/4"
	require.NoError(t, s.Save(Batch{RunID: "run-2", Articles: []crawler.ArticleRecord{extra}, SavedAt: collected}))

	stats, err = s.RegionStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	for _, st := range stats {
		assert.Equal(t, 2, st.ArticleCount)
		assert.Equal(t, "run-2", st.RunID)
	}
}
