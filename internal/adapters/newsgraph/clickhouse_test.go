package newsgraph

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/internal/testsupport"
)

func newTestGraph(t *testing.T) *ClickHouseGraph {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := testsupport.LoadDatabaseConfigsFromEnv(t)
	helper := testsupport.NewClickHouseTestHelper(t, cfg.ClickHouse)

	err := helper.Client().Exec(context.Background(), `
CREATE TABLE IF NOT EXISTS news_articles (
	title String,
	url String,
	published_at Int64,
	language String,
	body String,
	source String,
	embedding Array(Float32)
) ENGINE = MergeTree() ORDER BY url`)
	require.NoError(t, err)

	helper.RegisterTableCleanup(t, "news_articles", "source IN ('test-wire', 'test-other')")

	err = helper.Client().Exec(context.Background(),
		`INSERT INTO news_articles (title, url, published_at, language, body, source, embedding) VALUES
		('Apple beats earnings', 'https://a.example.com/1', ?, 'en', 'body text', 'test-wire', [1, 0, 0]),
		('Unrelated market note', 'https://a.example.com/2', ?, 'en', 'other text', 'test-other', [0, 1, 0])`,
		time.Now().Unix(), time.Now().Unix(),
	)
	require.NoError(t, err)

	return NewClickHouseGraph(helper.Client().Conn())
}

func TestClickHouseGraph_Similar_ReturnsClosestMatchFirst(t *testing.T) {
	graph := newTestGraph(t)

	articles, err := graph.Similar(context.Background(), []float32{1, 0, 0}, 5, 0.0)
	require.NoError(t, err)
	require.NotEmpty(t, articles)
	assert.Equal(t, "Apple beats earnings", articles[0].Title)
	assert.False(t, articles[0].PublishedAt.IsZero())
}

func TestClickHouseGraph_Similar_MinScoreFiltersLowSimilarity(t *testing.T) {
	graph := newTestGraph(t)

	articles, err := graph.Similar(context.Background(), []float32{1, 0, 0}, 5, 0.99)
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}
