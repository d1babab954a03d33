// Package newsgraph implements NewsGraph over ClickHouse's
// cosineDistance array function, grounded on the teacher's ClickHouse
// repository style (raw SQL over the driver.Conn).
package newsgraph

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// ClickHouseGraph finds articles whose stored embedding is closest to a
// query embedding, using ClickHouse's array cosineDistance function
// over the news_articles table.
type ClickHouseGraph struct {
	conn driver.Conn
	log  *logger.Logger
}

func NewClickHouseGraph(conn driver.Conn) *ClickHouseGraph {
	return &ClickHouseGraph{conn: conn, log: logger.Get().With("component", "news_graph")}
}

var _ orchestrator.NewsGraph = (*ClickHouseGraph)(nil)

type articleRow struct {
	Title       string  `ch:"title"`
	URL         string  `ch:"url"`
	PublishedAt int64   `ch:"published_at"`
	Language    string  `ch:"language"`
	Body        string  `ch:"body"`
	Source      string  `ch:"source"`
	Similarity  float64 `ch:"similarity"`
}

const similarQuery = `
SELECT
	title, url, published_at, language, body, source,
	1 - cosineDistance(embedding, $1) as similarity
FROM news_articles
WHERE 1 - cosineDistance(embedding, $1) >= $2
ORDER BY similarity DESC
LIMIT $3`

// Similar returns the topK articles whose embedding is at least minScore
// similar to embedding, most similar first.
func (g *ClickHouseGraph) Similar(ctx context.Context, embedding []float32, topK int, minScore float64) ([]orchestrator.Article, error) {
	var rows []articleRow
	if err := g.conn.Select(ctx, &rows, similarQuery, embedding, minScore, topK); err != nil {
		return nil, errors.Wrap(errors.ErrTransientExternal, "news graph search: "+err.Error())
	}

	articles := make([]orchestrator.Article, 0, len(rows))
	for _, r := range rows {
		articles = append(articles, orchestrator.Article{
			Title:       r.Title,
			URL:         r.URL,
			Language:    r.Language,
			Body:        r.Body,
			Source:      r.Source,
			Relevance:   r.Similarity,
			PublishedAt: secondsToTime(r.PublishedAt),
		})
	}

	g.log.Debugf("news graph search: hits=%d", len(articles))
	return articles, nil
}

func secondsToTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
