package metrics

import (
	"context"
	"time"

	"finassist/pkg/logger"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// CustomCollector pulls gauge-style metrics straight from the
// collaborator stores on each scrape, rather than tracking them as
// counters in request code.
type CustomCollector struct {
	log        *logger.Logger
	postgres   *sqlx.DB
	clickhouse driver.Conn
	redis      *redis.Client

	symbolCount     *prometheus.Desc
	knowledgeChunks *prometheus.Desc
	newsArticles24h *prometheus.Desc
	cachedKeys      *prometheus.Desc
}

func NewCustomCollector(log *logger.Logger, postgres *sqlx.DB, clickhouse driver.Conn, redis *redis.Client) *CustomCollector {
	return &CustomCollector{
		log:        log,
		postgres:   postgres,
		clickhouse: clickhouse,
		redis:      redis,

		symbolCount: prometheus.NewDesc(
			"finassist_symbols_total",
			"Total number of tickers in the symbol directory",
			nil, nil,
		),
		knowledgeChunks: prometheus.NewDesc(
			"finassist_knowledge_chunks_total",
			"Total number of embedded knowledge chunks indexed for search",
			nil, nil,
		),
		newsArticles24h: prometheus.NewDesc(
			"finassist_news_articles_24h",
			"Number of news articles ingested into the news graph in the last 24h",
			nil, nil,
		),
		cachedKeys: prometheus.NewDesc(
			"finassist_cache_keys_total",
			"Number of keys currently held in the Redis cache, by prefix",
			[]string{"prefix"}, nil,
		),
	}
}

func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.symbolCount
	ch <- c.knowledgeChunks
	ch <- c.newsArticles24h
	ch <- c.cachedKeys
}

func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectSymbolCount(ctx, ch)
	c.collectKnowledgeChunks(ctx, ch)
	c.collectRecentNewsCount(ctx, ch)
	c.collectCacheKeyCounts(ctx, ch)
}

func (c *CustomCollector) collectSymbolCount(ctx context.Context, ch chan<- prometheus.Metric) {
	var count int
	if err := c.postgres.GetContext(ctx, &count, "SELECT COUNT(*) FROM symbols"); err != nil {
		c.log.Errorf("collect symbol count: %v", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.symbolCount, prometheus.GaugeValue, float64(count))
}

func (c *CustomCollector) collectKnowledgeChunks(ctx context.Context, ch chan<- prometheus.Metric) {
	var count int
	if err := c.postgres.GetContext(ctx, &count, "SELECT COUNT(*) FROM knowledge_chunks"); err != nil {
		c.log.Errorf("collect knowledge chunk count: %v", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.knowledgeChunks, prometheus.GaugeValue, float64(count))
}

func (c *CustomCollector) collectRecentNewsCount(ctx context.Context, ch chan<- prometheus.Metric) {
	var count uint64
	err := c.clickhouse.QueryRow(ctx, `
		SELECT COUNT(*) FROM news_articles
		WHERE published_at >= now() - INTERVAL 1 DAY
	`).Scan(&count)
	if err != nil {
		c.log.Errorf("collect recent news count: %v", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.newsArticles24h, prometheus.GaugeValue, float64(count))
}

func (c *CustomCollector) collectCacheKeyCounts(ctx context.Context, ch chan<- prometheus.Metric) {
	for _, prefix := range []string{"quote:", "symbol:"} {
		n, err := c.redis.Eval(ctx, `return #redis.call("keys", ARGV[1])`, nil, prefix+"*").Int()
		if err != nil {
			c.log.Errorf("collect cache key count for prefix %s: %v", prefix, err)
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.cachedKeys, prometheus.GaugeValue, float64(n), prefix)
	}
}

// RegisterCustomCollector registers collector with the default registry.
func RegisterCustomCollector(collector *CustomCollector) {
	prometheus.MustRegister(collector)
}
