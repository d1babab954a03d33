package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/internal/adapters/config"
	"finassist/internal/adapters/redis"
	"finassist/internal/orchestrator"
	"finassist/internal/testsupport"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := testsupport.LoadDatabaseConfigsFromEnv(t)
	_ = testsupport.NewRedisClient(t, cfg.Redis)

	client, err := redis.NewClient(config.RedisConfig{
		Host: cfg.Redis.Host,
		Port: cfg.Redis.Port,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, time.Second, time.Second)
}

func TestRedisCache_Quote_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	quote := &orchestrator.Quote{Symbol: "AAPL", Price: decimal.NewFromFloat(190.5)}

	_, ok := c.GetQuote("AAPL")
	assert.False(t, ok)

	c.SetQuote("AAPL", quote)

	got, ok := c.GetQuote("AAPL")
	require.True(t, ok)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.True(t, got.Price.Equal(quote.Price))
}

func TestRedisCache_Symbol_RoundTrip(t *testing.T) {
	c := newTestCache(t)

	_, ok := c.GetSymbol("apple")
	assert.False(t, ok)

	c.SetSymbol("apple", "AAPL")

	got, ok := c.GetSymbol("apple")
	require.True(t, ok)
	assert.Equal(t, "AAPL", got)
}

func TestRedisCache_Quote_ExpiresAfterTTL(t *testing.T) {
	c := newTestCache(t)
	c.SetQuote("MSFT", &orchestrator.Quote{Symbol: "MSFT"})

	time.Sleep(1200 * time.Millisecond)

	_, ok := c.GetQuote("MSFT")
	assert.False(t, ok)
}
