// Package cache adapts the Redis client to the orchestrator's Cache
// capability: a best-effort read-through cache for symbol resolutions
// and quotes.
package cache

import (
	"context"
	"time"

	"finassist/internal/adapters/redis"
	"finassist/internal/orchestrator"
	"finassist/pkg/logger"
)

// RedisCache implements orchestrator.Cache. Every method degrades to a
// cache miss on error instead of propagating it — a cache is an
// optimization, not a dependency the request path can fail on.
type RedisCache struct {
	client   *redis.Client
	quoteTTL time.Duration
	symTTL   time.Duration
	log      *logger.Logger
}

// NewRedisCache wraps client with the orchestrator's Cache interface.
func NewRedisCache(client *redis.Client, quoteTTL, symbolTTL time.Duration) *RedisCache {
	if quoteTTL <= 0 {
		quoteTTL = 15 * time.Second
	}
	if symbolTTL <= 0 {
		symbolTTL = 24 * time.Hour
	}
	return &RedisCache{
		client:   client,
		quoteTTL: quoteTTL,
		symTTL:   symbolTTL,
		log:      logger.Get().With("component", "redis_cache"),
	}
}

var _ orchestrator.Cache = (*RedisCache)(nil)

func (c *RedisCache) GetQuote(symbol string) (*orchestrator.Quote, bool) {
	var q orchestrator.Quote
	if err := c.client.Get(context.Background(), "quote:"+symbol, &q); err != nil {
		return nil, false
	}
	return &q, true
}

func (c *RedisCache) SetQuote(symbol string, quote *orchestrator.Quote) {
	if err := c.client.Set(context.Background(), "quote:"+symbol, quote, c.quoteTTL); err != nil {
		c.log.Warnf("failed to cache quote for %s: %v", symbol, err)
	}
}

func (c *RedisCache) GetSymbol(text string) (string, bool) {
	var symbol string
	if err := c.client.Get(context.Background(), "symbol:"+text, &symbol); err != nil {
		return "", false
	}
	return symbol, true
}

func (c *RedisCache) SetSymbol(text string, symbol string) {
	if err := c.client.Set(context.Background(), "symbol:"+text, symbol, c.symTTL); err != nil {
		c.log.Warnf("failed to cache symbol resolution for %q: %v", text, err)
	}
}
