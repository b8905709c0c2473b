package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"wealth_backend/internal/feature/marketdata/domain/entity"
)

// MarketAPI mirrors the market data source the decorator wraps.
// Following Go convention: interfaces are defined by the consumer, so this
// package declares the shape it needs instead of importing the usecase's.
type MarketAPI interface {
	RealTimeQuote(ctx context.Context, ticker, apiToken string) (entity.Quote, error)
	EndOfDay(ctx context.Context, ticker, apiToken string, from, to time.Time) ([]entity.Candle, error)
	Fundamentals(ctx context.Context, ticker, apiToken string) (entity.Fundamental, error)
	SearchSymbols(ctx context.Context, query, apiToken string) ([]entity.TickerSearchResult, error)
	CompanyNews(ctx context.Context, ticker, apiToken string, from, to time.Time) ([]entity.NewsItem, error)
	ExchangeSymbols(ctx context.Context, exchange, apiToken string) ([]entity.SymbolListing, error)
}

// CachingSymbolSource decorates a MarketAPI with Redis caching for the
// exchange symbol list only. The listing is near-static reference data, so
// sharing it across process restarts saves the most expensive upstream call;
// all other endpoints pass through untouched.
type CachingSymbolSource struct {
	MarketAPI
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingSymbolSource decorates inner with Redis caching of exchange
// symbol lists. If ttl is 0, it defaults to 1 hour. If namespace is empty,
// it uses "symbols".
func NewCachingSymbolSource(rdb *redis.Client, ttl time.Duration, inner MarketAPI, namespace string) *CachingSymbolSource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if namespace == "" {
		namespace = "symbols"
	}
	return &CachingSymbolSource{
		MarketAPI: inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ExchangeSymbols retrieves the symbol list, checking Redis first then
// falling back to the upstream API.
func (c *CachingSymbolSource) ExchangeSymbols(ctx context.Context, exchange, apiToken string) ([]entity.SymbolListing, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.MarketAPI.ExchangeSymbols(ctx, exchange, apiToken)
	}

	key := c.cacheKey(exchange)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.SymbolListing
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to upstream
	out, err := c.MarketAPI.ExchangeSymbols(ctx, exchange, apiToken)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates the Redis key for one exchange's listing.
func (c *CachingSymbolSource) cacheKey(exchange string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(exchange))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
