// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"wealth_backend/internal/feature/marketdata/usecase"
	"wealth_backend/internal/platform/cache"
	"wealth_backend/internal/platform/externalapi/eodhd"
	infrahttp "wealth_backend/internal/platform/http"
	"wealth_backend/internal/shared/ratelimiter"
)

// バッチ見積り取得の上限。EODHDの無料プランの分あたり上限に合わせています。
const (
	quoteBatchLimit    = 60
	quoteBatchInterval = time.Minute
)

// NewMarketDataGateway creates the fully wired market data gateway:
// EODHD client, optional redis-backed symbol list cache, and the
// shared rate limiter for batch quote fetches.
func NewMarketDataGateway(rdb *redis.Client) *usecase.MarketDataGateway {
	cfg := eodhd.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)

	var api usecase.MarketAPI = eodhd.NewClient(cfg, httpClient)
	if rdb != nil {
		api = cache.NewCachingSymbolSource(rdb, 0, api, "")
	}

	limiter := ratelimiter.NewRateLimiter(quoteBatchLimit, quoteBatchInterval)
	return usecase.NewMarketDataGateway(api, usecase.DefaultTTLConfig(), limiter)
}
