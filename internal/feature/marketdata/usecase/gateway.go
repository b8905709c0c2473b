// Package usecase は市場データゲートウェイのビジネスロジックを実装します。
//
// ゲートウェイは外部プロバイダのワイヤーフォーマットを呼び出し側から隠蔽し、
// エンドポイント種別ごとの短期キャッシュで重複リクエストを抑制します。
// エラーポリシーは操作ごとに明示的に異なります:
//
//   - GetQuote: 失敗をエラーとして呼び出し側へ伝播します。
//   - GetHistoricalData / SearchTickers / GetNews / GetSupportedTickers:
//     失敗を握りつぶして空スライスを返します（画面の一部が空になるだけで
//     全体をブロックしない、という意図的な劣化動作）。
//   - GetFundamentalData: 失敗時は nil（データなし）を返します。
package usecase

import (
	"context"
	"log/slog"
	"time"

	"wealth_backend/internal/feature/marketdata/domain/entity"
	"wealth_backend/internal/platform/cache"
	"wealth_backend/internal/shared/ratelimiter"
)

const (
	// DefaultExchange は取引所指定が無い場合に使用する取引所コードです。
	DefaultExchange = "US"

	newsWindowDays = 7 // ニュースは直近7日分を取得
)

// MarketAPI は外部市場データプロバイダを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketAPI interface {
	RealTimeQuote(ctx context.Context, ticker, apiToken string) (entity.Quote, error)
	EndOfDay(ctx context.Context, ticker, apiToken string, from, to time.Time) ([]entity.Candle, error)
	Fundamentals(ctx context.Context, ticker, apiToken string) (entity.Fundamental, error)
	SearchSymbols(ctx context.Context, query, apiToken string) ([]entity.TickerSearchResult, error)
	CompanyNews(ctx context.Context, ticker, apiToken string, from, to time.Time) ([]entity.NewsItem, error)
	ExchangeSymbols(ctx context.Context, exchange, apiToken string) ([]entity.SymbolListing, error)
}

// TTLConfig はエンドポイント種別ごとのキャッシュ有効期間です。
type TTLConfig struct {
	Quote       time.Duration
	History     time.Duration
	Fundamental time.Duration
	News        time.Duration
	Symbols     time.Duration
}

// DefaultTTLConfig は元のダッシュボードと同じ既定値（1分、銘柄一覧のみ1時間）を返します。
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Quote:       time.Minute,
		History:     time.Minute,
		Fundamental: time.Minute,
		News:        time.Minute,
		Symbols:     time.Hour,
	}
}

// MarketDataGateway は正規化済みの市場データを提供するユースケースです。
// キャッシュはプロセス寿命のインメモリで、キーはリクエスト形状ごとに独立です。
type MarketDataGateway struct {
	api     MarketAPI
	ttl     TTLConfig
	limiter ratelimiter.RateLimiterInterface

	// now はテストから差し替え可能な時刻源です。
	now func() time.Time

	quotes       *cache.Store[entity.Quote]
	history      *cache.Store[[]entity.Candle]
	fundamentals *cache.Store[entity.Fundamental]
	news         *cache.Store[[]entity.NewsItem]
	symbols      *cache.Store[[]entity.SymbolListing]
}

// NewMarketDataGateway はMarketDataGatewayの新しいインスタンスを生成します。
// limiterはGetQuotesの逐次フェッチのみに適用されます。
func NewMarketDataGateway(api MarketAPI, ttl TTLConfig, limiter ratelimiter.RateLimiterInterface) *MarketDataGateway {
	return &MarketDataGateway{
		api:          api,
		ttl:          ttl,
		limiter:      limiter,
		now:          time.Now,
		quotes:       cache.NewStore[entity.Quote](),
		history:      cache.NewStore[[]entity.Candle](),
		fundamentals: cache.NewStore[entity.Fundamental](),
		news:         cache.NewStore[[]entity.NewsItem](),
		symbols:      cache.NewStore[[]entity.SymbolListing](),
	}
}

// GetQuote は銘柄の直近価格スナップショットを返します。
// キャッシュが有効ならネットワーク呼び出しを行いません。
// APIキー未設定はErrCredentialMissing、上流の失敗はエラーとして伝播します。
func (g *MarketDataGateway) GetQuote(ctx context.Context, ticker, apiToken string) (entity.Quote, error) {
	if apiToken == "" {
		return entity.Quote{}, ErrCredentialMissing
	}

	now := g.now()
	if q, ok := g.quotes.Get(ticker, now, g.ttl.Quote); ok {
		return q, nil
	}

	q, err := g.api.RealTimeQuote(ctx, ticker, apiToken)
	if err != nil {
		return entity.Quote{}, err
	}
	g.quotes.Put(ticker, q, now)
	return q, nil
}

// GetQuotes は複数銘柄のスナップショットを逐次取得します。ダッシュボードの
// ポジション一覧のように小さなバッチを想定しており、リクエスト間は
// レートリミッタで間隔を空けます。失敗した銘柄はログに残して読み飛ばします。
func (g *MarketDataGateway) GetQuotes(ctx context.Context, tickers []string, apiToken string) map[string]entity.Quote {
	out := make(map[string]entity.Quote, len(tickers))
	for _, t := range tickers {
		if _, ok := out[t]; ok {
			continue
		}
		if g.limiter != nil {
			g.limiter.WaitIfNeeded()
		}
		q, err := g.GetQuote(ctx, t, apiToken)
		if err != nil {
			// 1銘柄の失敗で全体を止めない
			slog.Warn("failed to fetch quote", "ticker", t, "error", err)
			continue
		}
		out[t] = q
	}
	return out
}

// GetHistoricalData は期間指定の日足時系列を日付昇順で返します。
// 上流が失敗した場合は空スライスを返します（チャートが空になるだけ）。
func (g *MarketDataGateway) GetHistoricalData(ctx context.Context, ticker string, period entity.Period, apiToken string) []entity.Candle {
	if apiToken == "" {
		slog.Warn("historical data requested without API key", "ticker", ticker)
		return []entity.Candle{}
	}

	now := g.now()
	// 同一銘柄でも期間が違えば別エントリ。未知の期間は1Mへ正規化してから
	// キーを作るので、同じ取得範囲がキャッシュ上で重複しません。
	period = period.Normalize()
	key := ticker + "|" + string(period)
	if cs, ok := g.history.Get(key, now, g.ttl.History); ok {
		return cs
	}

	from, to := period.Window(now)
	cs, err := g.api.EndOfDay(ctx, ticker, apiToken, from, to)
	if err != nil {
		slog.Warn("failed to fetch historical data", "ticker", ticker, "period", period, "error", err)
		return []entity.Candle{}
	}
	g.history.Put(key, cs, now)
	return cs
}

// GetFundamentalData は企業情報と指標を返します。取得できない場合はnilを返し、
// 呼び出し側は「データなし」として扱います。
func (g *MarketDataGateway) GetFundamentalData(ctx context.Context, ticker, apiToken string) *entity.Fundamental {
	if apiToken == "" {
		slog.Warn("fundamentals requested without API key", "ticker", ticker)
		return nil
	}

	now := g.now()
	if f, ok := g.fundamentals.Get(ticker, now, g.ttl.Fundamental); ok {
		return &f
	}

	f, err := g.api.Fundamentals(ctx, ticker, apiToken)
	if err != nil {
		slog.Warn("failed to fetch fundamentals", "ticker", ticker, "error", err)
		return nil
	}
	g.fundamentals.Put(ticker, f, now)
	return &f
}

// SearchTickers はフリーテキストで銘柄を検索します。検索はキャッシュしません。
// 失敗時は空スライスを返します。
func (g *MarketDataGateway) SearchTickers(ctx context.Context, query, apiToken string) []entity.TickerSearchResult {
	if apiToken == "" {
		slog.Warn("ticker search requested without API key", "query", query)
		return []entity.TickerSearchResult{}
	}

	rs, err := g.api.SearchSymbols(ctx, query, apiToken)
	if err != nil {
		slog.Warn("failed to search tickers", "query", query, "error", err)
		return []entity.TickerSearchResult{}
	}
	return rs
}

// GetNews は直近7日間のニュースを返します。失敗時は空スライスを返します。
func (g *MarketDataGateway) GetNews(ctx context.Context, ticker, apiToken string) []entity.NewsItem {
	if apiToken == "" {
		slog.Warn("news requested without API key", "ticker", ticker)
		return []entity.NewsItem{}
	}

	now := g.now()
	if ns, ok := g.news.Get(ticker, now, g.ttl.News); ok {
		return ns
	}

	ns, err := g.api.CompanyNews(ctx, ticker, apiToken, now.AddDate(0, 0, -newsWindowDays), now)
	if err != nil {
		slog.Warn("failed to fetch news", "ticker", ticker, "error", err)
		return []entity.NewsItem{}
	}
	g.news.Put(ticker, ns, now)
	return ns
}

// GetSupportedTickers は取引所の銘柄一覧を返します。ほぼ静的な参照データのため
// 長いTTLでキャッシュします。失敗時は空スライスを返します。
func (g *MarketDataGateway) GetSupportedTickers(ctx context.Context, exchange, apiToken string) []entity.SymbolListing {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if apiToken == "" {
		slog.Warn("symbol list requested without API key", "exchange", exchange)
		return []entity.SymbolListing{}
	}

	now := g.now()
	if ls, ok := g.symbols.Get(exchange, now, g.ttl.Symbols); ok {
		return ls
	}

	ls, err := g.api.ExchangeSymbols(ctx, exchange, apiToken)
	if err != nil {
		slog.Warn("failed to fetch symbol list", "exchange", exchange, "error", err)
		return []entity.SymbolListing{}
	}
	g.symbols.Put(exchange, ls, now)
	return ls
}
