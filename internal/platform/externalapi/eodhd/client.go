package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"wealth_backend/internal/feature/marketdata/domain/entity"
	"wealth_backend/internal/feature/marketdata/usecase"
	"wealth_backend/internal/platform/externalapi/eodhd/dto"
)

const (
	searchLimit = 15 // 検索エンドポイントに渡す件数上限
	newsLimit   = 20 // ニュースエンドポイントに渡す件数上限

	dateLayout = "2006-01-02"
)

// Client はEODHD外部APIから市場データを取得するMarketAPI実装です。
// 1回の操作につきHTTP GETを1回だけ発行し、リトライやページングは行いません。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMarketAPIを実装していることをコンパイル時に検証します。
var _ usecase.MarketAPI = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// get は1回のGETリクエストを実行し、JSONレスポンスをoutにデコードします。
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("eodhd http %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}

// RealTimeQuote は /real-time エンドポイントから直近の価格スナップショットを取得します。
func (c *Client) RealTimeQuote(ctx context.Context, ticker, apiToken string) (entity.Quote, error) {
	q := url.Values{}
	q.Set("api_token", apiToken)
	q.Set("fmt", "json")

	var body dto.RealTimeResponse
	if err := c.get(ctx, "/real-time/"+url.PathEscape(ticker), q, &body); err != nil {
		return entity.Quote{}, fmt.Errorf("real-time %s: %w", ticker, err)
	}
	return mapQuote(body), nil
}

// EndOfDay は /eod エンドポイントから日足の時系列データを取得します。
// 返却値は日付昇順です。
func (c *Client) EndOfDay(ctx context.Context, ticker, apiToken string, from, to time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("from", from.Format(dateLayout))
	q.Set("to", to.Format(dateLayout))
	q.Set("period", "d")
	q.Set("api_token", apiToken)
	q.Set("fmt", "json")

	var body []dto.EODBar
	if err := c.get(ctx, "/eod/"+url.PathEscape(ticker), q, &body); err != nil {
		return nil, fmt.Errorf("eod %s: %w", ticker, err)
	}
	return mapCandles(body), nil
}

// Fundamentals は /fundamentals エンドポイントから企業情報と指標を取得します。
func (c *Client) Fundamentals(ctx context.Context, ticker, apiToken string) (entity.Fundamental, error) {
	q := url.Values{}
	q.Set("api_token", apiToken)
	q.Set("fmt", "json")

	var body dto.FundamentalsResponse
	if err := c.get(ctx, "/fundamentals/"+url.PathEscape(ticker), q, &body); err != nil {
		return entity.Fundamental{}, fmt.Errorf("fundamentals %s: %w", ticker, err)
	}
	return mapFundamental(ticker, body), nil
}

// SearchSymbols は /search エンドポイントでティッカーや企業名を検索します。
func (c *Client) SearchSymbols(ctx context.Context, query, apiToken string) ([]entity.TickerSearchResult, error) {
	q := url.Values{}
	q.Set("api_token", apiToken)
	q.Set("limit", fmt.Sprint(searchLimit))

	var body []dto.SearchItem
	if err := c.get(ctx, "/search/"+url.PathEscape(query), q, &body); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return mapSearchResults(body), nil
}

// CompanyNews は /news エンドポイントから銘柄のニュースを取得します。
func (c *Client) CompanyNews(ctx context.Context, ticker, apiToken string, from, to time.Time) ([]entity.NewsItem, error) {
	q := url.Values{}
	q.Set("s", ticker)
	q.Set("from", from.Format(dateLayout))
	q.Set("to", to.Format(dateLayout))
	q.Set("api_token", apiToken)
	q.Set("fmt", "json")
	q.Set("limit", fmt.Sprint(newsLimit))

	var body []dto.NewsArticle
	if err := c.get(ctx, "/news", q, &body); err != nil {
		return nil, fmt.Errorf("news %s: %w", ticker, err)
	}
	return mapNews(ticker, body), nil
}

// ExchangeSymbols は /exchange-symbol-list エンドポイントから取引所の銘柄一覧を取得します。
func (c *Client) ExchangeSymbols(ctx context.Context, exchange, apiToken string) ([]entity.SymbolListing, error) {
	q := url.Values{}
	q.Set("api_token", apiToken)
	q.Set("fmt", "json")

	var body []dto.ExchangeSymbol
	if err := c.get(ctx, "/exchange-symbol-list/"+url.PathEscape(exchange), q, &body); err != nil {
		return nil, fmt.Errorf("exchange-symbol-list %s: %w", exchange, err)
	}
	return mapListings(body), nil
}
