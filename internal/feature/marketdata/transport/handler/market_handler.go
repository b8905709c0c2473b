// Package handler はmarketdataフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/marketdata/domain/entity"
	"wealth_backend/internal/feature/marketdata/usecase"
	jwtmw "wealth_backend/internal/platform/jwt"
)

// MarketDataUsecase は市場データゲートウェイのインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type MarketDataUsecase interface {
	GetQuote(ctx context.Context, ticker, apiToken string) (entity.Quote, error)
	GetHistoricalData(ctx context.Context, ticker string, period entity.Period, apiToken string) []entity.Candle
	GetFundamentalData(ctx context.Context, ticker, apiToken string) *entity.Fundamental
	SearchTickers(ctx context.Context, query, apiToken string) []entity.TickerSearchResult
	GetNews(ctx context.Context, ticker, apiToken string) []entity.NewsItem
	GetSupportedTickers(ctx context.Context, exchange, apiToken string) []entity.SymbolListing
}

// CredentialSource はユーザーごとのプロバイダAPIキーを解決します。
// キーが未設定の場合は空文字を返します。
type CredentialSource interface {
	APIKey(ctx context.Context, userID uint) string
}

// MarketHandler は市場データのHTTPリクエストを処理します。
type MarketHandler struct {
	gw    MarketDataUsecase
	creds CredentialSource
}

// NewMarketHandler は指定されたusecaseと認証情報ソースでMarketHandlerを生成します。
func NewMarketHandler(gw MarketDataUsecase, creds CredentialSource) *MarketHandler {
	return &MarketHandler{gw: gw, creds: creds}
}

// apiToken はリクエストのユーザーに紐づくAPIキーを解決します。未設定なら空文字です。
func (h *MarketHandler) apiToken(c *gin.Context) string {
	uid, ok := c.Get(jwtmw.ContextUserID)
	if !ok {
		return ""
	}
	id, ok := uid.(uint)
	if !ok {
		return ""
	}
	return h.creds.APIKey(c.Request.Context(), id)
}

// GetQuote は銘柄の直近価格を返します。
//
// エンドポイント例:
// GET /market/quote/AAPL
//
// キー未設定は400、上流障害は502として呼び出し側に区別可能な形で返します。
func (h *MarketHandler) GetQuote(c *gin.Context) {
	ticker := c.Param("ticker")

	q, err := h.gw.GetQuote(c.Request.Context(), ticker, h.apiToken(c))
	if err != nil {
		if errors.Is(err, usecase.ErrCredentialMissing) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "market data API key is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, q)
}

// GetHistory は期間指定の日足時系列を返します。データが取得できない場合は空配列です。
//
// エンドポイント例:
// GET /market/history/AAPL?period=1M
func (h *MarketHandler) GetHistory(c *gin.Context) {
	ticker := c.Param("ticker")
	period := entity.Period(c.DefaultQuery("period", string(entity.Period1M)))

	cs := h.gw.GetHistoricalData(c.Request.Context(), ticker, period, h.apiToken(c))
	c.JSON(http.StatusOK, cs)
}

// GetFundamentals は企業情報と指標を返します。データが無い場合は404です。
func (h *MarketHandler) GetFundamentals(c *gin.Context) {
	ticker := c.Param("ticker")

	f := h.gw.GetFundamentalData(c.Request.Context(), ticker, h.apiToken(c))
	if f == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no fundamental data available"})
		return
	}

	c.JSON(http.StatusOK, f)
}

// Search はフリーテキストで銘柄を検索します。
//
// エンドポイント例:
// GET /market/search?q=apple
func (h *MarketHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "query parameter q is required"})
		return
	}

	rs := h.gw.SearchTickers(c.Request.Context(), query, h.apiToken(c))
	c.JSON(http.StatusOK, rs)
}

// GetNews は銘柄の直近ニュースを返します。
func (h *MarketHandler) GetNews(c *gin.Context) {
	ticker := c.Param("ticker")

	ns := h.gw.GetNews(c.Request.Context(), ticker, h.apiToken(c))
	c.JSON(http.StatusOK, ns)
}

// GetSymbols は取引所の銘柄一覧を返します。
//
// エンドポイント例:
// GET /market/symbols/US
func (h *MarketHandler) GetSymbols(c *gin.Context) {
	exchange := c.Param("exchange")

	ls := h.gw.GetSupportedTickers(c.Request.Context(), exchange, h.apiToken(c))
	c.JSON(http.StatusOK, ls)
}
