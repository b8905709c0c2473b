package router

import (
	currencyhandler "wealth_backend/internal/feature/currency/transport/handler"
	markethandler "wealth_backend/internal/feature/marketdata/transport/handler"
	portfoliohandler "wealth_backend/internal/feature/portfolio/transport/handler"
	preferenceshandler "wealth_backend/internal/feature/preferences/transport/handler"
	watchlisthandler "wealth_backend/internal/feature/watchlist/transport/handler"
	"wealth_backend/internal/platform/http/handler"
	jwtmw "wealth_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

// Handlers はルーターが必要とする全ハンドラーです。
type Handlers struct {
	Market      *markethandler.MarketHandler
	Preferences *preferenceshandler.PreferencesHandler
	Portfolio   *portfoliohandler.PortfolioHandler
	Watchlist   *watchlisthandler.WatchlistHandler
	Currency    *currencyhandler.CurrencyHandler
}

func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		// 市場データ
		auth.GET("/market/quote/:ticker", h.Market.GetQuote)
		auth.GET("/market/history/:ticker", h.Market.GetHistory)
		auth.GET("/market/fundamentals/:ticker", h.Market.GetFundamentals)
		auth.GET("/market/search", h.Market.Search)
		auth.GET("/market/news/:ticker", h.Market.GetNews)
		auth.GET("/market/symbols/:exchange", h.Market.GetSymbols)

		// ユーザー設定
		auth.GET("/settings", h.Preferences.Get)
		auth.PUT("/settings", h.Preferences.Save)

		// ポートフォリオ
		auth.GET("/portfolios", h.Portfolio.List)
		auth.POST("/portfolios", h.Portfolio.Create)
		auth.DELETE("/portfolios/:id", h.Portfolio.Delete)
		auth.GET("/portfolios/:id/positions", h.Portfolio.ListPositions)
		auth.POST("/portfolios/:id/positions", h.Portfolio.AddPosition)
		auth.PUT("/positions/:id", h.Portfolio.UpdatePosition)
		auth.DELETE("/positions/:id", h.Portfolio.DeletePosition)
		auth.GET("/portfolios/:id/summary", h.Portfolio.Summary)
		auth.GET("/portfolios/:id/rebalance", h.Portfolio.Rebalance)
		auth.GET("/portfolios/:id/health", h.Portfolio.Health)

		// ウォッチリストとアラート
		auth.GET("/watchlists", h.Watchlist.List)
		auth.POST("/watchlists", h.Watchlist.Create)
		auth.DELETE("/watchlists/:id", h.Watchlist.Delete)
		auth.POST("/watchlists/:id/items", h.Watchlist.AddItem)
		auth.DELETE("/watchlist-items/:id", h.Watchlist.DeleteItem)
		auth.GET("/alerts", h.Watchlist.ListAlerts)
		auth.POST("/alerts", h.Watchlist.CreateAlert)
		auth.DELETE("/alerts/:id", h.Watchlist.DeleteAlert)
		auth.GET("/alerts/triggered", h.Watchlist.Triggered)

		// 通貨換算
		auth.GET("/currency/convert", h.Currency.Convert)
		auth.GET("/currency/rates", h.Currency.ListRates)
		auth.PUT("/currency/rates", h.Currency.SaveRate)
	}

	return r
}
