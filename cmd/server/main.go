package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"wealth_backend/internal/app/di"
	"wealth_backend/internal/app/router"
	currencyadapters "wealth_backend/internal/feature/currency/adapters"
	currencyhandler "wealth_backend/internal/feature/currency/transport/handler"
	currencyusecase "wealth_backend/internal/feature/currency/usecase"
	markethandler "wealth_backend/internal/feature/marketdata/transport/handler"
	portfolioadapters "wealth_backend/internal/feature/portfolio/adapters"
	portfoliohandler "wealth_backend/internal/feature/portfolio/transport/handler"
	portfoliousecase "wealth_backend/internal/feature/portfolio/usecase"
	preferencesadapters "wealth_backend/internal/feature/preferences/adapters"
	preferenceshandler "wealth_backend/internal/feature/preferences/transport/handler"
	preferencesusecase "wealth_backend/internal/feature/preferences/usecase"
	watchlistadapters "wealth_backend/internal/feature/watchlist/adapters"
	watchlisthandler "wealth_backend/internal/feature/watchlist/transport/handler"
	watchlistusecase "wealth_backend/internal/feature/watchlist/usecase"
	infradb "wealth_backend/internal/platform/db"
	infraredis "wealth_backend/internal/platform/redis"
)

func main() {
	// ローカル実行用。見つからなくても問題ない。
	_ = godotenv.Load()

	// db
	db := infradb.OpenDB()

	// Redis（無くてもインメモリキャッシュのみで動作する）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		if rdb != nil {
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// 市場データゲートウェイ
	gateway := di.NewMarketDataGateway(rdb)

	// Repository
	prefRepo := preferencesadapters.NewPreferenceRepository(db)
	portfolioRepo := portfolioadapters.NewPortfolioRepository(db)
	positionRepo := portfolioadapters.NewPositionRepository(db)
	assetRepo := portfolioadapters.NewAssetRepository(db)
	watchlistRepo := watchlistadapters.NewWatchlistRepository(db)
	alertRepo := watchlistadapters.NewAlertRepository(db)
	rateRepo := currencyadapters.NewRateRepository(db)

	// Usecase
	prefUC := preferencesusecase.NewPreferencesUsecase(prefRepo)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(portfolioRepo, positionRepo, assetRepo, gateway)
	watchlistUC := watchlistusecase.NewWatchlistUsecase(watchlistRepo, alertRepo, gateway)
	currencyUC := currencyusecase.NewCurrencyUsecase(rateRepo)

	// Handler（APIキーはユーザー設定から解決する）
	h := router.Handlers{
		Market:      markethandler.NewMarketHandler(gateway, prefUC),
		Preferences: preferenceshandler.NewPreferencesHandler(prefUC),
		Portfolio:   portfoliohandler.NewPortfolioHandler(portfolioUC, prefUC),
		Watchlist:   watchlisthandler.NewWatchlistHandler(watchlistUC, prefUC),
		Currency:    currencyhandler.NewCurrencyHandler(currencyUC),
	}

	// ルータ生成
	r := router.NewRouter(h)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
