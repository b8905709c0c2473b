package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	currencyentity "wealth_backend/internal/feature/currency/domain/entity"
	portfolioentity "wealth_backend/internal/feature/portfolio/domain/entity"
	preferencesentity "wealth_backend/internal/feature/preferences/domain/entity"
	watchlistentity "wealth_backend/internal/feature/watchlist/domain/entity"
)

// Config はデータベース接続設定です。
type Config struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	// InstanceName が設定されている場合はCloud SQLのUnixソケット接続を使います。
	InstanceName string
}

// LoadConfigFromEnv は環境変数から接続設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN はPostgres用のDSN文字列を生成します。InstanceNameが設定されて
// いる場合はHost/Portより優先されます。
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry は接続に成功するまで3秒間隔でリトライします。
// timeoutを超えた場合は最後のエラーを返します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
}

func OpenDB() *gorm.DB {
	cfg := LoadConfigFromEnv()

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, openPostgres)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（設定・ポートフォリオ・ウォッチリスト・レート）
		if err := db.AutoMigrate(
			&preferencesentity.UserPreference{},
			&portfolioentity.Portfolio{},
			&portfolioentity.Asset{},
			&portfolioentity.Position{},
			&watchlistentity.Watchlist{},
			&watchlistentity.WatchlistItem{},
			&watchlistentity.PriceAlert{},
			&currencyentity.CurrencyRate{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
