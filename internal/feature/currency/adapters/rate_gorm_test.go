package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wealth_backend/internal/feature/currency/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.CurrencyRate{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestRateGorm_FindPair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entity.CurrencyRate{FromCurrency: "USD", ToCurrency: "EUR", Rate: 0.9}))

	rate, err := repo.FindPair(ctx, "USD", "EUR")
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.InDelta(t, 0.9, rate.Rate, 1e-9)

	missing, err := repo.FindPair(ctx, "EUR", "USD")
	require.NoError(t, err)
	assert.Nil(t, missing, "reverse direction is a separate row")
}

// TestRateGorm_Upsert_SamePair は同一ペアへの2回目のUpsertが
// 新規行を作らずレートを更新することを検証します。
func TestRateGorm_Upsert_SamePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entity.CurrencyRate{FromCurrency: "USD", ToCurrency: "EUR", Rate: 0.9}))
	require.NoError(t, repo.Upsert(ctx, &entity.CurrencyRate{FromCurrency: "USD", ToCurrency: "EUR", Rate: 0.95}))

	rate, err := repo.FindPair(ctx, "USD", "EUR")
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.InDelta(t, 0.95, rate.Rate, 1e-9)

	var count int64
	require.NoError(t, db.Model(&entity.CurrencyRate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRateGorm_FindAll_Ordered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &entity.CurrencyRate{FromCurrency: "USD", ToCurrency: "JPY", Rate: 150}))
	require.NoError(t, repo.Upsert(ctx, &entity.CurrencyRate{FromCurrency: "EUR", ToCurrency: "USD", Rate: 1.1}))

	rates, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "EUR", rates[0].FromCurrency)
	assert.Equal(t, "USD", rates[1].FromCurrency)
}
