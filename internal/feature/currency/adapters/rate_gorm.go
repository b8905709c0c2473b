// Package adapters は換算レートの永続化実装（GORM）を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealth_backend/internal/feature/currency/domain/entity"
	"wealth_backend/internal/feature/currency/usecase"
)

// rateGorm はRateRepositoryのGORM実装です。
type rateGorm struct {
	db *gorm.DB
}

var _ usecase.RateRepository = (*rateGorm)(nil)

// NewRateRepository は指定されたDBでリポジトリを生成します。
func NewRateRepository(db *gorm.DB) *rateGorm {
	return &rateGorm{db: db}
}

func (r *rateGorm) FindAll(ctx context.Context) ([]entity.CurrencyRate, error) {
	var rates []entity.CurrencyRate
	err := r.db.WithContext(ctx).
		Order("from_currency, to_currency").
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("find rates: %w", err)
	}
	return rates, nil
}

func (r *rateGorm) FindPair(ctx context.Context, from, to string) (*entity.CurrencyRate, error) {
	var rate entity.CurrencyRate
	err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", from, to).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find rate: %w", err)
	}
	return &rate, nil
}

// Upsert は同一ペアの既存行をレートのみ更新します。
func (r *rateGorm) Upsert(ctx context.Context, rate *entity.CurrencyRate) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
		}).
		Create(rate).Error
	if err != nil {
		return fmt.Errorf("upsert rate: %w", err)
	}
	return nil
}
