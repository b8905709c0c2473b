// Package adapters はポートフォリオの永続化実装（GORM）を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/feature/portfolio/usecase"
)

// portfolioGorm はPortfolioRepositoryのGORM実装です。
type portfolioGorm struct {
	db *gorm.DB
}

var _ usecase.PortfolioRepository = (*portfolioGorm)(nil)

// NewPortfolioRepository は指定されたDBでリポジトリを生成します。
func NewPortfolioRepository(db *gorm.DB) *portfolioGorm {
	return &portfolioGorm{db: db}
}

func (r *portfolioGorm) FindByUserID(ctx context.Context, userID uint) ([]entity.Portfolio, error) {
	var ps []entity.Portfolio
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&ps).Error
	if err != nil {
		return nil, fmt.Errorf("find portfolios: %w", err)
	}
	return ps, nil
}

func (r *portfolioGorm) FindByID(ctx context.Context, id, userID uint) (*entity.Portfolio, error) {
	var p entity.Portfolio
	err := r.db.WithContext(ctx).
		Preload("Positions").
		Preload("Positions.Asset").
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find portfolio: %w", err)
	}
	return &p, nil
}

func (r *portfolioGorm) Create(ctx context.Context, p *entity.Portfolio) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create portfolio: %w", err)
	}
	return nil
}

// Delete は配下のポジションごと削除します。所有者が一致しない場合は false を返します。
func (r *portfolioGorm) Delete(ctx context.Context, id, userID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Portfolio{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("portfolio_id = ?", id).Delete(&entity.Position{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete portfolio: %w", err)
	}
	return deleted, nil
}
