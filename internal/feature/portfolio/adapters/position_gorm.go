package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/feature/portfolio/usecase"
)

// positionGorm はPositionRepositoryのGORM実装です。
type positionGorm struct {
	db *gorm.DB
}

var _ usecase.PositionRepository = (*positionGorm)(nil)

// NewPositionRepository は指定されたDBでリポジトリを生成します。
func NewPositionRepository(db *gorm.DB) *positionGorm {
	return &positionGorm{db: db}
}

// FindByID は所有者チェックのためポートフォリオと結合して検索します。
func (r *positionGorm) FindByID(ctx context.Context, id, userID uint) (*entity.Position, error) {
	var pos entity.Position
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Joins("JOIN portfolios ON portfolios.id = positions.portfolio_id").
		Where("positions.id = ? AND portfolios.user_id = ?", id, userID).
		First(&pos).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find position: %w", err)
	}
	return &pos, nil
}

func (r *positionGorm) Create(ctx context.Context, pos *entity.Position) error {
	if err := r.db.WithContext(ctx).Omit("Asset").Create(pos).Error; err != nil {
		return fmt.Errorf("create position: %w", err)
	}
	return nil
}

func (r *positionGorm) Update(ctx context.Context, pos *entity.Position) error {
	err := r.db.WithContext(ctx).Model(&entity.Position{}).
		Where("id = ?", pos.ID).
		Updates(map[string]any{
			"quantity":              pos.Quantity,
			"entry_price":           pos.EntryPrice,
			"target_percentage":     pos.TargetPct,
			"custom_classification": pos.Classification,
		}).Error
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	return nil
}

// Delete は所有者が一致しない場合 false を返します。
func (r *positionGorm) Delete(ctx context.Context, id, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND portfolio_id IN (?)",
			id,
			r.db.Model(&entity.Portfolio{}).Select("id").Where("user_id = ?", userID),
		).
		Delete(&entity.Position{})
	if res.Error != nil {
		return false, fmt.Errorf("delete position: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
