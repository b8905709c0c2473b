package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/feature/portfolio/usecase"
)

// assetGorm はAssetRepositoryのGORM実装です。
type assetGorm struct {
	db *gorm.DB
}

var _ usecase.AssetRepository = (*assetGorm)(nil)

// NewAssetRepository は指定されたDBでリポジトリを生成します。
func NewAssetRepository(db *gorm.DB) *assetGorm {
	return &assetGorm{db: db}
}

// FindOrCreate はティッカーで既存行を探し、無ければ引数の内容で作成します。
// 既存行がある場合、引数の他フィールドは無視されます。
func (r *assetGorm) FindOrCreate(ctx context.Context, asset *entity.Asset) (*entity.Asset, error) {
	var found entity.Asset
	err := r.db.WithContext(ctx).Where("ticker = ?", asset.Ticker).First(&found).Error
	if err == nil {
		return &found, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find asset: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return asset, nil
}

func (r *assetGorm) UpdatePrice(ctx context.Context, assetID uint, price float64) error {
	err := r.db.WithContext(ctx).Model(&entity.Asset{}).
		Where("id = ?", assetID).
		Update("current_price", price).Error
	if err != nil {
		return fmt.Errorf("update asset price: %w", err)
	}
	return nil
}
