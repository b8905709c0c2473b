// Package adapters はウォッチリストの永続化実装（GORM）を提供します。
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/watchlist/domain/entity"
	"wealth_backend/internal/feature/watchlist/usecase"
)

// watchlistGorm はWatchlistRepositoryのGORM実装です。
type watchlistGorm struct {
	db *gorm.DB
}

var _ usecase.WatchlistRepository = (*watchlistGorm)(nil)

// NewWatchlistRepository は指定されたDBでリポジトリを生成します。
func NewWatchlistRepository(db *gorm.DB) *watchlistGorm {
	return &watchlistGorm{db: db}
}

func (r *watchlistGorm) FindByUserID(ctx context.Context, userID uint) ([]entity.Watchlist, error) {
	var ws []entity.Watchlist
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&ws).Error
	if err != nil {
		return nil, fmt.Errorf("find watchlists: %w", err)
	}
	return ws, nil
}

func (r *watchlistGorm) Create(ctx context.Context, w *entity.Watchlist) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("create watchlist: %w", err)
	}
	return nil
}

// Delete は配下の項目とアラートも削除します。
func (r *watchlistGorm) Delete(ctx context.Context, id, userID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Watchlist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		itemIDs := tx.Model(&entity.WatchlistItem{}).Select("id").Where("watchlist_id = ?", id)
		if err := tx.Where("watchlist_item_id IN (?)", itemIDs).Delete(&entity.PriceAlert{}).Error; err != nil {
			return err
		}
		return tx.Where("watchlist_id = ?", id).Delete(&entity.WatchlistItem{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete watchlist: %w", err)
	}
	return deleted, nil
}

func (r *watchlistGorm) AddItem(ctx context.Context, userID uint, item *entity.WatchlistItem) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Watchlist{}).
		Where("id = ? AND user_id = ?", item.WatchlistID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check watchlist owner: %w", err)
	}
	if count == 0 {
		return false, nil
	}

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return false, fmt.Errorf("add watchlist item: %w", err)
	}
	return true, nil
}

func (r *watchlistGorm) DeleteItem(ctx context.Context, itemID, userID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lists := tx.Model(&entity.Watchlist{}).Select("id").Where("user_id = ?", userID)
		res := tx.Where("id = ? AND watchlist_id IN (?)", itemID, lists).Delete(&entity.WatchlistItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("watchlist_item_id = ?", itemID).Delete(&entity.PriceAlert{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete watchlist item: %w", err)
	}
	return deleted, nil
}
