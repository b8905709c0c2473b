package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/watchlist/domain/entity"
	"wealth_backend/internal/feature/watchlist/usecase"
)

// alertGorm はAlertRepositoryのGORM実装です。
type alertGorm struct {
	db *gorm.DB
}

var _ usecase.AlertRepository = (*alertGorm)(nil)

// NewAlertRepository は指定されたDBでリポジトリを生成します。
func NewAlertRepository(db *gorm.DB) *alertGorm {
	return &alertGorm{db: db}
}

// userItemIDs はユーザーが所有する監視銘柄IDのサブクエリです。
func (r *alertGorm) userItemIDs(userID uint) *gorm.DB {
	lists := r.db.Model(&entity.Watchlist{}).Select("id").Where("user_id = ?", userID)
	return r.db.Model(&entity.WatchlistItem{}).Select("id").Where("watchlist_id IN (?)", lists)
}

func (r *alertGorm) FindByUserID(ctx context.Context, userID uint) ([]entity.PriceAlert, error) {
	var alerts []entity.PriceAlert
	err := r.db.WithContext(ctx).
		Where("watchlist_item_id IN (?)", r.userItemIDs(userID)).
		Order("id").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("find alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertGorm) FindPendingByUserID(ctx context.Context, userID uint) ([]usecase.PendingAlert, error) {
	var rows []struct {
		entity.PriceAlert
		Ticker string
	}
	err := r.db.WithContext(ctx).Model(&entity.PriceAlert{}).
		Select("watchlist_alerts.*, watchlist_items.ticker").
		Joins("JOIN watchlist_items ON watchlist_items.id = watchlist_alerts.watchlist_item_id").
		Joins("JOIN watchlists ON watchlists.id = watchlist_items.watchlist_id").
		Where("watchlists.user_id = ? AND watchlist_alerts.status = ?", userID, entity.AlertStatusPending).
		Order("watchlist_alerts.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find pending alerts: %w", err)
	}

	out := make([]usecase.PendingAlert, 0, len(rows))
	for _, row := range rows {
		out = append(out, usecase.PendingAlert{Alert: row.PriceAlert, Ticker: row.Ticker})
	}
	return out, nil
}

func (r *alertGorm) Create(ctx context.Context, userID uint, alert *entity.PriceAlert) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.WatchlistItem{}).
		Where("id IN (?)", r.userItemIDs(userID)).
		Where("id = ?", alert.WatchlistItemID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check alert owner: %w", err)
	}
	if count == 0 {
		return false, nil
	}

	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return false, fmt.Errorf("create alert: %w", err)
	}
	return true, nil
}

func (r *alertGorm) Delete(ctx context.Context, alertID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND watchlist_item_id IN (?)", alertID, r.userItemIDs(userID)).
		Delete(&entity.PriceAlert{})
	if res.Error != nil {
		return false, fmt.Errorf("delete alert: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *alertGorm) MarkTriggered(ctx context.Context, alertID uint) error {
	err := r.db.WithContext(ctx).Model(&entity.PriceAlert{}).
		Where("id = ?", alertID).
		Update("status", entity.AlertStatusTriggered).Error
	if err != nil {
		return fmt.Errorf("mark alert triggered: %w", err)
	}
	return nil
}
