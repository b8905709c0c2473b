// Package adapters はpreferencesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wealth_backend/internal/feature/preferences/domain/entity"
	"wealth_backend/internal/feature/preferences/usecase"
)

// preferenceGorm はPreferenceRepositoryインターフェースのgorm実装です。
type preferenceGorm struct {
	db *gorm.DB
}

var _ usecase.PreferenceRepository = (*preferenceGorm)(nil)

// NewPreferenceRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewPreferenceRepository(db *gorm.DB) *preferenceGorm {
	return &preferenceGorm{db: db}
}

// FindByUserID はユーザーの設定を返します。レコードが無い場合は (nil, nil) を返します。
func (r *preferenceGorm) FindByUserID(ctx context.Context, userID uint) (*entity.UserPreference, error) {
	var pref entity.UserPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Upsert はユーザー設定を作成または更新します。user_idの一意制約で競合を解決します。
func (r *preferenceGorm) Upsert(ctx context.Context, pref *entity.UserPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"preferred_currency", "eodhd_api_key", "updated_at"}),
		}).
		Create(pref).Error
}
