// Package usecase はユーザー設定操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"

	"wealth_backend/internal/feature/preferences/domain/entity"
)

// DefaultCurrency は設定が無いユーザーの基準通貨です。
const DefaultCurrency = "EUR"

// PreferenceRepository はユーザー設定の永続化レイヤーを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PreferenceRepository interface {
	// FindByUserID はユーザーの設定を返します。未作成の場合は (nil, nil) を返します。
	FindByUserID(ctx context.Context, userID uint) (*entity.UserPreference, error)
	Upsert(ctx context.Context, pref *entity.UserPreference) error
}

// PreferencesUsecase はユーザー設定のユースケースを定義します。
type PreferencesUsecase struct {
	repo PreferenceRepository
}

// NewPreferencesUsecase はPreferencesUsecaseの新しいインスタンスを生成します。
func NewPreferencesUsecase(repo PreferenceRepository) *PreferencesUsecase {
	return &PreferencesUsecase{repo: repo}
}

// Get はユーザーの設定を返します。未作成の場合は既定値を返します。
func (u *PreferencesUsecase) Get(ctx context.Context, userID uint) (*entity.UserPreference, error) {
	pref, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &entity.UserPreference{UserID: userID, PreferredCurrency: DefaultCurrency}, nil
	}
	return pref, nil
}

// Save はユーザーの設定を作成または更新します。
func (u *PreferencesUsecase) Save(ctx context.Context, userID uint, preferredCurrency, apiKey string) (*entity.UserPreference, error) {
	if preferredCurrency == "" {
		preferredCurrency = DefaultCurrency
	}
	pref := &entity.UserPreference{
		UserID:            userID,
		PreferredCurrency: preferredCurrency,
		EODHDAPIKey:       apiKey,
	}
	if err := u.repo.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// APIKey は市場データゲートウェイ用のAPIキーを解決します。
// 設定が無い、または読み取りに失敗した場合は空文字を返します（キー未設定と同義）。
func (u *PreferencesUsecase) APIKey(ctx context.Context, userID uint) string {
	pref, err := u.repo.FindByUserID(ctx, userID)
	if err != nil {
		slog.Warn("failed to load API key", "userID", userID, "error", err)
		return ""
	}
	if pref == nil {
		return ""
	}
	return pref.EODHDAPIKey
}
