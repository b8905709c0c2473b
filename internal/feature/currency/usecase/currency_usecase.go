// Package usecase は通貨換算のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"wealth_backend/internal/feature/currency/domain/entity"
)

// ErrRateNotFound は通貨ペアのレートが登録されていない場合に返されます。
var ErrRateNotFound = errors.New("conversion rate not found")

// RateRepository は換算レートの永続化レイヤーを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type RateRepository interface {
	FindAll(ctx context.Context) ([]entity.CurrencyRate, error)
	// FindPair は未登録の場合 (nil, nil) を返します。
	FindPair(ctx context.Context, from, to string) (*entity.CurrencyRate, error)
	Upsert(ctx context.Context, rate *entity.CurrencyRate) error
}

// CurrencyUsecase は通貨換算のユースケースを定義します。
type CurrencyUsecase struct {
	rates RateRepository
}

// NewCurrencyUsecase はCurrencyUsecaseの新しいインスタンスを生成します。
func NewCurrencyUsecase(rates RateRepository) *CurrencyUsecase {
	return &CurrencyUsecase{rates: rates}
}

// ListRates は登録済みの全レートを返します。
func (u *CurrencyUsecase) ListRates(ctx context.Context) ([]entity.CurrencyRate, error) {
	return u.rates.FindAll(ctx)
}

// SaveRate は通貨ペアのレートを作成または更新します。
func (u *CurrencyUsecase) SaveRate(ctx context.Context, from, to string, rate float64) (*entity.CurrencyRate, error) {
	r := &entity.CurrencyRate{FromCurrency: from, ToCurrency: to, Rate: rate}
	if err := u.rates.Upsert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Rate は通貨ペアの換算レートを解決します。同一通貨は1、順方向の登録が
// 無ければ逆方向のレートの逆数を使います。どちらも無ければ
// ErrRateNotFoundを返します。
func (u *CurrencyUsecase) Rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}

	direct, err := u.rates.FindPair(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if direct != nil {
		return direct.Rate, nil
	}

	reverse, err := u.rates.FindPair(ctx, to, from)
	if err != nil {
		return 0, err
	}
	if reverse != nil && reverse.Rate != 0 {
		return 1 / reverse.Rate, nil
	}

	return 0, ErrRateNotFound
}

// Conversion は換算結果です。
type Conversion struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
}

// Convert は金額を換算します。
func (u *CurrencyUsecase) Convert(ctx context.Context, amount float64, from, to string) (*Conversion, error) {
	rate, err := u.Rate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &Conversion{Amount: amount, From: from, To: to, Rate: rate, Converted: amount * rate}, nil
}
