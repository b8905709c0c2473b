// Package entity defines the domain models for the watchlist feature.
package entity

import "time"

// Alert types.
const (
	AlertTypePriceTarget   = "PRICE_TARGET"
	AlertTypePercentChange = "PERCENT_CHANGE"
)

// Alert statuses.
const (
	AlertStatusPending   = "PENDING"
	AlertStatusTriggered = "TRIGGERED"
)

// Watchlist is a named list of tickers a user follows.
type Watchlist struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"userId"`
	Name      string          `gorm:"size:128;not null" json:"name"`
	Items     []WatchlistItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"-"`
}

// WatchlistItem is one followed ticker.
type WatchlistItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WatchlistID uint      `gorm:"not null;index" json:"watchlistId"`
	Ticker      string    `gorm:"size:32;not null" json:"ticker"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
}

// PriceAlert は監視銘柄に対する価格アラートです。作成時の価格を
// initial_priceとして保持し、判定の基準にします。
type PriceAlert struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	WatchlistItemID uint      `gorm:"not null;index" json:"watchlistItemId"`
	AlertType       string    `gorm:"size:32;not null" json:"alertType"`
	TargetValue     float64   `gorm:"not null" json:"targetValue"`
	InitialPrice    float64   `json:"initialPrice"`
	Status          string    `gorm:"size:16;not null;default:PENDING" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"-"`
}

// PriceAlert はwatchlist_alertsテーブルに保存されます。
func (PriceAlert) TableName() string { return "watchlist_alerts" }

// ShouldTrigger は現在価格がアラート条件を満たすか判定します。
//
// PRICE_TARGET: 目標が基準価格以上なら上抜け、未満なら下抜けで発火します。
// PERCENT_CHANGE: 基準価格からの変化率が目標（符号付き）を越えたら発火します。
func (a PriceAlert) ShouldTrigger(current float64) bool {
	if current <= 0 {
		return false
	}
	switch a.AlertType {
	case AlertTypePriceTarget:
		if a.TargetValue >= a.InitialPrice {
			return current >= a.TargetValue
		}
		return current <= a.TargetValue
	case AlertTypePercentChange:
		if a.InitialPrice <= 0 {
			return false
		}
		changePct := (current - a.InitialPrice) / a.InitialPrice * 100
		if a.TargetValue >= 0 {
			return changePct >= a.TargetValue
		}
		return changePct <= a.TargetValue
	}
	return false
}
