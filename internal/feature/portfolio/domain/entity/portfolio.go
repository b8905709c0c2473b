// Package entity defines the domain models for the portfolio feature.
package entity

import "time"

// Classification labels used by the allocation rules. Free-form values are
// allowed; only these three carry special meaning in the health checks.
const (
	ClassificationPilares  = "Pilares"
	ClassificationSmallCap = "Micro/Small/Mid Caps"
	ClassificationCash     = "Efectivo"
)

// Portfolio is a named collection of positions owned by one user.
type Portfolio struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"userId"`
	Name      string     `gorm:"size:128;not null" json:"name"`
	Positions []Position `gorm:"constraint:OnDelete:CASCADE" json:"positions,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// Asset は保有可能な銘柄のマスタ行です。最新価格はサマリー取得時に
// 市場データゲートウェイから更新されます。
type Asset struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Ticker       string    `gorm:"size:32;not null;uniqueIndex" json:"ticker"`
	CompanyName  string    `gorm:"size:256" json:"companyName"`
	AssetClass   string    `gorm:"size:64" json:"assetClass"`
	Currency     string    `gorm:"size:8" json:"currency"`
	CurrentPrice float64   `json:"currentPrice"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Position is one holding inside a portfolio.
type Position struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PortfolioID    uint      `gorm:"not null;index" json:"portfolioId"`
	AssetID        uint      `gorm:"not null;index" json:"assetId"`
	Asset          Asset     `json:"asset"`
	Quantity       float64   `gorm:"not null" json:"quantity"`
	EntryPrice     float64   `gorm:"not null" json:"entryPrice"`
	TargetPct      float64   `gorm:"column:target_percentage" json:"targetPercentage"`
	Classification string    `gorm:"column:custom_classification;size:64" json:"classification"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

// CurrentPrice は評価額計算に使う価格を返します。銘柄の最新価格が
// 未取得（0）の場合は取得単価に縮退します。
func (p Position) CurrentPrice() float64 {
	if p.Asset.CurrentPrice > 0 {
		return p.Asset.CurrentPrice
	}
	return p.EntryPrice
}

// MarketValue returns quantity × current price (entry price fallback).
func (p Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice()
}

// CostBasis returns quantity × entry price.
func (p Position) CostBasis() float64 {
	return p.Quantity * p.EntryPrice
}

// IsCash reports whether the position represents held liquidity.
func (p Position) IsCash() bool {
	return p.Classification == ClassificationCash
}
