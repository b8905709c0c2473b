// Package entity defines the domain models for the currency feature.
package entity

import "time"

// CurrencyRate is one stored conversion rate. Rates are shared across
// users; the pair (from, to) is unique.
type CurrencyRate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FromCurrency string    `gorm:"size:8;not null;uniqueIndex:idx_currency_pair" json:"fromCurrency"`
	ToCurrency   string    `gorm:"size:8;not null;uniqueIndex:idx_currency_pair" json:"toCurrency"`
	Rate         float64   `gorm:"not null" json:"rate"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}
