// Package entity defines the domain models for the preferences feature.
package entity

import "time"

// UserPreference holds per-user dashboard settings, including the market
// data provider API key used by the gateway.
type UserPreference struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"userId"`
	PreferredCurrency string    `gorm:"size:8;not null;default:EUR" json:"preferredCurrency"`
	EODHDAPIKey       string    `gorm:"column:eodhd_api_key;size:128" json:"eodhdApiKey"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"-"`
}
