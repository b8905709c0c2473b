// Package eodhd provides a client for the EODHD market data API.
package eodhd

import (
	"os"
	"time"
)

// DefaultBaseURL is the public EODHD API endpoint.
const DefaultBaseURL = "https://eodhd.com/api"

// Config holds configuration for the EODHD API client. The API token itself
// is per-user and passed on every call, so it is deliberately not part of
// the client configuration.
type Config struct {
	BaseURL string        // Base URL for the API
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads EODHD configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("EODHD_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		BaseURL: base,
		Timeout: 10 * time.Second,
	}
}
