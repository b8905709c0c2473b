// Package dto defines data transfer objects for the EODHD API responses.
package dto

import (
	"bytes"
	"strconv"
)

// Number is a float64 that tolerates the value shapes EODHD actually sends:
// JSON numbers, numeric strings, "NA" and null. Anything unparseable decodes
// to 0 instead of failing the whole document.
type Number float64

// UnmarshalJSON never returns an error; a malformed field becomes 0.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" || string(b) == "NA" {
		return nil
	}
	if f, err := strconv.ParseFloat(string(b), 64); err == nil {
		*n = Number(f)
	}
	return nil
}

// RealTimeResponse represents the JSON response from the /real-time endpoint.
type RealTimeResponse struct {
	Code          string `json:"code"`
	Timestamp     Number `json:"timestamp"`
	Open          Number `json:"open"`
	High          Number `json:"high"`
	Low           Number `json:"low"`
	Close         Number `json:"close"`
	PreviousClose Number `json:"previousClose"`
	Change        Number `json:"change"`
	ChangeP       Number `json:"change_p"`
	Volume        Number `json:"volume"`
}

// EODBar is one element of the /eod endpoint response.
type EODBar struct {
	Date          string `json:"date"`
	Open          Number `json:"open"`
	High          Number `json:"high"`
	Low           Number `json:"low"`
	Close         Number `json:"close"`
	AdjustedClose Number `json:"adjusted_close"`
	Volume        Number `json:"volume"`
}

// FundamentalsResponse represents the nested /fundamentals document.
// Only the sections the dashboard consumes are declared.
type FundamentalsResponse struct {
	General struct {
		Name        string `json:"Name"`
		Exchange    string `json:"Exchange"`
		Sector      string `json:"Sector"`
		Industry    string `json:"Industry"`
		Description string `json:"Description"`
		WebURL      string `json:"WebURL"`
		IPODate     string `json:"IPODate"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization Number `json:"MarketCapitalization"`
		PERatio              Number `json:"PERatio"`
		DividendYield        Number `json:"DividendYield"`
		Week52High           Number `json:"52WeekHigh"`
		Week52Low            Number `json:"52WeekLow"`
		BookValue            Number `json:"BookValue"`
		EarningsShare        Number `json:"EarningsShare"`
	} `json:"Highlights"`
	Technicals struct {
		Beta Number `json:"Beta"`
	} `json:"Technicals"`
}

// SearchItem is one element of the /search endpoint response.
type SearchItem struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
}

// NewsArticle is one element of the /news endpoint response.
type NewsArticle struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Link    string `json:"link"`
	Source  string `json:"source"`
	Image   string `json:"image"`
}

// ExchangeSymbol is one element of the /exchange-symbol-list response.
type ExchangeSymbol struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Country  string `json:"Country"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Type     string `json:"Type"`
}
