// Package entity defines the normalized market data models returned by the gateway.
//
// Every value here is a snapshot produced by one fetch. Fields the provider did
// not send are normalized to their zero value ("" / 0 / nil) so that downstream
// arithmetic never sees an undefined field.
package entity

// Quote is the latest price snapshot for one ticker.
type Quote struct {
	Current       float64 `json:"current"`       // 直近の取引価格（close）
	Change        float64 `json:"change"`        // 前日終値との差分
	PercentChange float64 `json:"percentChange"` // 前日終値比（%）
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prevClose"`
	Volume        int64   `json:"volume"`
}

// Candle is one OHLCV point in a daily time series.
type Candle struct {
	Time      string  `json:"time"`      // 表示用の日付文字列（YYYY-MM-DD）
	Timestamp int64   `json:"timestamp"` // epoch秒
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// CompanyProfile holds descriptive data about an issuer.
type CompanyProfile struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	Exchange             string  `json:"exchange"`
	Sector               string  `json:"sector"`
	Industry             string  `json:"industry"`
	Description          string  `json:"description"`
	WebURL               string  `json:"weburl"`
	IPODate              string  `json:"ipo"`
	MarketCapitalization float64 `json:"marketCapitalization"`
}

// MetricSet holds valuation metrics. Each field is independently optional
// upstream; an absent metric is 0.
type MetricSet struct {
	PETTM            float64 `json:"peTTM"`
	DividendYieldPct float64 `json:"dividendYieldIndicatedAnnual"`
	Week52High       float64 `json:"52WeekHigh"`
	Week52Low        float64 `json:"52WeekLow"`
	Beta             float64 `json:"beta"`
	BookValue        float64 `json:"bookValue"`
	EPSEstimate      float64 `json:"epsEstimateCurrentYear"`
}

// Fundamental aggregates profile and metrics for one ticker.
type Fundamental struct {
	Profile CompanyProfile `json:"profile"`
	Metric  MetricSet      `json:"metric"`
}

// NewsItem is one article about a ticker.
type NewsItem struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"` // epoch秒
	Image    string `json:"image,omitempty"`
}

// TickerSearchResult is one match from a free-text symbol search.
type TickerSearchResult struct {
	Symbol        string `json:"symbol"`
	DisplaySymbol string `json:"displaySymbol"` // CODE.EXCHANGE
	Description   string `json:"description"`
	Type          string `json:"type"`
}

// SymbolListing is one entry of an exchange's symbol reference list.
type SymbolListing struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}
