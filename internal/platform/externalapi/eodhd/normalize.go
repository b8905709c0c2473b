package eodhd

import (
	"fmt"
	"sort"
	"time"

	"wealth_backend/internal/feature/marketdata/domain/entity"
	"wealth_backend/internal/platform/externalapi/eodhd/dto"
)

// このファイルはEODHDのレスポンス形状を内部スキーマへ写像する関数を集めています。
// 欠損フィールドは 0 / 空文字へ正規化し、形状の問題でエラーにはしません。

const defaultSecurityType = "Common Stock"

// mapQuote converts a real-time response into a Quote.
func mapQuote(r dto.RealTimeResponse) entity.Quote {
	return entity.Quote{
		Current:       float64(r.Close),
		Change:        float64(r.Change),
		PercentChange: float64(r.ChangeP),
		High:          float64(r.High),
		Low:           float64(r.Low),
		Open:          float64(r.Open),
		PrevClose:     float64(r.PreviousClose),
		Volume:        int64(r.Volume),
	}
}

// mapCandles converts end-of-day bars into candles sorted by date ascending.
// Bars with an unparseable date are dropped.
func mapCandles(bars []dto.EODBar) []entity.Candle {
	out := make([]entity.Candle, 0, len(bars))
	for _, b := range bars {
		d, err := time.Parse(dateLayout, b.Date)
		if err != nil {
			continue
		}
		out = append(out, entity.Candle{
			Time:      d.Format(dateLayout),
			Timestamp: d.Unix(),
			Open:      float64(b.Open),
			High:      float64(b.High),
			Low:       float64(b.Low),
			Close:     float64(b.Close),
			Volume:    int64(b.Volume),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// mapFundamental flattens the nested fundamentals document.
func mapFundamental(ticker string, r dto.FundamentalsResponse) entity.Fundamental {
	return entity.Fundamental{
		Profile: entity.CompanyProfile{
			Name:                 r.General.Name,
			Ticker:               ticker,
			Exchange:             r.General.Exchange,
			Sector:               r.General.Sector,
			Industry:             r.General.Industry,
			Description:          r.General.Description,
			WebURL:               r.General.WebURL,
			IPODate:              r.General.IPODate,
			MarketCapitalization: float64(r.Highlights.MarketCapitalization),
		},
		Metric: entity.MetricSet{
			PETTM: float64(r.Highlights.PERatio),
			// EODHDは配当利回りを割合（0.0123）で返すため%表記へ変換
			DividendYieldPct: float64(r.Highlights.DividendYield) * 100,
			Week52High:       float64(r.Highlights.Week52High),
			Week52Low:        float64(r.Highlights.Week52Low),
			Beta:             float64(r.Technicals.Beta),
			BookValue:        float64(r.Highlights.BookValue),
			EPSEstimate:      float64(r.Highlights.EarningsShare),
		},
	}
}

// mapSearchResults converts search items; a missing Type becomes "Common Stock".
func mapSearchResults(items []dto.SearchItem) []entity.TickerSearchResult {
	out := make([]entity.TickerSearchResult, 0, len(items))
	for _, it := range items {
		typ := it.Type
		if typ == "" {
			typ = defaultSecurityType
		}
		out = append(out, entity.TickerSearchResult{
			Symbol:        it.Code,
			DisplaySymbol: it.Code + "." + it.Exchange,
			Description:   it.Name,
			Type:          typ,
		})
	}
	return out
}

// mapNews converts news articles. An article without a link gets a synthetic
// identifier unique within the response.
func mapNews(ticker string, items []dto.NewsArticle) []entity.NewsItem {
	out := make([]entity.NewsItem, 0, len(items))
	for i, it := range items {
		id := it.Link
		if id == "" {
			id = fmt.Sprintf("%s-news-%d", ticker, i)
		}
		summary := it.Content
		if summary == "" {
			summary = it.Title
		}
		source := it.Source
		if source == "" {
			source = "News"
		}
		out = append(out, entity.NewsItem{
			ID:       id,
			Headline: it.Title,
			Summary:  summary,
			URL:      it.Link,
			Source:   source,
			Datetime: parseNewsDate(it.Date),
			Image:    it.Image,
		})
	}
	return out
}

// parseNewsDate parses the article timestamp; an unparseable date becomes 0.
func parseNewsDate(s string) int64 {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}

// mapListings converts exchange symbol list entries.
func mapListings(items []dto.ExchangeSymbol) []entity.SymbolListing {
	out := make([]entity.SymbolListing, 0, len(items))
	for _, it := range items {
		out = append(out, entity.SymbolListing{
			Symbol:   it.Code,
			Name:     it.Name,
			Exchange: it.Exchange,
			Type:     it.Type,
		})
	}
	return out
}
