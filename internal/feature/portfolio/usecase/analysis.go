package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"wealth_backend/internal/feature/portfolio/domain/entity"
)

// rebalanceBandPct は±この幅（パーセントポイント）以内のずれをHOLDとみなします。
const rebalanceBandPct = 1.0

// Rebalance actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// PositionSummary は評価済みポジション1件のサマリーです。
type PositionSummary struct {
	PositionID     uint    `json:"positionId"`
	Ticker         string  `json:"ticker"`
	Classification string  `json:"classification"`
	Quantity       float64 `json:"quantity"`
	Price          float64 `json:"price"`
	Value          float64 `json:"value"`
	WeightPct      float64 `json:"weightPct"`
	GainPct        float64 `json:"gainPct"`
}

// Summary はポートフォリオ全体の評価サマリーです。
type Summary struct {
	PortfolioID uint              `json:"portfolioId"`
	TotalValue  float64           `json:"totalValue"`
	Positions   []PositionSummary `json:"positions"`
}

// Summarize は最新価格を反映したポートフォリオサマリーを計算します。
// 価格更新はベストエフォートで、取得できなかった銘柄は保存済み価格
// （未取得なら取得単価）で評価されます。
func (u *PortfolioUsecase) Summarize(ctx context.Context, portfolioID, userID uint, apiToken string) (*Summary, error) {
	p, err := u.get(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}
	u.refreshPrices(ctx, p, apiToken)

	total := totalValue(p.Positions)
	out := &Summary{PortfolioID: p.ID, TotalValue: total, Positions: make([]PositionSummary, 0, len(p.Positions))}
	for _, pos := range p.Positions {
		val := pos.MarketValue()
		s := PositionSummary{
			PositionID:     pos.ID,
			Ticker:         pos.Asset.Ticker,
			Classification: pos.Classification,
			Quantity:       pos.Quantity,
			Price:          pos.CurrentPrice(),
			Value:          val,
		}
		if total > 0 {
			s.WeightPct = val / total * 100
		}
		if cost := pos.CostBasis(); cost > 0 {
			s.GainPct = (val - cost) / cost * 100
		}
		out.Positions = append(out.Positions, s)
	}
	return out, nil
}

// Recommendation はリバランス計算の1銘柄分の結果です。
type Recommendation struct {
	PositionID      uint    `json:"positionId"`
	Ticker          string  `json:"ticker"`
	CurrentPct      float64 `json:"currentPct"`
	TargetPct       float64 `json:"targetPct"`
	DiffPct         float64 `json:"diffPct"`
	Action          string  `json:"action"`
	QuantityToTrade float64 `json:"quantityToTrade"`
}

// Rebalance は目標比率が設定されたポジションの売買推奨を計算します。
// 現在比率と目標比率の差が±1ポイント以内ならHOLDです。
func (u *PortfolioUsecase) Rebalance(ctx context.Context, portfolioID, userID uint) ([]Recommendation, error) {
	p, err := u.get(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	total := totalValue(p.Positions)
	recs := make([]Recommendation, 0, len(p.Positions))
	for _, pos := range p.Positions {
		if pos.TargetPct <= 0 {
			continue
		}

		price := pos.CurrentPrice()
		value := pos.MarketValue()
		currentPct := 0.0
		if total > 0 {
			currentPct = value / total * 100
		}
		diff := currentPct - pos.TargetPct
		targetValue := pos.TargetPct / 100 * total

		action := ActionHold
		if diff < -rebalanceBandPct {
			action = ActionBuy
		} else if diff > rebalanceBandPct {
			action = ActionSell
		}

		qty := 0.0
		if price > 0 {
			qty = math.Abs(value-targetValue) / price
		}

		recs = append(recs, Recommendation{
			PositionID:      pos.ID,
			Ticker:          pos.Asset.Ticker,
			CurrentPct:      currentPct,
			TargetPct:       pos.TargetPct,
			DiffPct:         diff,
			Action:          action,
			QuantityToTrade: qty,
		})
	}
	return recs, nil
}

// Loser は含み損上位の1銘柄です。
type Loser struct {
	Ticker  string  `json:"ticker"`
	LossPct float64 `json:"lossPct"`
}

// HealthReport はポートフォリオ健全性チェックの結果です。
type HealthReport struct {
	Alerts    []string `json:"alerts"`
	Warnings  []string `json:"warnings"`
	Goods     []string `json:"goods"`
	TopLosers []Loser  `json:"topLosers"`
}

// Health checks the portfolio against the allocation rules:
// at least 10 non-cash positions, no single position above 15%,
// Pilares between 60 and 85%, Micro/Small/Mid Caps at most 10%,
// and cash between 5 and 25%. It also lists the three worst
// performing non-cash positions.
func (u *PortfolioUsecase) Health(ctx context.Context, portfolioID, userID uint) (*HealthReport, error) {
	p, err := u.get(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	r := &HealthReport{Alerts: []string{}, Warnings: []string{}, Goods: []string{}, TopLosers: []Loser{}}
	total := totalValue(p.Positions)

	nonCash := 0
	for _, pos := range p.Positions {
		if !pos.IsCash() {
			nonCash++
		}
	}
	if nonCash < 10 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Diversification low: only %d positions (target: >10)", nonCash))
	} else {
		r.Goods = append(r.Goods, fmt.Sprintf("Good diversification: %d positions", nonCash))
	}

	var pilares, smallCap, cash, maxWeight float64
	var maxTicker string
	for _, pos := range p.Positions {
		weight := 0.0
		if total > 0 {
			weight = pos.MarketValue() / total * 100
		}
		if weight > maxWeight {
			maxWeight = weight
			maxTicker = pos.Asset.Ticker
		}
		switch pos.Classification {
		case entity.ClassificationPilares:
			pilares += weight
		case entity.ClassificationSmallCap:
			smallCap += weight
		case entity.ClassificationCash:
			cash += weight
		}
	}

	if maxWeight > 15 {
		r.Alerts = append(r.Alerts, fmt.Sprintf("Concentration risk: %s is %.1f%% of portfolio (>15%%)", maxTicker, maxWeight))
	}

	switch {
	case pilares < 60:
		r.Warnings = append(r.Warnings, fmt.Sprintf("Pilares weight low: %.1f%% (target: 60-85%%)", pilares))
	case pilares > 85:
		r.Warnings = append(r.Warnings, fmt.Sprintf("Pilares weight high: %.1f%%", pilares))
	default:
		r.Goods = append(r.Goods, fmt.Sprintf("Pilares weight healthy: %.1f%%", pilares))
	}

	if smallCap > 10 {
		r.Alerts = append(r.Alerts, fmt.Sprintf("High risk in Small/Mid Caps: %.1f%% (max 10%%)", smallCap))
	} else {
		r.Goods = append(r.Goods, "Small/Mid Cap risk managed")
	}

	switch {
	case cash < 5:
		r.Warnings = append(r.Warnings, fmt.Sprintf("Low liquidity: %.1f%% cash", cash))
	case cash > 25:
		r.Warnings = append(r.Warnings, fmt.Sprintf("High cash drag: %.1f%%", cash))
	default:
		r.Goods = append(r.Goods, fmt.Sprintf("Cash position healthy: %.1f%%", cash))
	}

	// 含み損の大きい順に最大3件。評価には保存済み価格のみを使い、
	// 未取得（価格0）の銘柄は損失扱いにしません。
	for _, pos := range p.Positions {
		if pos.IsCash() || pos.Asset.CurrentPrice <= 0 {
			continue
		}
		cost := pos.CostBasis()
		current := pos.Quantity * pos.Asset.CurrentPrice
		if cost <= 0 || current >= cost {
			continue
		}
		r.TopLosers = append(r.TopLosers, Loser{
			Ticker:  pos.Asset.Ticker,
			LossPct: (current - cost) / cost * 100,
		})
	}
	sort.Slice(r.TopLosers, func(i, j int) bool { return r.TopLosers[i].LossPct < r.TopLosers[j].LossPct })
	if len(r.TopLosers) > 3 {
		r.TopLosers = r.TopLosers[:3]
	}

	return r, nil
}

func totalValue(positions []entity.Position) float64 {
	var sum float64
	for _, pos := range positions {
		sum += pos.MarketValue()
	}
	return sum
}
