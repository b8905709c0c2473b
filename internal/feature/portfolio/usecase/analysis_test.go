package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdentity "wealth_backend/internal/feature/marketdata/domain/entity"
	"wealth_backend/internal/feature/portfolio/domain/entity"
)

// fakePortfolioRepo はPortfolioRepositoryのテスト用実装です。
type fakePortfolioRepo struct {
	portfolios map[uint]*entity.Portfolio
}

func (f *fakePortfolioRepo) FindByUserID(_ context.Context, userID uint) ([]entity.Portfolio, error) {
	var out []entity.Portfolio
	for _, p := range f.portfolios {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePortfolioRepo) FindByID(_ context.Context, id, userID uint) (*entity.Portfolio, error) {
	p, ok := f.portfolios[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePortfolioRepo) Create(_ context.Context, p *entity.Portfolio) error {
	p.ID = uint(len(f.portfolios) + 1)
	f.portfolios[p.ID] = p
	return nil
}

func (f *fakePortfolioRepo) Delete(_ context.Context, id, userID uint) (bool, error) {
	p, ok := f.portfolios[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(f.portfolios, id)
	return true, nil
}

// fakeAssetRepo はAssetRepositoryのテスト用実装です。
type fakeAssetRepo struct {
	prices map[uint]float64
}

func (f *fakeAssetRepo) FindOrCreate(_ context.Context, asset *entity.Asset) (*entity.Asset, error) {
	if asset.ID == 0 {
		asset.ID = uint(len(f.prices) + 1)
	}
	return asset, nil
}

func (f *fakeAssetRepo) UpdatePrice(_ context.Context, assetID uint, price float64) error {
	if f.prices == nil {
		f.prices = map[uint]float64{}
	}
	f.prices[assetID] = price
	return nil
}

// fakeQuoteSource はQuoteSourceのテスト用実装です。
type fakeQuoteSource struct {
	quotes map[string]mdentity.Quote
	calls  [][]string
}

func (f *fakeQuoteSource) GetQuotes(_ context.Context, tickers []string, _ string) map[string]mdentity.Quote {
	f.calls = append(f.calls, tickers)
	out := map[string]mdentity.Quote{}
	for _, t := range tickers {
		if q, ok := f.quotes[t]; ok {
			out[t] = q
		}
	}
	return out
}

func position(id, assetID uint, ticker string, qty, entry, current, targetPct float64, class string) entity.Position {
	return entity.Position{
		ID:             id,
		AssetID:        assetID,
		Asset:          entity.Asset{ID: assetID, Ticker: ticker, CurrentPrice: current},
		Quantity:       qty,
		EntryPrice:     entry,
		TargetPct:      targetPct,
		Classification: class,
	}
}

func newAnalysisUsecase(p *entity.Portfolio, quotes map[string]mdentity.Quote) (*PortfolioUsecase, *fakeAssetRepo, *fakeQuoteSource) {
	repo := &fakePortfolioRepo{portfolios: map[uint]*entity.Portfolio{p.ID: p}}
	assets := &fakeAssetRepo{}
	qs := &fakeQuoteSource{quotes: quotes}
	return NewPortfolioUsecase(repo, nil, assets, qs), assets, qs
}

func TestRebalance_Actions(t *testing.T) {
	t.Parallel()

	// 合計1000: AAPL 600 (目標40% → 超過20pt), MSFT 200 (目標30% → 不足10pt),
	// GOOG 200 (目標20% → 乖離0pt)。
	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: []entity.Position{
		position(1, 1, "AAPL", 6, 80, 100, 40, entity.ClassificationPilares),
		position(2, 2, "MSFT", 4, 60, 50, 30, entity.ClassificationPilares),
		position(3, 3, "GOOG", 2, 90, 100, 20, entity.ClassificationPilares),
	}}
	uc, _, _ := newAnalysisUsecase(p, nil)

	recs, err := uc.Rebalance(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	byTicker := map[string]Recommendation{}
	for _, r := range recs {
		byTicker[r.Ticker] = r
	}

	aapl := byTicker["AAPL"]
	assert.Equal(t, ActionSell, aapl.Action)
	assert.InDelta(t, 60, aapl.CurrentPct, 1e-9)
	// 超過 200 / 価格 100 = 2株売り
	assert.InDelta(t, 2, aapl.QuantityToTrade, 1e-9)

	msft := byTicker["MSFT"]
	assert.Equal(t, ActionBuy, msft.Action)
	assert.InDelta(t, 2, msft.QuantityToTrade, 1e-9)

	assert.Equal(t, ActionHold, byTicker["GOOG"].Action)
}

func TestRebalance_BandBoundaryIsHold(t *testing.T) {
	t.Parallel()

	// 合計1000: 現在比率50.5%、目標50% → 乖離0.5pt は許容帯内。
	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: []entity.Position{
		position(1, 1, "AAPL", 5.05, 100, 100, 50, ""),
		position(2, 2, "CASH", 495, 1, 1, 0, entity.ClassificationCash),
	}}
	uc, _, _ := newAnalysisUsecase(p, nil)

	recs, err := uc.Rebalance(context.Background(), 1, 7)
	require.NoError(t, err)
	// 目標比率0の現金ポジションは対象外。
	require.Len(t, recs, 1)
	assert.Equal(t, ActionHold, recs[0].Action)
}

func TestRebalance_UnknownPortfolio(t *testing.T) {
	t.Parallel()
	p := &entity.Portfolio{ID: 1, UserID: 7}
	uc, _, _ := newAnalysisUsecase(p, nil)

	_, err := uc.Rebalance(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrPortfolioNotFound)

	// 他人のポートフォリオも同じエラーになります。
	_, err = uc.Rebalance(context.Background(), 1, 8)
	assert.ErrorIs(t, err, ErrPortfolioNotFound)
}

func TestHealth_AlertsAndWarnings(t *testing.T) {
	t.Parallel()

	// 合計1000: AAPL 400 (40%, Pilares), SMALL 150 (15%, Small Caps),
	// CASH 20 (2%), LOSS 215 (取得250から14%下落), FILL 215 (含み益)。
	// 最大ウェイトはAAPLなので集中リスクはAAPLを指します。
	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: []entity.Position{
		position(1, 1, "AAPL", 4, 80, 100, 0, entity.ClassificationPilares),
		position(2, 2, "SMALL", 15, 9, 10, 0, entity.ClassificationSmallCap),
		position(3, 3, "CASH", 20, 1, 1, 0, entity.ClassificationCash),
		position(4, 4, "LOSS", 5, 50, 43, 0, ""),
		position(5, 5, "FILL", 2, 100, 107.5, 0, ""),
	}}
	uc, _, _ := newAnalysisUsecase(p, nil)

	r, err := uc.Health(context.Background(), 1, 7)
	require.NoError(t, err)

	// 集中リスク: AAPL 40% > 15%。小型株15% > 10%。
	require.Len(t, r.Alerts, 2)
	assert.Contains(t, r.Alerts[0], "AAPL")
	assert.Contains(t, r.Alerts[1], "Small/Mid Caps")

	// 警告: 銘柄数4 < 10、Pilares 40% < 60%、現金2% < 5%。
	assert.Len(t, r.Warnings, 3)

	require.Len(t, r.TopLosers, 1)
	assert.Equal(t, "LOSS", r.TopLosers[0].Ticker)
	assert.InDelta(t, -14, r.TopLosers[0].LossPct, 1e-9)
}

func TestHealth_ConcentrationCountsCash(t *testing.T) {
	t.Parallel()

	// 単一ポジション上限は現金も対象です。CASH 30%が最大ウェイト。
	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: []entity.Position{
		position(1, 1, "CASH", 300, 1, 1, 0, entity.ClassificationCash),
		position(2, 2, "A", 2.5, 100, 100, 0, ""),
		position(3, 3, "B", 2.5, 100, 100, 0, ""),
		position(4, 4, "C", 2, 100, 100, 0, ""),
	}}
	uc, _, _ := newAnalysisUsecase(p, nil)

	r, err := uc.Health(context.Background(), 1, 7)
	require.NoError(t, err)

	require.NotEmpty(t, r.Alerts)
	assert.Contains(t, r.Alerts[0], "CASH")
	assert.Contains(t, r.Alerts[0], "30.0")
}

func TestHealth_TopLosersLimitedToThree(t *testing.T) {
	t.Parallel()

	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: []entity.Position{
		position(1, 1, "A", 1, 100, 90, 0, ""),  // -10%
		position(2, 2, "B", 1, 100, 70, 0, ""),  // -30%
		position(3, 3, "C", 1, 100, 95, 0, ""),  // -5%
		position(4, 4, "D", 1, 100, 80, 0, ""),  // -20%
		position(5, 5, "E", 1, 100, 110, 0, ""), // 含み益は対象外
	}}
	uc, _, _ := newAnalysisUsecase(p, nil)

	r, err := uc.Health(context.Background(), 1, 7)
	require.NoError(t, err)

	require.Len(t, r.TopLosers, 3)
	assert.Equal(t, "B", r.TopLosers[0].Ticker)
	assert.Equal(t, "D", r.TopLosers[1].Ticker)
	assert.Equal(t, "A", r.TopLosers[2].Ticker)
}

func TestHealth_HealthyPortfolio(t *testing.T) {
	t.Parallel()

	// 合計1000: Pilares 720 (7.2%×10銘柄), その他 140 (14%), 現金 140 (14%)。
	// 現金を含むどのポジションも単一15%の上限を超えません。
	positions := []entity.Position{
		position(11, 11, "CASH", 140, 1, 1, 0, entity.ClassificationCash),
	}
	for i := uint(1); i <= 10; i++ {
		positions = append(positions, position(i, i, "P", 1, 60, 72, 0, entity.ClassificationPilares))
	}
	positions = append(positions, position(12, 12, "OTHER", 1.4, 90, 100, 0, ""))

	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: positions}
	uc, _, _ := newAnalysisUsecase(p, nil)

	r, err := uc.Health(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Empty(t, r.Alerts)
	assert.Empty(t, r.Warnings)
	assert.Len(t, r.Goods, 4)
	assert.Empty(t, r.TopLosers)
}

func TestSummarize_RefreshesPricesAndWeights(t *testing.T) {
	t.Parallel()

	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: []entity.Position{
		position(1, 1, "AAPL", 10, 80, 90, 0, entity.ClassificationPilares),
		position(2, 2, "CASH", 100, 1, 1, 0, entity.ClassificationCash),
	}}
	uc, assets, qs := newAnalysisUsecase(p, map[string]mdentity.Quote{
		"AAPL": {Current: 100},
	})

	s, err := uc.Summarize(context.Background(), 1, 7, "token")
	require.NoError(t, err)

	// ゲートウェイの価格100が保存済みの90を上書きして評価されます。
	assert.InDelta(t, 1100, s.TotalValue, 1e-9)
	require.Len(t, s.Positions, 2)
	assert.Equal(t, "AAPL", s.Positions[0].Ticker)
	assert.InDelta(t, 100, s.Positions[0].Price, 1e-9)
	assert.InDelta(t, 1000.0/1100*100, s.Positions[0].WeightPct, 1e-9)
	assert.InDelta(t, 25, s.Positions[0].GainPct, 1e-9)

	// 現金はゲートウェイに問い合わせません。
	require.Len(t, qs.calls, 1)
	assert.Equal(t, []string{"AAPL"}, qs.calls[0])

	// 取得した価格は銘柄マスタに書き戻されます。
	assert.InDelta(t, 100, assets.prices[1], 1e-9)
}

func TestSummarize_EntryPriceFallback(t *testing.T) {
	t.Parallel()

	// 最新価格が未取得（0）の銘柄は取得単価で評価されます。
	p := &entity.Portfolio{ID: 1, UserID: 7, Positions: []entity.Position{
		position(1, 1, "NEW", 5, 20, 0, 0, ""),
	}}
	uc, _, _ := newAnalysisUsecase(p, nil)

	s, err := uc.Summarize(context.Background(), 1, 7, "")
	require.NoError(t, err)

	assert.InDelta(t, 100, s.TotalValue, 1e-9)
	assert.InDelta(t, 20, s.Positions[0].Price, 1e-9)
	assert.InDelta(t, 0, s.Positions[0].GainPct, 1e-9)
}
