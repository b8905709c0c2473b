// Package usecase はポートフォリオ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"

	mdentity "wealth_backend/internal/feature/marketdata/domain/entity"
	"wealth_backend/internal/feature/portfolio/domain/entity"
)

// PortfolioRepository はポートフォリオの永続化レイヤーを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PortfolioRepository interface {
	FindByUserID(ctx context.Context, userID uint) ([]entity.Portfolio, error)
	// FindByID はポジションと銘柄をロードして返します。
	// 所有者が一致しない場合は (nil, nil) を返します。
	FindByID(ctx context.Context, id, userID uint) (*entity.Portfolio, error)
	Create(ctx context.Context, p *entity.Portfolio) error
	Delete(ctx context.Context, id, userID uint) (bool, error)
}

// PositionRepository はポジションの永続化レイヤーを抽象化します。
type PositionRepository interface {
	// FindByID は所有者が一致しない場合 (nil, nil) を返します。
	FindByID(ctx context.Context, id, userID uint) (*entity.Position, error)
	Create(ctx context.Context, pos *entity.Position) error
	Update(ctx context.Context, pos *entity.Position) error
	Delete(ctx context.Context, id, userID uint) (bool, error)
}

// AssetRepository は銘柄マスタの永続化レイヤーを抽象化します。
type AssetRepository interface {
	FindOrCreate(ctx context.Context, asset *entity.Asset) (*entity.Asset, error)
	UpdatePrice(ctx context.Context, assetID uint, price float64) error
}

// QuoteSource はサマリー計算時に最新価格を引くための市場データ面です。
// 取得できなかった銘柄はマップに含まれません。
type QuoteSource interface {
	GetQuotes(ctx context.Context, tickers []string, apiToken string) map[string]mdentity.Quote
}

// PortfolioUsecase はポートフォリオのユースケースを定義します。
type PortfolioUsecase struct {
	portfolios PortfolioRepository
	positions  PositionRepository
	assets     AssetRepository
	quotes     QuoteSource
}

// NewPortfolioUsecase はPortfolioUsecaseの新しいインスタンスを生成します。
func NewPortfolioUsecase(portfolios PortfolioRepository, positions PositionRepository, assets AssetRepository, quotes QuoteSource) *PortfolioUsecase {
	return &PortfolioUsecase{portfolios: portfolios, positions: positions, assets: assets, quotes: quotes}
}

// List はユーザーの全ポートフォリオを返します。
func (u *PortfolioUsecase) List(ctx context.Context, userID uint) ([]entity.Portfolio, error) {
	return u.portfolios.FindByUserID(ctx, userID)
}

// Create は新しいポートフォリオを作成します。
func (u *PortfolioUsecase) Create(ctx context.Context, userID uint, name string) (*entity.Portfolio, error) {
	p := &entity.Portfolio{UserID: userID, Name: name}
	if err := u.portfolios.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete はポートフォリオを配下のポジションごと削除します。
func (u *PortfolioUsecase) Delete(ctx context.Context, id, userID uint) error {
	ok, err := u.portfolios.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPortfolioNotFound
	}
	return nil
}

// get はユーザー所有のポートフォリオをロードします。
func (u *PortfolioUsecase) get(ctx context.Context, id, userID uint) (*entity.Portfolio, error) {
	p, err := u.portfolios.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPortfolioNotFound
	}
	return p, nil
}

// ListPositions はポートフォリオのポジション一覧を返します。
func (u *PortfolioUsecase) ListPositions(ctx context.Context, portfolioID, userID uint) ([]entity.Position, error) {
	p, err := u.get(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}
	return p.Positions, nil
}

// AddPositionInput はポジション追加リクエストの入力です。
type AddPositionInput struct {
	Ticker         string
	Name           string
	AssetClass     string
	Currency       string
	Quantity       float64
	EntryPrice     float64
	TargetPct      float64
	Classification string
}

// AddPosition は銘柄マスタを必要に応じて作成し、ポジションを追加します。
func (u *PortfolioUsecase) AddPosition(ctx context.Context, portfolioID, userID uint, in AddPositionInput) (*entity.Position, error) {
	if _, err := u.get(ctx, portfolioID, userID); err != nil {
		return nil, err
	}

	asset, err := u.assets.FindOrCreate(ctx, &entity.Asset{
		Ticker:       in.Ticker,
		CompanyName:  in.Name,
		AssetClass:   in.AssetClass,
		Currency:     in.Currency,
		CurrentPrice: in.EntryPrice,
	})
	if err != nil {
		return nil, err
	}

	pos := &entity.Position{
		PortfolioID:    portfolioID,
		AssetID:        asset.ID,
		Asset:          *asset,
		Quantity:       in.Quantity,
		EntryPrice:     in.EntryPrice,
		TargetPct:      in.TargetPct,
		Classification: in.Classification,
	}
	if err := u.positions.Create(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// UpdatePositionInput はポジション更新リクエストの入力です。
type UpdatePositionInput struct {
	Quantity       float64
	EntryPrice     float64
	TargetPct      float64
	Classification string
}

// UpdatePosition はポジションの数量・単価・目標比率・分類を更新します。
func (u *PortfolioUsecase) UpdatePosition(ctx context.Context, positionID, userID uint, in UpdatePositionInput) (*entity.Position, error) {
	pos, err := u.positions.FindByID(ctx, positionID, userID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, ErrPositionNotFound
	}

	pos.Quantity = in.Quantity
	pos.EntryPrice = in.EntryPrice
	pos.TargetPct = in.TargetPct
	pos.Classification = in.Classification
	if err := u.positions.Update(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// DeletePosition はポジションを削除します。
func (u *PortfolioUsecase) DeletePosition(ctx context.Context, positionID, userID uint) error {
	ok, err := u.positions.Delete(ctx, positionID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPositionNotFound
	}
	return nil
}

// refreshPrices はポートフォリオ内の銘柄の最新価格をゲートウェイから引き、
// 銘柄マスタへベストエフォートで書き戻します。現金ポジションは対象外です。
func (u *PortfolioUsecase) refreshPrices(ctx context.Context, p *entity.Portfolio, apiToken string) {
	if u.quotes == nil {
		return
	}

	byTicker := make(map[string]*entity.Position, len(p.Positions))
	tickers := make([]string, 0, len(p.Positions))
	for i := range p.Positions {
		pos := &p.Positions[i]
		if pos.IsCash() {
			continue
		}
		if _, ok := byTicker[pos.Asset.Ticker]; !ok {
			byTicker[pos.Asset.Ticker] = pos
			tickers = append(tickers, pos.Asset.Ticker)
		}
	}
	if len(tickers) == 0 {
		return
	}

	quotes := u.quotes.GetQuotes(ctx, tickers, apiToken)
	for ticker, q := range quotes {
		if q.Current <= 0 {
			continue
		}
		for i := range p.Positions {
			if p.Positions[i].Asset.Ticker == ticker {
				p.Positions[i].Asset.CurrentPrice = q.Current
			}
		}
		if err := u.assets.UpdatePrice(ctx, byTicker[ticker].AssetID, q.Current); err != nil {
			slog.Warn("failed to persist asset price", "ticker", ticker, "error", err)
		}
	}
}
