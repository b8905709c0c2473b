// Package usecase はウォッチリストと価格アラートのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	mdentity "wealth_backend/internal/feature/marketdata/domain/entity"
	"wealth_backend/internal/feature/watchlist/domain/entity"
)

// ErrWatchlistNotFound はウォッチリスト（または項目・アラート）が存在しない、
// または呼び出しユーザーの所有でない場合に返されます。
var ErrWatchlistNotFound = errors.New("watchlist not found")

// WatchlistRepository はウォッチリストの永続化レイヤーを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type WatchlistRepository interface {
	FindByUserID(ctx context.Context, userID uint) ([]entity.Watchlist, error)
	Create(ctx context.Context, w *entity.Watchlist) error
	// Delete は配下の項目とアラートごと削除します。所有者が一致しない場合は false を返します。
	Delete(ctx context.Context, id, userID uint) (bool, error)
	// AddItem は所有者が一致しない場合 false を返します。
	AddItem(ctx context.Context, userID uint, item *entity.WatchlistItem) (bool, error)
	DeleteItem(ctx context.Context, itemID, userID uint) (bool, error)
}

// AlertRepository は価格アラートの永続化レイヤーを抽象化します。
type AlertRepository interface {
	// FindByUserID はユーザーの全アラートを返します。
	FindByUserID(ctx context.Context, userID uint) ([]entity.PriceAlert, error)
	// FindPendingByUserID はPENDING状態のアラートを監視銘柄のティッカー付きで返します。
	FindPendingByUserID(ctx context.Context, userID uint) ([]PendingAlert, error)
	// Create は項目の所有者が一致しない場合 false を返します。
	Create(ctx context.Context, userID uint, alert *entity.PriceAlert) (bool, error)
	Delete(ctx context.Context, alertID, userID uint) (bool, error)
	MarkTriggered(ctx context.Context, alertID uint) error
}

// PendingAlert は判定対象のアラートと銘柄ティッカーの組です。
type PendingAlert struct {
	Alert  entity.PriceAlert
	Ticker string
}

// QuoteSource はアラート判定時に最新価格を引くための市場データ面です。
type QuoteSource interface {
	GetQuotes(ctx context.Context, tickers []string, apiToken string) map[string]mdentity.Quote
}

// WatchlistUsecase はウォッチリストのユースケースを定義します。
type WatchlistUsecase struct {
	lists  WatchlistRepository
	alerts AlertRepository
	quotes QuoteSource
}

// NewWatchlistUsecase はWatchlistUsecaseの新しいインスタンスを生成します。
func NewWatchlistUsecase(lists WatchlistRepository, alerts AlertRepository, quotes QuoteSource) *WatchlistUsecase {
	return &WatchlistUsecase{lists: lists, alerts: alerts, quotes: quotes}
}

// List はユーザーの全ウォッチリストを項目付きで返します。
func (u *WatchlistUsecase) List(ctx context.Context, userID uint) ([]entity.Watchlist, error) {
	return u.lists.FindByUserID(ctx, userID)
}

// Create は新しいウォッチリストを作成します。
func (u *WatchlistUsecase) Create(ctx context.Context, userID uint, name string) (*entity.Watchlist, error) {
	w := &entity.Watchlist{UserID: userID, Name: name}
	if err := u.lists.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete はウォッチリストを配下の項目・アラートごと削除します。
func (u *WatchlistUsecase) Delete(ctx context.Context, id, userID uint) error {
	ok, err := u.lists.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWatchlistNotFound
	}
	return nil
}

// AddItem はウォッチリストに銘柄を追加します。
func (u *WatchlistUsecase) AddItem(ctx context.Context, watchlistID, userID uint, ticker string) (*entity.WatchlistItem, error) {
	item := &entity.WatchlistItem{WatchlistID: watchlistID, Ticker: ticker}
	ok, err := u.lists.AddItem(ctx, userID, item)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWatchlistNotFound
	}
	return item, nil
}

// DeleteItem は監視銘柄を削除します。
func (u *WatchlistUsecase) DeleteItem(ctx context.Context, itemID, userID uint) error {
	ok, err := u.lists.DeleteItem(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWatchlistNotFound
	}
	return nil
}

// ListAlerts はユーザーの全アラートを返します。
func (u *WatchlistUsecase) ListAlerts(ctx context.Context, userID uint) ([]entity.PriceAlert, error) {
	return u.alerts.FindByUserID(ctx, userID)
}

// CreateAlert は監視銘柄に価格アラートを作成します。
func (u *WatchlistUsecase) CreateAlert(ctx context.Context, userID uint, alert *entity.PriceAlert) (*entity.PriceAlert, error) {
	alert.Status = entity.AlertStatusPending
	ok, err := u.alerts.Create(ctx, userID, alert)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWatchlistNotFound
	}
	return alert, nil
}

// DeleteAlert はアラートを削除します。
func (u *WatchlistUsecase) DeleteAlert(ctx context.Context, alertID, userID uint) error {
	ok, err := u.alerts.Delete(ctx, alertID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWatchlistNotFound
	}
	return nil
}

// TriggeredAlert は発火したアラートと判定時の価格です。
type TriggeredAlert struct {
	Alert        entity.PriceAlert `json:"alert"`
	Ticker       string            `json:"ticker"`
	CurrentPrice float64           `json:"currentPrice"`
}

// EvaluateAlerts はPENDINGのアラートを最新価格で判定し、条件を満たした
// ものをTRIGGEREDに更新して返します。価格が引けなかった銘柄のアラートは
// PENDINGのまま残ります。
func (u *WatchlistUsecase) EvaluateAlerts(ctx context.Context, userID uint, apiToken string) ([]TriggeredAlert, error) {
	pending, err := u.alerts.FindPendingByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	triggered := []TriggeredAlert{}
	if len(pending) == 0 {
		return triggered, nil
	}

	seen := map[string]struct{}{}
	tickers := make([]string, 0, len(pending))
	for _, p := range pending {
		if _, ok := seen[p.Ticker]; !ok {
			seen[p.Ticker] = struct{}{}
			tickers = append(tickers, p.Ticker)
		}
	}
	quotes := u.quotes.GetQuotes(ctx, tickers, apiToken)

	for _, p := range pending {
		q, ok := quotes[p.Ticker]
		if !ok || !p.Alert.ShouldTrigger(q.Current) {
			continue
		}
		if err := u.alerts.MarkTriggered(ctx, p.Alert.ID); err != nil {
			return nil, err
		}
		p.Alert.Status = entity.AlertStatusTriggered
		triggered = append(triggered, TriggeredAlert{Alert: p.Alert, Ticker: p.Ticker, CurrentPrice: q.Current})
	}
	return triggered, nil
}
