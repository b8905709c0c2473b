// Package handler はwatchlistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/watchlist/domain/entity"
	"wealth_backend/internal/feature/watchlist/usecase"
	jwtmw "wealth_backend/internal/platform/jwt"
)

// WatchlistUsecase はウォッチリスト操作のインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type WatchlistUsecase interface {
	List(ctx context.Context, userID uint) ([]entity.Watchlist, error)
	Create(ctx context.Context, userID uint, name string) (*entity.Watchlist, error)
	Delete(ctx context.Context, id, userID uint) error
	AddItem(ctx context.Context, watchlistID, userID uint, ticker string) (*entity.WatchlistItem, error)
	DeleteItem(ctx context.Context, itemID, userID uint) error
	ListAlerts(ctx context.Context, userID uint) ([]entity.PriceAlert, error)
	CreateAlert(ctx context.Context, userID uint, alert *entity.PriceAlert) (*entity.PriceAlert, error)
	DeleteAlert(ctx context.Context, alertID, userID uint) error
	EvaluateAlerts(ctx context.Context, userID uint, apiToken string) ([]usecase.TriggeredAlert, error)
}

// CredentialSource はユーザーごとのプロバイダAPIキーを解決します。
type CredentialSource interface {
	APIKey(ctx context.Context, userID uint) string
}

// WatchlistHandler はウォッチリストのHTTPリクエストを処理します。
type WatchlistHandler struct {
	uc    WatchlistUsecase
	creds CredentialSource
}

// NewWatchlistHandler は指定されたusecaseと認証情報ソースでWatchlistHandlerを生成します。
func NewWatchlistHandler(uc WatchlistUsecase, creds CredentialSource) *WatchlistHandler {
	return &WatchlistHandler{uc: uc, creds: creds}
}

func userID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(jwtmw.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func (h *WatchlistHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrWatchlistNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
}

// List はユーザーの全ウォッチリストを項目付きで返します。
func (h *WatchlistHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	ws, err := h.uc.List(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

type createWatchlistRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create は新しいウォッチリストを作成します。
func (h *WatchlistHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req createWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "name is required"})
		return
	}

	w, err := h.uc.Create(c.Request.Context(), uid, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// Delete はウォッチリストを削除します。
func (h *WatchlistHandler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), id, uid); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addItemRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

// AddItem はウォッチリストに銘柄を追加します。
func (h *WatchlistHandler) AddItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "ticker is required"})
		return
	}

	item, err := h.uc.AddItem(c.Request.Context(), id, uid, req.Ticker)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// DeleteItem は監視銘柄を削除します。
func (h *WatchlistHandler) DeleteItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.DeleteItem(c.Request.Context(), id, uid); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAlerts はユーザーの全アラートを返します。
func (h *WatchlistHandler) ListAlerts(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	as, err := h.uc.ListAlerts(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

type createAlertRequest struct {
	WatchlistItemID uint    `json:"watchlistItemId" binding:"required"`
	AlertType       string  `json:"alertType" binding:"required,oneof=PRICE_TARGET PERCENT_CHANGE"`
	TargetValue     float64 `json:"targetValue" binding:"required"`
	InitialPrice    float64 `json:"initialPrice"`
}

// CreateAlert は監視銘柄に価格アラートを作成します。
func (h *WatchlistHandler) CreateAlert(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	alert, err := h.uc.CreateAlert(c.Request.Context(), uid, &entity.PriceAlert{
		WatchlistItemID: req.WatchlistItemID,
		AlertType:       req.AlertType,
		TargetValue:     req.TargetValue,
		InitialPrice:    req.InitialPrice,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// DeleteAlert はアラートを削除します。
func (h *WatchlistHandler) DeleteAlert(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.DeleteAlert(c.Request.Context(), id, uid); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Triggered はPENDINGのアラートを最新価格で判定し、発火したものを返します。
//
// エンドポイント例:
// GET /alerts/triggered
func (h *WatchlistHandler) Triggered(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	ts, err := h.uc.EvaluateAlerts(c.Request.Context(), uid, h.creds.APIKey(c.Request.Context(), uid))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}
