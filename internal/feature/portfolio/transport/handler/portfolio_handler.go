// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/feature/portfolio/usecase"
	jwtmw "wealth_backend/internal/platform/jwt"
)

// PortfolioUsecase はポートフォリオ操作のインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PortfolioUsecase interface {
	List(ctx context.Context, userID uint) ([]entity.Portfolio, error)
	Create(ctx context.Context, userID uint, name string) (*entity.Portfolio, error)
	Delete(ctx context.Context, id, userID uint) error
	ListPositions(ctx context.Context, portfolioID, userID uint) ([]entity.Position, error)
	AddPosition(ctx context.Context, portfolioID, userID uint, in usecase.AddPositionInput) (*entity.Position, error)
	UpdatePosition(ctx context.Context, positionID, userID uint, in usecase.UpdatePositionInput) (*entity.Position, error)
	DeletePosition(ctx context.Context, positionID, userID uint) error
	Summarize(ctx context.Context, portfolioID, userID uint, apiToken string) (*usecase.Summary, error)
	Rebalance(ctx context.Context, portfolioID, userID uint) ([]usecase.Recommendation, error)
	Health(ctx context.Context, portfolioID, userID uint) (*usecase.HealthReport, error)
}

// CredentialSource はユーザーごとのプロバイダAPIキーを解決します。
type CredentialSource interface {
	APIKey(ctx context.Context, userID uint) string
}

// PortfolioHandler はポートフォリオのHTTPリクエストを処理します。
type PortfolioHandler struct {
	uc    PortfolioUsecase
	creds CredentialSource
}

// NewPortfolioHandler は指定されたusecaseと認証情報ソースでPortfolioHandlerを生成します。
func NewPortfolioHandler(uc PortfolioUsecase, creds CredentialSource) *PortfolioHandler {
	return &PortfolioHandler{uc: uc, creds: creds}
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

func (h *PortfolioHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrPortfolioNotFound), errors.Is(err, usecase.ErrPositionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// List はユーザーの全ポートフォリオを返します。
//
// エンドポイント例:
// GET /portfolios
func (h *PortfolioHandler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	ps, err := h.uc.List(c.Request.Context(), uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

type createPortfolioRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create は新しいポートフォリオを作成します。
func (h *PortfolioHandler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req createPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "name is required"})
		return
	}

	p, err := h.uc.Create(c.Request.Context(), uid, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Delete はポートフォリオを削除します。存在しない場合は404です。
func (h *PortfolioHandler) Delete(c *gin.Context) {
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

// ListPositions はポートフォリオのポジション一覧を返します。
func (h *PortfolioHandler) ListPositions(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ps, err := h.uc.ListPositions(c.Request.Context(), id, uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

type addPositionRequest struct {
	Ticker         string  `json:"ticker" binding:"required"`
	Name           string  `json:"name"`
	AssetClass     string  `json:"assetClass"`
	Currency       string  `json:"currency"`
	Quantity       float64 `json:"quantity" binding:"required"`
	EntryPrice     float64 `json:"entryPrice"`
	TargetPct      float64 `json:"targetPercentage"`
	Classification string  `json:"classification"`
}

// AddPosition はポジションを追加します。未知のティッカーは銘柄マスタに登録されます。
func (h *PortfolioHandler) AddPosition(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	pos, err := h.uc.AddPosition(c.Request.Context(), id, uid, usecase.AddPositionInput{
		Ticker:         req.Ticker,
		Name:           req.Name,
		AssetClass:     req.AssetClass,
		Currency:       req.Currency,
		Quantity:       req.Quantity,
		EntryPrice:     req.EntryPrice,
		TargetPct:      req.TargetPct,
		Classification: req.Classification,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, pos)
}

type updatePositionRequest struct {
	Quantity       float64 `json:"quantity"`
	EntryPrice     float64 `json:"entryPrice"`
	TargetPct      float64 `json:"targetPercentage"`
	Classification string  `json:"classification"`
}

// UpdatePosition はポジションの数量・単価・目標比率・分類を更新します。
func (h *PortfolioHandler) UpdatePosition(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	pos, err := h.uc.UpdatePosition(c.Request.Context(), id, uid, usecase.UpdatePositionInput{
		Quantity:       req.Quantity,
		EntryPrice:     req.EntryPrice,
		TargetPct:      req.TargetPct,
		Classification: req.Classification,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// DeletePosition はポジションを削除します。
func (h *PortfolioHandler) DeletePosition(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.uc.DeletePosition(c.Request.Context(), id, uid); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary は最新価格を反映したポートフォリオサマリーを返します。
//
// エンドポイント例:
// GET /portfolios/1/summary
func (h *PortfolioHandler) Summary(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s, err := h.uc.Summarize(c.Request.Context(), id, uid, h.creds.APIKey(c.Request.Context(), uid))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Rebalance は目標比率に対する売買推奨を返します。
func (h *PortfolioHandler) Rebalance(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recs, err := h.uc.Rebalance(c.Request.Context(), id, uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// Health はポートフォリオ健全性レポートを返します。
func (h *PortfolioHandler) Health(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	r, err := h.uc.Health(c.Request.Context(), id, uid)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
