// Package handler はcurrencyフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/currency/domain/entity"
	"wealth_backend/internal/feature/currency/usecase"
)

// CurrencyUsecase は通貨換算操作のインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CurrencyUsecase interface {
	ListRates(ctx context.Context) ([]entity.CurrencyRate, error)
	SaveRate(ctx context.Context, from, to string, rate float64) (*entity.CurrencyRate, error)
	Convert(ctx context.Context, amount float64, from, to string) (*usecase.Conversion, error)
}

// CurrencyHandler は通貨換算のHTTPリクエストを処理します。
type CurrencyHandler struct {
	uc CurrencyUsecase
}

// NewCurrencyHandler は指定されたusecaseでCurrencyHandlerを生成します。
func NewCurrencyHandler(uc CurrencyUsecase) *CurrencyHandler {
	return &CurrencyHandler{uc: uc}
}

// Convert は金額を指定通貨へ換算します。
//
// エンドポイント例:
// GET /currency/convert?amount=100&from=USD&to=EUR
//
// レート未登録のペアは404です。
func (h *CurrencyHandler) Convert(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "from and to are required"})
		return
	}

	amount, err := strconv.ParseFloat(c.DefaultQuery("amount", "1"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid amount"})
		return
	}

	conv, err := h.uc.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		if errors.Is(err, usecase.ErrRateNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListRates は登録済みの全レートを返します。
func (h *CurrencyHandler) ListRates(c *gin.Context) {
	rates, err := h.uc.ListRates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, rates)
}

type saveRateRequest struct {
	FromCurrency string  `json:"fromCurrency" binding:"required"`
	ToCurrency   string  `json:"toCurrency" binding:"required"`
	Rate         float64 `json:"rate" binding:"required,gt=0"`
}

// SaveRate は通貨ペアのレートを作成または更新します。
func (h *CurrencyHandler) SaveRate(c *gin.Context) {
	var req saveRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	rate, err := h.uc.SaveRate(c.Request.Context(), req.FromCurrency, req.ToCurrency, req.Rate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, rate)
}
