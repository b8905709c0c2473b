// Package handler はpreferencesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth_backend/internal/api"
	"wealth_backend/internal/feature/preferences/domain/entity"
	jwtmw "wealth_backend/internal/platform/jwt"
)

// PreferencesUsecase はユーザー設定操作のインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PreferencesUsecase interface {
	Get(ctx context.Context, userID uint) (*entity.UserPreference, error)
	Save(ctx context.Context, userID uint, preferredCurrency, apiKey string) (*entity.UserPreference, error)
}

// PreferencesHandler はユーザー設定のHTTPリクエストを処理します。
type PreferencesHandler struct {
	uc PreferencesUsecase
}

// NewPreferencesHandler は指定されたusecaseでPreferencesHandlerを生成します。
func NewPreferencesHandler(uc PreferencesUsecase) *PreferencesHandler {
	return &PreferencesHandler{uc: uc}
}

// savePreferencesRequest は設定更新リクエストのボディです。
type savePreferencesRequest struct {
	PreferredCurrency string `json:"preferredCurrency"`
	EODHDAPIKey       string `json:"eodhdApiKey"`
}

func userID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(jwtmw.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Get は現在のユーザー設定を返します。未作成の場合は既定値を返します。
//
// エンドポイント例:
// GET /settings
func (h *PreferencesHandler) Get(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	pref, err := h.uc.Get(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, pref)
}

// Save はユーザー設定を作成または更新します。
//
// エンドポイント例:
// PUT /settings
func (h *PreferencesHandler) Save(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req savePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	pref, err := h.uc.Save(c.Request.Context(), uid, req.PreferredCurrency, req.EODHDAPIKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to save preferences"})
		return
	}

	c.JSON(http.StatusOK, pref)
}
