package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"wealth_backend/internal/feature/currency/domain/entity"
	"wealth_backend/internal/feature/currency/transport/handler"
	"wealth_backend/internal/feature/currency/usecase"
)

// mockCurrencyUsecase はCurrencyUsecaseインターフェースのモック実装です。
type mockCurrencyUsecase struct {
	ListRatesFunc func(ctx context.Context) ([]entity.CurrencyRate, error)
	SaveRateFunc  func(ctx context.Context, from, to string, rate float64) (*entity.CurrencyRate, error)
	ConvertFunc   func(ctx context.Context, amount float64, from, to string) (*usecase.Conversion, error)
}

func (m *mockCurrencyUsecase) ListRates(ctx context.Context) ([]entity.CurrencyRate, error) {
	return m.ListRatesFunc(ctx)
}
func (m *mockCurrencyUsecase) SaveRate(ctx context.Context, from, to string, rate float64) (*entity.CurrencyRate, error) {
	return m.SaveRateFunc(ctx, from, to, rate)
}
func (m *mockCurrencyUsecase) Convert(ctx context.Context, amount float64, from, to string) (*usecase.Conversion, error) {
	return m.ConvertFunc(ctx, amount, from, to)
}

func newRouter(uc *mockCurrencyUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewCurrencyHandler(uc)
	r := gin.New()
	r.GET("/currency/convert", h.Convert)
	r.GET("/currency/rates", h.ListRates)
	r.PUT("/currency/rates", h.SaveRate)
	return r
}

func TestCurrencyHandler_Convert(t *testing.T) {
	router := newRouter(&mockCurrencyUsecase{
		ConvertFunc: func(ctx context.Context, amount float64, from, to string) (*usecase.Conversion, error) {
			assert.InDelta(t, 100, amount, 1e-9)
			assert.Equal(t, "USD", from)
			assert.Equal(t, "EUR", to)
			return &usecase.Conversion{Amount: amount, From: from, To: to, Rate: 0.9, Converted: 90}, nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/currency/convert?amount=100&from=USD&to=EUR", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"amount":100,"from":"USD","to":"EUR","rate":0.9,"converted":90}`, w.Body.String())
}

func TestCurrencyHandler_Convert_DefaultAmount(t *testing.T) {
	router := newRouter(&mockCurrencyUsecase{
		ConvertFunc: func(ctx context.Context, amount float64, from, to string) (*usecase.Conversion, error) {
			assert.InDelta(t, 1, amount, 1e-9)
			return &usecase.Conversion{Amount: amount, From: from, To: to, Rate: 1, Converted: amount}, nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/currency/convert?from=EUR&to=EUR", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrencyHandler_Convert_MissingParams(t *testing.T) {
	router := newRouter(&mockCurrencyUsecase{
		ConvertFunc: func(ctx context.Context, amount float64, from, to string) (*usecase.Conversion, error) {
			t.Fatal("usecase should not be called without from/to")
			return nil, nil
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/currency/convert?from=USD", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrencyHandler_Convert_UnknownPair(t *testing.T) {
	router := newRouter(&mockCurrencyUsecase{
		ConvertFunc: func(ctx context.Context, amount float64, from, to string) (*usecase.Conversion, error) {
			return nil, usecase.ErrRateNotFound
		},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/currency/convert?from=GBP&to=JPY", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"conversion rate not found"}`, w.Body.String())
}

func TestCurrencyHandler_SaveRate_Validation(t *testing.T) {
	router := newRouter(&mockCurrencyUsecase{
		SaveRateFunc: func(ctx context.Context, from, to string, rate float64) (*entity.CurrencyRate, error) {
			t.Fatal("usecase should not be called for a non-positive rate")
			return nil, nil
		},
	})

	body := bytes.NewBufferString(`{"fromCurrency":"USD","toCurrency":"EUR","rate":0}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/currency/rates", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
