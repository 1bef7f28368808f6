// Package handler internal/infrastructure/handler/exchange_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/damon-houk/cnb-exchange-rates/internal/application/service"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ExchangeRates is what the exchange handler needs from the application layer
type ExchangeRates interface {
	GetExchangeList(ctx context.Context) (*entity.ExchangeList, error)
	GetRate(ctx context.Context, code string) (*service.RateQuote, error)
}

// ExchangeHandler handles HTTP requests for the exchange list
type ExchangeHandler struct {
	service ExchangeRates
	logger  logger.Logger
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(service ExchangeRates, log logger.Logger) *ExchangeHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeHandler{
		service: service,
		logger:  log,
	}
}

// GetExchangeList returns the current bulletin as an ExchangeList
func (h *ExchangeHandler) GetExchangeList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling exchange list request", map[string]interface{}{
		"request_id": requestID,
	})

	list, err := h.service.GetExchangeList(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, list, requestID)
}

// GetRate returns a single currency from the current bulletin
func (h *ExchangeHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	code := mux.Vars(r)["code"]

	h.logger.Info("Handling rate request", map[string]interface{}{
		"request_id": requestID,
		"code":       code,
	})

	if !isCurrencyCode(code) {
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"Currency code should be 3 letters (e.g., EUR, USD, JPY)", http.StatusBadRequest, requestID)
		return
	}

	quote, err := h.service.GetRate(r.Context(), code)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, RateResponse{
		Date:     quote.Date,
		Country:  quote.Rate.Country,
		Currency: quote.Rate.Currency,
		Amount:   quote.Rate.Amount,
		Code:     quote.Rate.Code,
		Rate:     quote.Rate.Rate,
		UnitRate: quote.Rate.UnitRate(),
	}, requestID)
}

// RegisterRoutes registers the exchange handler routes
func (h *ExchangeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api", h.GetExchangeList).Methods("GET")
	router.HandleFunc("/api/rates/{code}", h.GetRate).Methods("GET")

	h.logger.Info("Exchange routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api",
			"GET /api/rates/{code}",
		},
	})
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
