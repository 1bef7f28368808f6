// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/damon-houk/cnb-exchange-rates/internal/application/service"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Converter converts CZK amounts
type Converter interface {
	Convert(ctx context.Context, amountCZK decimal.Decimal, code string) (*service.Conversion, error)
}

// ConversionHandler handles HTTP requests for currency conversion
type ConversionHandler struct {
	service Converter
	logger  logger.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(service Converter, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionHandler{
		service: service,
		logger:  log,
	}
}

// Convert handles GET /api/convert?amount=1000&currency=EUR
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	rawAmount := query.Get("amount")
	currency := query.Get("currency")

	h.logger.Info("Handling convert request", map[string]interface{}{
		"request_id": requestID,
		"amount":     rawAmount,
		"currency":   currency,
	})

	if rawAmount == "" {
		sendErrorResponse(w, h.logger, "Missing amount parameter",
			"The 'amount' query parameter is required", http.StatusBadRequest, requestID)
		return
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		h.logger.Warn("Invalid amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     rawAmount,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"Amount must be a decimal number such as 1000 or 99.50", http.StatusBadRequest, requestID)
		return
	}

	if currency == "" {
		sendErrorResponse(w, h.logger, "Missing currency parameter",
			"The 'currency' query parameter is required", http.StatusBadRequest, requestID)
		return
	}

	if !isCurrencyCode(currency) {
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"Currency code should be 3 letters (e.g., EUR, USD, JPY)", http.StatusBadRequest, requestID)
		return
	}

	conversion, err := h.service.Convert(r.Context(), amount, currency)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ConversionResponse{
		Date:            conversion.Date,
		Amount:          conversion.Amount,
		BaseCurrency:    entity.BaseCurrency,
		Currency:        conversion.Currency,
		Units:           conversion.Units,
		Rate:            conversion.Rate,
		ConvertedAmount: conversion.ConvertedAmount,
	}, requestID)
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/convert", h.Convert).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/convert",
		},
	})
}
