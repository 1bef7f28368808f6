// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"strings"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
)

// ExchangeRates is the part of ExchangeRateService the conversion needs
type ExchangeRates interface {
	GetExchangeList(ctx context.Context) (*entity.ExchangeList, error)
	GetRate(ctx context.Context, code string) (*RateQuote, error)
}

// Conversion is an amount of CZK expressed in another currency
type Conversion struct {
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Units           int             `json:"units"`
	Rate            float64         `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
}

// ConversionService converts CZK amounts using the current bulletin
type ConversionService struct {
	rates  ExchangeRates
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates ExchangeRates, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		rates:  rates,
		logger: log,
	}
}

// Convert returns amountCZK / rate * units rounded to two decimal places. The base currency
// converts one to one.
func (s *ConversionService) Convert(ctx context.Context, amountCZK decimal.Decimal, code string) (*Conversion, error) {
	requestID := middleware.GetRequestID(ctx)
	code = strings.ToUpper(strings.TrimSpace(code))

	s.logger.Info("Converting amount", map[string]interface{}{
		"request_id": requestID,
		"amount":     amountCZK.String(),
		"currency":   code,
	})

	if amountCZK.IsNegative() {
		return nil, apperrors.InvalidRequest("invalid conversion request", apperrors.Violation{
			Field: "amount",
			Rule:  "gte",
			Param: "0",
			Value: amountCZK.String(),
		})
	}

	if code == entity.BaseCurrency {
		list, err := s.rates.GetExchangeList(ctx)
		if err != nil {
			return nil, err
		}
		return &Conversion{
			Date:            list.Date,
			Amount:          amountCZK,
			Currency:        entity.BaseCurrency,
			Units:           1,
			Rate:            1,
			ConvertedAmount: amountCZK.Round(2),
		}, nil
	}

	quote, err := s.rates.GetRate(ctx, code)
	if err != nil {
		s.logger.Error("Failed to get exchange rate", map[string]interface{}{
			"request_id": requestID,
			"currency":   code,
			"error":      err.Error(),
		})
		return nil, err
	}

	converted := amountCZK.
		Div(decimal.NewFromFloat(quote.Rate.Rate)).
		Mul(decimal.NewFromInt(int64(quote.Rate.Amount))).
		Round(2)

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":       requestID,
		"currency":         quote.Rate.Code,
		"amount":           amountCZK.String(),
		"rate":             quote.Rate.Rate,
		"units":            quote.Rate.Amount,
		"converted_amount": converted.String(),
		"rate_date":        quote.Date,
	})

	return &Conversion{
		Date:            quote.Date,
		Amount:          amountCZK,
		Currency:        quote.Rate.Code,
		Units:           quote.Rate.Amount,
		Rate:            quote.Rate.Rate,
		ConvertedAmount: converted,
	}, nil
}
