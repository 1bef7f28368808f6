package handler

import (
	"github.com/shopspring/decimal"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// RateResponse represents the response for the single rate endpoint
type RateResponse struct {
	Date     string  `json:"date"`
	Country  string  `json:"country"`
	Currency string  `json:"currency"`
	Amount   int     `json:"amount"`
	Code     string  `json:"code"`
	Rate     float64 `json:"rate"`
	UnitRate float64 `json:"unit_rate"`
}

// ConversionResponse represents the response for the conversion endpoint. Money values are
// decimal strings.
type ConversionResponse struct {
	Date            string          `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	BaseCurrency    string          `json:"base_currency"`
	Currency        string          `json:"currency"`
	Units           int             `json:"units"`
	Rate            float64         `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
}
