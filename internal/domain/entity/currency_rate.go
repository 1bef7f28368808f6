package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
)

// CurrencyRate is one quotation of a foreign currency against CZK.
// Rate is the price of Amount units of the currency.
type CurrencyRate struct {
	Country  string  `json:"country"`
	Currency string  `json:"currency"`
	Amount   int     `json:"amount" validate:"gt=0"`
	Code     string  `json:"code"`
	Rate     float64 `json:"rate" validate:"gt=0"`
}

// NewCurrencyRate builds a validated currency rate
func NewCurrencyRate(country, currency string, amount int, code string, rate float64) (CurrencyRate, error) {
	r := CurrencyRate{
		Country:  country,
		Currency: currency,
		Amount:   amount,
		Code:     code,
		Rate:     rate,
	}

	if err := r.Validate(); err != nil {
		return CurrencyRate{}, err
	}

	return r, nil
}

// Validate ensures amount and rate are positive finite numbers
func (r CurrencyRate) Validate() error {
	violations := r.finiteViolations("")

	if err := validate.Struct(r); err != nil {
		violations = append(violations, toViolations(err)...)
	}

	if len(violations) > 0 {
		return apperrors.Validation("invalid currency rate", violations...)
	}

	return nil
}

// finiteViolations covers NaN and infinities, which the gt rule does not reject on its own
func (r CurrencyRate) finiteViolations(prefix string) []apperrors.Violation {
	if math.IsNaN(r.Rate) || math.IsInf(r.Rate, 0) {
		return []apperrors.Violation{{
			Field: prefix + "rate",
			Rule:  "finite",
			Value: fmt.Sprint(r.Rate),
		}}
	}
	return nil
}

// UnitRate returns the CZK price of a single unit of the currency
func (r CurrencyRate) UnitRate() float64 {
	return r.Rate / float64(r.Amount)
}

// rawCurrencyRate mirrors the JSON shape with pointers so missing fields can be told apart
// from zero values
type rawCurrencyRate struct {
	Country  *string  `json:"country"`
	Currency *string  `json:"currency"`
	Amount   *float64 `json:"amount"`
	Code     *string  `json:"code"`
	Rate     *float64 `json:"rate"`
}

// ParseCurrencyRate decodes and validates a currency rate from JSON. Unknown fields are ignored.
func ParseCurrencyRate(data []byte) (CurrencyRate, error) {
	var raw rawCurrencyRate
	if err := json.Unmarshal(data, &raw); err != nil {
		return CurrencyRate{}, apperrors.Validation("invalid currency rate", decodeViolation("", err))
	}
	return raw.toCurrencyRate("")
}

func (raw rawCurrencyRate) toCurrencyRate(prefix string) (CurrencyRate, error) {
	var violations []apperrors.Violation
	missing := func(field string) {
		violations = append(violations, apperrors.Violation{Field: prefix + field, Rule: "required"})
	}

	if raw.Country == nil {
		missing("country")
	}
	if raw.Currency == nil {
		missing("currency")
	}
	if raw.Amount == nil {
		missing("amount")
	}
	if raw.Code == nil {
		missing("code")
	}
	if raw.Rate == nil {
		missing("rate")
	}
	if raw.Amount != nil {
		switch a := *raw.Amount; {
		case a != math.Trunc(a):
			violations = append(violations, apperrors.Violation{
				Field: prefix + "amount",
				Rule:  "integer",
				Value: fmt.Sprint(a),
			})
		case a >= math.MaxInt || a < math.MinInt:
			violations = append(violations, apperrors.Violation{
				Field: prefix + "amount",
				Rule:  "max",
				Param: fmt.Sprint(math.MaxInt),
				Value: fmt.Sprint(a),
			})
		}
	}

	if len(violations) > 0 {
		return CurrencyRate{}, apperrors.Validation("invalid currency rate", violations...)
	}

	r := CurrencyRate{
		Country:  *raw.Country,
		Currency: *raw.Currency,
		Amount:   int(*raw.Amount),
		Code:     *raw.Code,
		Rate:     *raw.Rate,
	}

	if err := r.Validate(); err != nil {
		return CurrencyRate{}, prefixViolations(err, prefix)
	}

	return r, nil
}

// decodeViolation converts a JSON decoding failure into a violation
func decodeViolation(prefix string, err error) apperrors.Violation {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Violation{
			Field: prefix + typeErr.Field,
			Rule:  "type",
			Param: typeErr.Type.String(),
			Value: typeErr.Value,
		}
	}
	return apperrors.Violation{Field: prefix, Rule: "json", Value: err.Error()}
}

func prefixViolations(err error, prefix string) error {
	if prefix == "" {
		return err
	}
	violations := apperrors.ViolationsOf(err)
	out := make([]apperrors.Violation, len(violations))
	for i, v := range violations {
		v.Field = prefix + v.Field
		out[i] = v
	}
	return apperrors.Validation("invalid currency rate", out...)
}
