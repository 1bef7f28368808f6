package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
)

// BaseCurrency is the currency every bulletin rate is quoted in
const BaseCurrency = "CZK"

// ExchangeList is one bulletin snapshot: its effective date and the rates in source order
type ExchangeList struct {
	Date  string         `json:"date" validate:"isodatetimez"`
	Rates []CurrencyRate `json:"rates" validate:"required,dive"`
}

// NewExchangeList builds a validated exchange list. A nil rates slice is stored as empty.
func NewExchangeList(date string, rates []CurrencyRate) (*ExchangeList, error) {
	if rates == nil {
		rates = []CurrencyRate{}
	}

	list := &ExchangeList{
		Date:  date,
		Rates: rates,
	}

	if err := list.Validate(); err != nil {
		return nil, err
	}

	return list, nil
}

// Validate checks the date format and every rate. One bad rate invalidates the list.
func (l ExchangeList) Validate() error {
	var violations []apperrors.Violation

	for i, r := range l.Rates {
		violations = append(violations, r.finiteViolations(fmt.Sprintf("rates[%d].", i))...)
	}

	if err := validate.Struct(l); err != nil {
		violations = append(violations, toViolations(err)...)
	}

	if len(violations) > 0 {
		return apperrors.Validation("invalid exchange list", violations...)
	}

	return nil
}

// EffectiveDate returns the bulletin date as a time
func (l ExchangeList) EffectiveDate() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, l.Date)
}

// FindRate looks a rate up by currency code, ignoring case
func (l ExchangeList) FindRate(code string) (CurrencyRate, bool) {
	for _, r := range l.Rates {
		if strings.EqualFold(r.Code, code) {
			return r, true
		}
	}
	return CurrencyRate{}, false
}

type rawExchangeList struct {
	Date  *string            `json:"date"`
	Rates *[]json.RawMessage `json:"rates"`
}

// ParseExchangeList decodes and validates an exchange list from JSON. Unknown fields are ignored.
func ParseExchangeList(data []byte) (*ExchangeList, error) {
	var raw rawExchangeList
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Validation("invalid exchange list", decodeViolation("", err))
	}

	var violations []apperrors.Violation
	if raw.Date == nil {
		violations = append(violations, apperrors.Violation{Field: "date", Rule: "required"})
	}
	if raw.Rates == nil {
		violations = append(violations, apperrors.Violation{Field: "rates", Rule: "required"})
	}
	if len(violations) > 0 {
		return nil, apperrors.Validation("invalid exchange list", violations...)
	}

	rates := make([]CurrencyRate, 0, len(*raw.Rates))
	for i, item := range *raw.Rates {
		prefix := fmt.Sprintf("rates[%d].", i)

		var rawRate rawCurrencyRate
		if err := json.Unmarshal(item, &rawRate); err != nil {
			return nil, apperrors.Validation("invalid exchange list", decodeViolation(prefix, err))
		}

		r, err := rawRate.toCurrencyRate(prefix)
		if err != nil {
			return nil, apperrors.Validation("invalid exchange list", apperrors.ViolationsOf(err)...)
		}
		rates = append(rates, r)
	}

	return NewExchangeList(*raw.Date, rates)
}
