package bulletin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
)

const (
	// FieldSeparator splits a currency line into fields
	FieldSeparator = "|"

	// FieldsPerRecord is country, currency, amount, code and rate
	FieldsPerRecord = 5
)

// ParseRates parses every line after the date and header lines into a currency rate, in order.
// Two or fewer lines yield an empty slice; rejecting short input is the caller's job.
func ParseRates(lines []string) ([]entity.CurrencyRate, error) {
	if len(lines) <= RatesStartLineIndex {
		return []entity.CurrencyRate{}, nil
	}

	rates := make([]entity.CurrencyRate, 0, len(lines)-RatesStartLineIndex)
	for _, line := range lines[RatesStartLineIndex:] {
		rate, err := parseRecord(line)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}

	return rates, nil
}

func parseRecord(line string) (entity.CurrencyRate, error) {
	parts := strings.Split(line, FieldSeparator)
	if len(parts) != FieldsPerRecord {
		return entity.CurrencyRate{}, apperrors.MalformedRecord(line, len(parts), FieldsPerRecord)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	country, currency, rawAmount, code, rawRate := parts[0], parts[1], parts[2], parts[3], parts[4]

	amount, err := strconv.Atoi(rawAmount)
	if err != nil {
		return entity.CurrencyRate{}, apperrors.Validation("invalid currency rate", apperrors.Violation{
			Field: "amount",
			Rule:  "integer",
			Value: rawAmount,
		}).WithLine(line)
	}

	rate, err := parseDecimal(rawRate)
	if err != nil {
		return entity.CurrencyRate{}, apperrors.Validation("invalid currency rate", apperrors.Violation{
			Field: "rate",
			Rule:  "number",
			Value: rawRate,
		}).WithLine(line)
	}

	record, err := entity.NewCurrencyRate(country, currency, amount, code, rate)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return entity.CurrencyRate{}, appErr.WithLine(line)
		}
		return entity.CurrencyRate{}, err
	}

	return record, nil
}

// parseDecimal parses a number written with a comma decimal mark ("21,095")
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
