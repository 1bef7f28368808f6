// Package bulletin parses the CNB daily exchange-rate bulletin:
//
//	30 Oct 2025 #211
//	Country|Currency|Amount|Code|Rate
//	Australia|dollar|1|AUD|13,790
//	...
//
// Parsing is pure and holds no shared state, so every function here is safe for concurrent use.
package bulletin

import (
	"strings"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
	"github.com/damon-houk/cnb-exchange-rates/internal/domain/entity"
)

const (
	// MinimumLines is the date line, the header line and at least one currency line
	MinimumLines = 3

	// DateLineIndex is the position of the date among non-blank lines
	DateLineIndex = 0

	// RatesStartLineIndex is the first currency line. The bulletin carries no marker for it, so
	// if CNB ever adds a header line the records will misalign (and most likely fail as
	// malformed) rather than be detected here.
	RatesStartLineIndex = 2
)

// Parse turns a raw bulletin into a validated exchange list. Blank lines are ignored. The first
// error from any stage is returned unchanged and no partial result is produced.
func Parse(text string) (*entity.ExchangeList, error) {
	lines := SplitLines(text)

	if len(lines) < MinimumLines {
		return nil, apperrors.TooFewLines(len(lines), MinimumLines)
	}

	date, err := ParseDate(lines)
	if err != nil {
		return nil, err
	}

	rates, err := ParseRates(lines)
	if err != nil {
		return nil, err
	}

	list := &entity.ExchangeList{
		Date:  date,
		Rates: rates,
	}

	if err := list.Validate(); err != nil {
		return nil, err
	}

	return list, nil
}

// SplitLines splits text on newlines and drops lines that are empty after trimming
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
