package bulletin

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/apperrors"
)

// DateLayout is the canonical output format of a bulletin date
const DateLayout = "2006-01-02T15:04:05.000Z"

// datePrefix matches "30 Oct 2025" at the start of the date line; anything after it is ignored
var datePrefix = regexp.MustCompile(`^(\d{1,2} \w+ \d{4})`)

// Month names are accepted abbreviated or in full
var dateLayouts = []string{"2 Jan 2006", "2 January 2006"}

var errNoDateLine = errors.New("bulletin has no date line")

// ParseDate reads the bulletin date from the first line and returns it as midnight UTC in
// DateLayout
func ParseDate(lines []string) (string, error) {
	if len(lines) <= DateLineIndex {
		return "", apperrors.InvalidDateFormat("", errNoDateLine)
	}

	line := strings.TrimSpace(lines[DateLineIndex])
	match := datePrefix.FindStringSubmatch(line)
	if match == nil {
		return "", apperrors.InvalidDateFormat(line, nil)
	}

	var (
		date time.Time
		err  error
	)
	for _, layout := range dateLayouts {
		date, err = time.ParseInLocation(layout, match[1], time.UTC)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", apperrors.InvalidDateFormat(line, err)
	}

	return date.UTC().Format(DateLayout), nil
}
