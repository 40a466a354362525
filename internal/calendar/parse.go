package calendar

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateLayout is the storage format of event dates.
const DateLayout = "2006-01-02"

const germanDateLayout = "02.01.2006"

// ErrInvalidDate reports a date string that could not be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// FormatDate renders t in the storage format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Truncate drops the time component of t, keeping its calendar date, in UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the whole number of days from a to b. It works on Unix
// seconds so spans beyond the range of time.Duration stay exact.
func DaysBetween(a, b time.Time) int {
	return int((Truncate(b).Unix() - Truncate(a).Unix()) / secondsPerDay)
}

// AddDays moves t by a possibly fractional number of days.
func AddDays(t time.Time, days float64) time.Time {
	whole := math.Floor(days)
	frac := days - whole
	return t.AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(24*time.Hour)))
}

// Parser turns user input into dates. It accepts YYYY-MM-DD, DD.MM.YYYY and
// English natural language such as "yesterday" or "last friday".
type Parser struct {
	w *when.Parser
}

// NewParser returns a Parser with English and common rules.
func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// Parse resolves input relative to now. Empty input means today.
func (p *Parser) Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Truncate(now), nil
	}
	if t, err := time.Parse(DateLayout, input); err == nil {
		return t, nil
	}
	if t, err := time.Parse(germanDateLayout, input); err == nil {
		return t, nil
	}
	result, err := p.w.Parse(input, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, input, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, input)
	}
	return Truncate(result.Time), nil
}
