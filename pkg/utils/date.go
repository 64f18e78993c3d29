package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date layout used across the CSV formats and
// the query parameters.
const DateLayout = "2006-01-02"

// LoadLocation resolves an IANA zone name, falling back to UTC for "".
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", name, err)
	}
	return loc, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses YYYY-MM-DD in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// ParseOptionalDate returns nil for an empty string.
func ParseOptionalDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseDate(value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EndOfDayExclusive returns midnight of the day after t.
func EndOfDayExclusive(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}
