package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a calendar day.
const DateLayout = "2006-01-02"

// TruncateDay returns midnight UTC of the calendar day t falls on in UTC.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts either a plain "2006-01-02" day or an RFC 3339 timestamp,
// which is normalized to its UTC day.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %w: empty value", ErrInvalidArgument, ErrInvalidDate)
	}

	if day, err := time.Parse(DateLayout, value); err == nil {
		return day, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return TruncateDay(ts), nil
	}

	return time.Time{}, fmt.Errorf("%w: %w: %q", ErrInvalidArgument, ErrInvalidDate, value)
}

func FormatDay(t time.Time) string {
	return TruncateDay(t).Format(DateLayout)
}

// DaysBetween lists every day from..to inclusive. Both ends are truncated first.
func DaysBetween(from, to time.Time) []time.Time {
	from, to = TruncateDay(from), TruncateDay(to)
	if from.After(to) {
		return nil
	}

	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
