package server

import (
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// parseOptionalTime accepts RFC3339 or bare dates. Bare dates expand to the
// start or end of the day so a date-only range stays inclusive.
func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse(dateOnlyLayout, trimmed)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	if endOfDay {
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	}
	return &parsed, nil
}

func parseRange(fromRaw, toRaw string) (from, to *time.Time, err error) {
	if from, err = parseOptionalTime(fromRaw, false); err != nil {
		return nil, nil, err
	}
	if to, err = parseOptionalTime(toRaw, true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
