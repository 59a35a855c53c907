// internal/safe/safe.go

// Package safe centralizes the coercion rules applied to data coming from
// GitHub: unparsable or missing values degrade to a zero default instead of
// failing the caller.
package safe

import (
	"strconv"
	"strings"
	"time"

	custom_errors "github-portfolio/internal/errors"
)

// ParseInt parses a decimal integer. The error is always a *MalformedDataError.
func ParseInt(field, raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, &custom_errors.MalformedDataError{Field: field, Value: raw}
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, &custom_errors.MalformedDataError{Field: field, Value: raw}
	}
	return v, nil
}

// Int returns the parsed value of raw, or 0.
func Int(raw string) int {
	v, err := ParseInt("", raw)
	if err != nil {
		return 0
	}
	return int(v)
}

// Int64 returns the parsed value of raw, or 0.
func Int64(raw string) int64 {
	v, err := ParseInt("", raw)
	if err != nil {
		return 0
	}
	return v
}

// ParseTime parses an RFC 3339 timestamp. The error is always a *MalformedDataError.
func ParseTime(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &custom_errors.MalformedDataError{Field: field, Value: raw}
	}
	return t, nil
}

// OptionalTime parses an RFC 3339 timestamp into UTC, or returns nil when
// raw is empty or unparsable.
func OptionalTime(raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := ParseTime("", raw)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// NonNegative clamps negative counts to 0.
func NonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sum adds up values, ignoring negative entries.
func Sum(values []int) int {
	total := 0
	for _, v := range values {
		total += NonNegative(v)
	}
	return total
}
