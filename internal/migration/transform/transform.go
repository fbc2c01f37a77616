// Package transform derives normalized values from raw legacy fields.
// All functions are pure; failures surface as errors for the caller's
// unit of work to handle.
package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	e "github.com/farhadk/rms/internal/migration/errors"
)

// StateCancelledMarker is the token in the legacy free-text state column
// that marks a record as cancelled.
const StateCancelledMarker = "ملغی"

// ComposeDate builds a calendar date from split year/month/day columns.
// If any part is absent the date is absent (nil, nil). An invalid
// combination such as month 13 is a hard error, never clamped.
func ComposeDate(year, month, day *int) (*time.Time, error) {
	if year == nil || month == nil || day == nil {
		return nil, nil
	}
	t := time.Date(*year, time.Month(*month), *day, 0, 0, 0, 0, time.UTC)
	if t.Year() != *year || t.Month() != time.Month(*month) || t.Day() != *day {
		return nil, fmt.Errorf("%w: invalid date %04d-%02d-%02d", e.ErrInvalidInput, *year, *month, *day)
	}
	return &t, nil
}

// ActiveFlag derives the active status from the legacy state and
// cancellation-text columns. Any non-blank cancellation text deactivates
// the record, as does the cancellation marker in the state text.
func ActiveFlag(state, cancellationText *string) bool {
	if cancellationText != nil && strings.TrimSpace(*cancellationText) != "" {
		return false
	}
	if state != nil && strings.Contains(*state, StateCancelledMarker) {
		return false
	}
	return true
}

// Amount coerces a legacy free-text amount. Blank or unparseable input is
// absent, not zero.
func Amount(s *string) *float64 {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Number coerces a legacy free-text integer the same way Amount does.
func Number(s *string) *int {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &v
}

// Text flattens an optional legacy string into the type default used by
// non-nullable columns.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Present reports whether an optional legacy string carries a usable value.
func Present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
