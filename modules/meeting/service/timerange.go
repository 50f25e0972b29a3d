package service

import (
	"fmt"
	"strings"
	"time"

	"smart-schedule/core/errors"
	"smart-schedule/core/utils"
)

const rangeSeparator = " to "

func splitRange(s string) (string, string, bool) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), rangeSeparator)
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(from), strings.TrimSpace(to), true
}

// ParseDateRange parses "YYYY-MM-DD to YYYY-MM-DD" into the first and last
// day, both at midnight in loc.
func ParseDateRange(s string, loc *time.Location) (time.Time, time.Time, *errors.AppError) {
	fromStr, toStr, ok := splitRange(s)
	if !ok {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("invalid date range %q: expected 'YYYY-MM-DD to YYYY-MM-DD'", s), nil)
	}
	from, err := time.ParseInLocation(time.DateOnly, fromStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("invalid start date %q", fromStr), err)
	}
	to, err := time.ParseInLocation(time.DateOnly, toStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("invalid end date %q", toStr), err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("invalid date range %q: end date is before start date", s), nil)
	}
	return from, to, nil
}

// ParseTimeRange parses "<ISO timestamp> to <ISO timestamp>". Timestamps
// without an offset are read in loc. start == end is allowed.
func ParseTimeRange(s string, loc *time.Location) (time.Time, time.Time, *errors.AppError) {
	startStr, endStr, ok := splitRange(s)
	if !ok {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("invalid time range %q: expected '<start> to <end>'", s), nil)
	}
	start, err := utils.ParseTimestamp(startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}
	end, err := utils.ParseTimestamp(endStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, err.Error(), err)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("invalid time range %q: start is after end", s), nil)
	}
	return start, end, nil
}
