package model

import (
	"strings"
	"time"
)

// Sheet date layouts. Rows carry DD.MM.YYYY; the general ledger strips carry
// the short DD.MM form.
const (
	DateLayout      = "02.01.2006"
	ShortDateLayout = "02.01"
)

// FormatDate renders a time in the full sheet layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ShortDate renders a time in the short DD.MM layout used by the general
// ledger strips.
func ShortDate(t time.Time) string {
	return t.Format(ShortDateLayout)
}

// ParseDate parses a sheet date in DD.MM.YYYY or DD.MM form. The short form
// assumes the current year. Returns the zero time and false when the string
// is not a date (header rows, stray text).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(ShortDateLayout, s); err == nil {
		now := time.Now()
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// DateRange bounds a read-side query. A nil bound means unbounded on that
// side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Unbounded reports whether the range imposes no constraint at all.
func (r DateRange) Unbounded() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether the given sheet date string falls inside the
// range. Unparseable dates are excluded unless the range is unbounded,
// mirroring how the ledger treats semi-structured rows.
func (r DateRange) Contains(dateStr string) bool {
	if r.Unbounded() {
		return true
	}
	t, ok := ParseDate(dateStr)
	if !ok {
		return false
	}
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Period is a named reporting window.
type Period string

// Reporting periods.
const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// RangeForPeriod resolves a named period to a concrete date range, anchored
// at now. Week starts on Monday.
func RangeForPeriod(p Period, now time.Time) DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodToday:
		return DateRange{Start: &today, End: &now}
	case PeriodWeek:
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		start := today.AddDate(0, 0, -(weekday - 1))
		return DateRange{Start: &start, End: &now}
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: &start, End: &now}
	default:
		return DateRange{}
	}
}
