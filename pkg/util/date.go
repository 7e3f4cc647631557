package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// DayKey returns the UTC calendar-day key (YYYY-MM-DD) used by once-per-day caches.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// UntilNextUTCDay returns the duration until the next UTC midnight, the
// natural lifetime for once-per-day cache entries.
func UntilNextUTCDay(t time.Time) time.Duration {
	u := t.UTC()
	next := time.Date(u.Year(), u.Month(), u.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(u)
}

// MonthKey returns the UTC period key (YYYY-MM) used by monthly indicator series.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// DateOnly formats a time as YYYY-MM-DD for upstream query windows.
func DateOnly(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
