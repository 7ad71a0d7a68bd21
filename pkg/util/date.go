package util

import (
    "strconv"
    "time"
)

// DateLayout is the wire format for calendar dates in API payloads.
const DateLayout = "2006-01-02"

// ParseTime tries RFC3339, a plain calendar date, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
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

// Midnight truncates a time to the start of its local calendar day.
func Midnight(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AlignFromTo rounds the time range to calendar boundaries for the interval.
func AlignFromTo(from, to time.Time, interval string) (time.Time, time.Time) {
    switch interval {
    case "1wk":
        from = Midnight(from)
        for from.Weekday() != time.Monday {
            from = from.AddDate(0, 0, -1)
        }
        to = Midnight(to)
    case "1mo":
        fy, fm, _ := from.Date()
        from = time.Date(fy, fm, 1, 0, 0, 0, 0, from.Location())
        to = Midnight(to)
    default:
        from = Midnight(from)
        to = Midnight(to)
    }
    return from, to
}
