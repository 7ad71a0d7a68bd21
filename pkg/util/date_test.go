package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeCalendarDate(t *testing.T) {
    got, ok := ParseTime("2024-10-10")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Format(DateLayout) != "2024-10-10" {
        t.Fatalf("unexpected date %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestAlignFromToWeekly(t *testing.T) {
    from := time.Date(2024, 10, 10, 15, 30, 0, 0, time.Local) // a Thursday
    to := time.Date(2024, 10, 12, 9, 0, 0, 0, time.Local)
    af, at := AlignFromTo(from, to, "1wk")
    if af.Weekday() != time.Monday {
        t.Fatalf("expected Monday start, got %v", af.Weekday())
    }
    if at.Hour() != 0 {
        t.Fatalf("expected midnight end, got %v", at)
    }
}
