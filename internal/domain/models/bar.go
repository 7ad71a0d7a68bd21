package models

import "time"

// Bar is one OHLCV sample. Immutable once built by the series cleaner.
type Bar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Date returns the bar's calendar date in local time, YYYY-MM-DD.
func (b Bar) Date() string {
	return time.Unix(b.Timestamp, 0).Format("2006-01-02")
}

// RawSeries holds the parallel arrays as returned by the chart provider.
// Individual samples may be missing (nil), non-trading days included.
type RawSeries struct {
	Timestamps []int64
	Open       []*float64
	High       []*float64
	Low        []*float64
	Close      []*float64
	Volume     []*float64
}

// Len returns the number of raw positions.
func (r *RawSeries) Len() int { return len(r.Timestamps) }
