package models

// AnomalyKind identifies which detection rule flagged a bar.
type AnomalyKind string

const (
	AnomalyPriceVolume       AnomalyKind = "price_volume"
	AnomalyVolumeStablePrice AnomalyKind = "volume_stable_price"
	AnomalyPriceOnly         AnomalyKind = "price_only"
	AnomalyVolumeOnly        AnomalyKind = "volume_only"
)

// AnomalyEvent is a flagged bar. Computed fresh per analysis request;
// mirroring into annotation storage happens in the usecase layer.
type AnomalyEvent struct {
	Date           string      `json:"date"`
	Kind           AnomalyKind `json:"kind"`
	PriceChangePct float64     `json:"price_change_pct"`
	Volume         float64     `json:"volume"`
	Close          float64     `json:"close"`
}

// PivotPoint is a retained local extremum from the zig-zag reduction.
type PivotPoint struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
	Date  string  `json:"date,omitempty"`
}

// Direction labels a trend phase.
type Direction string

const (
	DirectionUp   Direction = "Uptrend"
	DirectionDown Direction = "Downtrend"
)

// Phase is the closed interval between two consecutive pivots.
// Consecutive phases share a boundary date.
type Phase struct {
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Direction Direction `json:"phase"`
}

// PeriodAnnotation is an annotation joined into a trend period.
type PeriodAnnotation struct {
	Date string `json:"date"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// TrendPeriod is a Phase enriched with prices, duration and annotations.
type TrendPeriod struct {
	Phase          Direction          `json:"phase"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	DurationDays   int                `json:"duration_days"`
	StartPrice     *float64           `json:"start_price"`
	EndPrice       *float64           `json:"end_price"`
	PriceChangePct *float64           `json:"price_change_pct"`
	Anomalies      []PeriodAnnotation `json:"anomalies"`
}

// CurrentTrend summarizes the most recent (still ongoing) period.
type CurrentTrend struct {
	Phase          Direction `json:"phase"`
	StartDate      string    `json:"start_date"`
	DurationDays   int       `json:"duration_days"`
	CurrentPrice   *float64  `json:"current_price"`
	StartPrice     *float64  `json:"start_price"`
	PriceChangePct *float64  `json:"price_change_pct"`
}

// TrendStatistics aggregates a trend period list.
type TrendStatistics struct {
	TotalUptrendDays   int `json:"total_uptrend_days"`
	TotalDowntrendDays int `json:"total_downtrend_days"`
	UptrendPeriods     int `json:"uptrend_periods"`
	DowntrendPeriods   int `json:"downtrend_periods"`
	TotalAnomalies     int `json:"total_anomalies"`
}

// TrendAnalysis is the full trend-analysis result.
type TrendAnalysis struct {
	Ticker         string          `json:"ticker"`
	AnalysisPeriod string          `json:"analysis_period"`
	ZigThreshold   float64         `json:"zig_threshold_used"`
	CurrentTrend   *CurrentTrend   `json:"current_trend"`
	TrendPeriods   []TrendPeriod   `json:"trend_periods"`
	Statistics     TrendStatistics `json:"statistics"`
}
