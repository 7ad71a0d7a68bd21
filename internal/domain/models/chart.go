package models

// KDataRow is one candlestick row in the chart payload:
// [date, open, close, low, high, volume, price_change_pct].
type KDataRow [7]interface{}

// ChartData is the full chart payload for one ticker.
type ChartData struct {
	Ticker      string            `json:"ticker"`
	CompanyName string            `json:"company_name"`
	Data        []KDataRow        `json:"data"`
	Annotations []ChartAnnotation `json:"annotations"`

	MarketPhases []Phase `json:"market_phases"`
	VolumePhases []Phase `json:"volume_phases"`

	Zig5  []*float64 `json:"zig5"`
	Zig25 []*float64 `json:"zig25"`
	Zig50 []*float64 `json:"zig50"`

	VolumeZig5  []*float64 `json:"volume_zig5"`
	VolumeZig25 []*float64 `json:"volume_zig25"`
	VolumeZig50 []*float64 `json:"volume_zig50"`

	MA5  []*float64 `json:"ma5"`
	MA25 []*float64 `json:"ma25"`
	MA50 []*float64 `json:"ma50"`

	MA5New  []*float64 `json:"ma5_new"`
	MA20    []*float64 `json:"ma20"`
	MA60New []*float64 `json:"ma60_new"`
}

// BarSnapshotData is the numeric part of a single-day lookup.
type BarSnapshotData struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	ChangePct float64 `json:"change_pct"`
	Amplitude float64 `json:"amplitude"`
}

// BarSnapshot is the single-day lookup payload, with pre-formatted text
// blocks intended as AI workflow input.
type BarSnapshot struct {
	Ticker                  string          `json:"ticker"`
	CompanyName             string          `json:"company_name"`
	Date                    string          `json:"date"`
	VolatilityText          string          `json:"volatility_text"`
	FormattedAnnotationText string          `json:"formatted_annotation_text"`
	Data                    BarSnapshotData `json:"data"`
}

// AnomalyEventDetail is a flagged bar in the structured analysis payload.
type AnomalyEventDetail struct {
	Date           string  `json:"date"`
	PriceChangePct float64 `json:"price_change_pct"`
	Volume         int64   `json:"volume"`
	ClosePrice     float64 `json:"close_price"`
	Type           string  `json:"type"`
}

// AnomalyAnalysis groups detected events by rule.
type AnomalyAnalysis struct {
	PriceVolumeEvents       []AnomalyEventDetail `json:"price_volume_events"`
	VolumeStablePriceEvents []AnomalyEventDetail `json:"volume_stable_price_events"`
	PriceOnlyEvents         []AnomalyEventDetail `json:"price_only_events"`
	VolumeOnlyEvents        []AnomalyEventDetail `json:"volume_only_events"`
}

// ZigPoint is one retained pivot with its calendar date.
type ZigPoint struct {
	Date    string  `json:"date"`
	Value   float64 `json:"value"`
	Index   int     `json:"index"`
	ZigType string  `json:"zig_type"`
}

// ZigAnalysis collects pivots for every computed zig-zag series.
type ZigAnalysis struct {
	Zig5Points        []ZigPoint `json:"zig5_points"`
	Zig25Points       []ZigPoint `json:"zig25_points"`
	Zig50Points       []ZigPoint `json:"zig50_points"`
	VolumeZig5Points  []ZigPoint `json:"volume_zig5_points"`
	VolumeZig25Points []ZigPoint `json:"volume_zig25_points"`
	VolumeZig50Points []ZigPoint `json:"volume_zig50_points"`
}

// AnalysisMeta describes one structured-analysis run.
type AnalysisMeta struct {
	Ticker            string                 `json:"ticker"`
	Period            string                 `json:"period"`
	AnalysisTimestamp string                 `json:"analysis_timestamp"`
	Parameters        map[string]interface{} `json:"parameters"`
}

// AnalysisStatistics aggregates counts over a structured-analysis run.
type AnalysisStatistics struct {
	TotalAnomalies         int `json:"total_anomalies"`
	PriceVolumeCount       int `json:"price_volume_count"`
	VolumeStablePriceCount int `json:"volume_stable_price_count"`
	PriceOnlyCount         int `json:"price_only_count"`
	VolumeOnlyCount        int `json:"volume_only_count"`
	MarketPhasesCount      int `json:"market_phases_count"`
	VolumePhasesCount      int `json:"volume_phases_count"`
	Zig5PointsCount        int `json:"zig5_points_count"`
	Zig25PointsCount       int `json:"zig25_points_count"`
	Zig50PointsCount       int `json:"zig50_points_count"`
	DataPoints             int `json:"data_points"`
}

// AnalysisData is the structured analysis payload: raw detection results
// without chart series, meant for programmatic consumers.
type AnalysisData struct {
	Meta            AnalysisMeta       `json:"meta"`
	AnomalyAnalysis AnomalyAnalysis    `json:"anomaly_analysis"`
	ZigAnalysis     ZigAnalysis        `json:"zig_analysis"`
	MarketPhases    []Phase            `json:"market_phases"`
	VolumePhases    []Phase            `json:"volume_phases"`
	Statistics      AnalysisStatistics `json:"statistics"`
}

// ExportedAnnotation is one row of an annotation export.
type ExportedAnnotation struct {
	CompanyInfo string `json:"company_info"`
	Date        string `json:"date"`
	Text        string `json:"text"`
	Type        string `json:"type"`
}

// AnnotationExport is the export payload for a date window.
type AnnotationExport struct {
	Data   []ExportedAnnotation `json:"data"`
	Count  int                  `json:"count"`
	Period string               `json:"period"`
	Ticker string               `json:"ticker"`
}

// AIRunResult is the outcome of a synchronous AI workflow run.
type AIRunResult struct {
	Data        map[string]interface{} `json:"data"`
	Duration    float64                `json:"duration"`
	InputLength int                    `json:"input_length"`
}
