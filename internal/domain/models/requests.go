package models

// Requests for the chart/annotation HTTP endpoints. Defined in domain for
// consistency and reuse between handlers and usecases.

type ChartDataRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Period string `query:"period" json:"period" default:"1d" validate:"oneof=1d 1wk 1mo"`

	PriceStdMult      float64 `query:"price_std" json:"price_std" default:"1.8" validate:"gt=0"`
	VolumeStdMult     float64 `query:"volume_std" json:"volume_std" default:"1.8" validate:"gt=0"`
	PriceOnlyStdMult  float64 `query:"price_only_std" json:"price_only_std" default:"2.5" validate:"gt=0"`
	VolumeOnlyStdMult float64 `query:"volume_only_std" json:"volume_only_std" default:"3.0" validate:"gt=0"`

	ShortTermZig  float64 `query:"short_term_zig" json:"short_term_zig" default:"10" validate:"gt=0"`
	MediumTermZig float64 `query:"medium_term_zig" json:"medium_term_zig" default:"10" validate:"gt=0"`
	LongTermZig   float64 `query:"long_term_zig" json:"long_term_zig" default:"25" validate:"gt=0"`
	PhaseSource   string  `query:"zig_phase_source" json:"zig_phase_source" default:"zig50" validate:"oneof=zig5 zig25 zig50"`

	VolumeShortTermZig  float64 `query:"volume_short_term_zig" json:"volume_short_term_zig" default:"10" validate:"gt=0"`
	VolumeMediumTermZig float64 `query:"volume_medium_term_zig" json:"volume_medium_term_zig" default:"10" validate:"gt=0"`
	VolumeLongTermZig   float64 `query:"volume_long_term_zig" json:"volume_long_term_zig" default:"10" validate:"gt=0"`
	VolumePhaseSource   string  `query:"volume_zig_phase_source" json:"volume_zig_phase_source" default:"volume_zig50" validate:"oneof=volume_zig5 volume_zig25 volume_zig50"`
}

type TrendAnalysisRequest struct {
	Ticker      string  `query:"ticker" json:"ticker" validate:"required"`
	Period      string  `query:"period" json:"period" default:"all"`
	LongTermZig float64 `query:"long_term_zig" json:"long_term_zig" default:"25" validate:"gt=0"`
}

type CreateAnnotationRequest struct {
	ID            string `json:"id"`
	Ticker        string `json:"ticker" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Text          string `json:"text" validate:"required,max=2000"`
	Type          string `json:"type" default:"manual" validate:"oneof=manual algorithm"`
	AlgorithmType string `json:"algorithm_type"`
}

type ExportAnnotationsRequest struct {
	ChartDataRequest
	StartDate string `query:"start_date" json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"required,datetime=2006-01-02"`
}

type UpdateAnnotationRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type UpdateAIAnalysisRequest struct {
	AIAnalysis string `json:"ai_analysis" validate:"required"`
}

type DifyRunRequest struct {
	Input  string `json:"input" validate:"required"`
	Ticker string `json:"ticker"`
	Date   string `json:"date"`
	Mode   string `json:"mode" default:"pro" validate:"oneof=pro fast"`
}

type DifyAsyncRequest struct {
	AnnotationID string `json:"annotation_id" validate:"required"`
	Input        string `json:"input" validate:"required"`
	Ticker       string `json:"ticker" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Mode         string `json:"mode" default:"pro" validate:"oneof=pro fast"`
}
