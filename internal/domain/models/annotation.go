package models

import "time"

// Annotation types.
const (
	AnnotationManual    = "manual"
	AnnotationAlgorithm = "algorithm"

	// AlgorithmAIAnalysis marks an annotation enriched by an AI run. It
	// outranks plain algorithm annotations on the same date.
	AlgorithmAIAnalysis = "ai_analysis"
)

// Annotation is a stored chart annotation, user- or algorithm-generated.
type Annotation struct {
	ID              string     `db:"annotation_id" json:"id"`
	Ticker          string     `db:"ticker" json:"ticker"`
	Date            string     `db:"date" json:"date"`
	Text            string     `db:"text" json:"text"`
	Type            string     `db:"annotation_type" json:"type"`
	AlgorithmType   string     `db:"algorithm_type" json:"algorithm_type,omitempty"`
	AlgorithmParams string     `db:"algorithm_params" json:"algorithm_params,omitempty"`
	OriginalText    string     `db:"original_text" json:"-"`
	AIAnalysis      string     `db:"ai_analysis" json:"ai_analysis,omitempty"`
	IsFavorite      bool       `db:"is_favorite" json:"is_favorite"`
	IsDeleted       bool       `db:"is_deleted" json:"-"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// DisplayType is the type exposed to the frontend: the algorithm rule name
// for algorithm annotations, the annotation type otherwise.
func (a *Annotation) DisplayType() string {
	if a.Type == AnnotationAlgorithm && a.AlgorithmType != "" {
		return a.AlgorithmType
	}
	return a.Type
}

// ChartAnnotation is the annotation shape embedded in chart payloads.
type ChartAnnotation struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Text          string `json:"text"`
	Type          string `json:"type"`
	AlgorithmType string `json:"algorithm_type,omitempty"`
	IsFavorite    bool   `json:"is_favorite"`
}
