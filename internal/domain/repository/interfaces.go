package repository

import (
	"context"
	"errors"
	"time"

	"TrendLens/internal/domain/models"
)

// ErrAnnotationNotFound is returned when an annotation id has no row.
var ErrAnnotationNotFound = errors.New("annotation not found")

// BarSource pulls OHLCV history from an external market-data provider.
type BarSource interface {
	FetchBars(ctx context.Context, symbol string, from, to time.Time, interval Interval) (*models.RawSeries, error)
}

// AnnotationStore persists chart annotations.
type AnnotationStore interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, a *models.Annotation) error
	// GetOrCreateAlgorithm returns the stored annotation for
	// (ticker, date, algorithmType) or inserts a new one. The stored row wins:
	// user edits to algorithm annotation text survive re-analysis.
	GetOrCreateAlgorithm(ctx context.Context, a *models.Annotation) (*models.Annotation, error)
	GetByID(ctx context.Context, id string) (*models.Annotation, error)
	ListByTicker(ctx context.Context, ticker string) ([]models.Annotation, error)
	ListDeleted(ctx context.Context, ticker string) ([]models.Annotation, error)
	ListAll(ctx context.Context) ([]models.Annotation, error)
	UpdateText(ctx context.Context, id, text string) error
	UpdateAIAnalysis(ctx context.Context, id, analysis string) error
	SetFavorite(ctx context.Context, id string, favorite bool) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	Close() error
}

// BarArchive stores pulled bars so analysis can survive provider outages.
type BarArchive interface {
	StoreBars(ctx context.Context, ticker string, interval Interval, bars []models.Bar) error
	GetBars(ctx context.Context, ticker string, interval Interval, from, to time.Time) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// AnnotationPublisher emits annotation events for downstream consumers.
type AnnotationPublisher interface {
	PublishCreated(ctx context.Context, a *models.Annotation) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordFetch(source, symbol string)
	RecordAnomalies(symbol, kind string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
