package series

import (
	"errors"

	"TrendLens/internal/domain/models"
)

// ErrEmptySeries is returned when no usable bars remain after cleaning.
// Callers should treat it as "insufficient data", not a crash.
var ErrEmptySeries = errors.New("series: no usable bars after cleaning")

// Clean aligns the provider's parallel arrays into an ordered bar sequence.
// A position missing any field is dropped entirely, no interpolation.
func Clean(raw *models.RawSeries) ([]models.Bar, error) {
	if raw == nil || raw.Len() == 0 {
		return nil, ErrEmptySeries
	}

	n := raw.Len()
	out := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		if i >= len(raw.Open) || i >= len(raw.High) || i >= len(raw.Low) ||
			i >= len(raw.Close) || i >= len(raw.Volume) {
			break
		}
		if raw.Open[i] == nil || raw.High[i] == nil || raw.Low[i] == nil ||
			raw.Close[i] == nil || raw.Volume[i] == nil {
			continue
		}
		out = append(out, models.Bar{
			Timestamp: raw.Timestamps[i],
			Open:      *raw.Open[i],
			High:      *raw.High[i],
			Low:       *raw.Low[i],
			Close:     *raw.Close[i],
			Volume:    *raw.Volume[i],
		})
	}
	if len(out) == 0 {
		return nil, ErrEmptySeries
	}
	return out, nil
}

// Closes extracts the close column.
func Closes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume column.
func Volumes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// Timestamps extracts the timestamp column.
func Timestamps(bars []models.Bar) []int64 {
	out := make([]int64, len(bars))
	for i, b := range bars {
		out[i] = b.Timestamp
	}
	return out
}
