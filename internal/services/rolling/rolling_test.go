package rolling

import (
	"math"
	"testing"

	"TrendLens/internal/domain/models"
)

func mkBars(closes, vols []float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i := range closes {
		bars[i] = models.Bar{
			Timestamp: int64(1700000000 + i*86400),
			Open:      closes[i],
			High:      closes[i],
			Low:       closes[i],
			Close:     closes[i],
			Volume:    vols[i],
		}
	}
	return bars
}

func TestComputeUndefinedBeforeWindow(t *testing.T) {
	bars := mkBars(
		[]float64{100, 110, 121, 133.1},
		[]float64{5, 5, 5, 5},
	)
	stats := Compute(bars, 2)

	for i := 0; i < 2; i++ {
		if stats[i] != nil {
			t.Fatalf("index %d: expected undefined stats before window fills", i)
		}
	}
	for i := 2; i < len(bars); i++ {
		if stats[i] == nil {
			t.Fatalf("index %d: expected defined stats", i)
		}
	}
}

func TestComputeWindowValues(t *testing.T) {
	// closes grow 10% each bar, so change pct is constant and its std zero
	bars := mkBars(
		[]float64{100, 110, 121, 133.1},
		[]float64{4, 6, 4, 6},
	)
	stats := Compute(bars, 2)

	s := stats[2]
	if math.Abs(s.PriceChangePct-0.1) > 1e-9 {
		t.Fatalf("price change pct: got %v want 0.1", s.PriceChangePct)
	}
	if s.PriceChangeStd != 0 {
		t.Fatalf("constant pct must have zero std, got %v", s.PriceChangeStd)
	}
	if math.Abs(s.VolumeMean-5) > 1e-9 {
		t.Fatalf("volume mean: got %v want 5", s.VolumeMean)
	}
	if math.Abs(s.VolumeStd-math.Sqrt2) > 1e-9 {
		t.Fatalf("volume std: got %v want sqrt(2)", s.VolumeStd)
	}
}

func TestComputeShortSeries(t *testing.T) {
	bars := mkBars([]float64{100, 101}, []float64{1, 1})
	stats := Compute(bars, 60)
	for i, s := range stats {
		if s != nil {
			t.Fatalf("index %d: expected no stats for short series", i)
		}
	}
}
