package rolling

import (
	"math"

	"TrendLens/internal/domain/models"
)

// DefaultWindow is the trailing window used for anomaly baselines.
const DefaultWindow = 60

// Stats holds the rolling baselines for one bar index. Defined only where a
// full window of preceding bars exists.
type Stats struct {
	PriceChangePct float64
	PriceChangeStd float64
	VolumeMean     float64
	VolumeStd      float64
}

// Compute returns per-index rolling statistics for the bar series: trailing
// sample std of close-to-close change percentage and mean/sample-std of
// volume, each over a window ending at the index inclusive. Indices below the
// window size map to nil; the classifier skips them.
func Compute(bars []models.Bar, window int) []*Stats {
	out := make([]*Stats, len(bars))
	if window <= 1 || len(bars) <= window {
		return out
	}

	// change pct is undefined at index 0 (no previous close)
	pct := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		if prev == 0 {
			pct[i] = 0
			continue
		}
		pct[i] = (bars[i].Close - prev) / prev
	}

	for i := window; i < len(bars); i++ {
		s := &Stats{PriceChangePct: pct[i]}
		s.PriceChangeStd = sampleStd(pct[i-window+1 : i+1])
		vol := volumes(bars[i-window+1 : i+1])
		s.VolumeMean = mean(vol)
		s.VolumeStd = sampleStd(vol)
		out[i] = s
	}
	return out
}

func volumes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd computes the two-pass sample standard deviation (ddof=1).
// Two-pass avoids the catastrophic cancellation of a naive sum-of-squares.
func sampleStd(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
