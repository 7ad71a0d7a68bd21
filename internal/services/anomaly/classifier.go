package anomaly

import (
	"math"

	"TrendLens/internal/domain/models"
	"TrendLens/internal/services/rolling"
)

// stablePriceCutoff is the absolute price-change fraction below which a bar
// counts as flat.
const stablePriceCutoff = 0.01

// Thresholds are the caller-tunable std multipliers for the four rules.
type Thresholds struct {
	PriceStdMult      float64
	VolumeStdMult     float64
	PriceOnlyStdMult  float64
	VolumeOnlyStdMult float64
}

// DefaultThresholds returns the standard multipliers.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceStdMult:      1.8,
		VolumeStdMult:     1.8,
		PriceOnlyStdMult:  2.5,
		VolumeOnlyStdMult: 3.0,
	}
}

// Classifier flags bars whose price/volume deviates from rolling baselines.
// Pure and stateless: identical input series and thresholds reproduce
// identical output.
type Classifier struct {
	window int
}

// NewClassifier builds a classifier with the given rolling window size.
func NewClassifier(window int) *Classifier {
	if window <= 0 {
		window = rolling.DefaultWindow
	}
	return &Classifier{window: window}
}

// Detect applies the four rules over the rolling baselines. Series shorter
// than the window yield an empty result, never an error.
//
// The rules are independent predicate evaluations, not an if/elif chain:
// a bar matching both the price+volume rule and the volume-with-stable-price
// rule emits two events. De-duplication is owned by the persistence layer.
func (c *Classifier) Detect(bars []models.Bar, th Thresholds) []models.AnomalyEvent {
	stats := rolling.Compute(bars, c.window)

	type flags struct {
		priceForVolume bool
		priceOnly      bool
		volume         bool
		volumeOnly     bool
		stablePrice    bool
	}
	perBar := make([]flags, len(bars))
	for i, s := range stats {
		if s == nil {
			continue
		}
		absPct := math.Abs(s.PriceChangePct)
		perBar[i] = flags{
			priceForVolume: absPct > s.PriceChangeStd*th.PriceStdMult,
			priceOnly:      absPct > s.PriceChangeStd*th.PriceOnlyStdMult,
			volume:         bars[i].Volume > s.VolumeMean+s.VolumeStd*th.VolumeStdMult,
			volumeOnly:     bars[i].Volume > s.VolumeMean+s.VolumeStd*th.VolumeOnlyStdMult,
			stablePrice:    absPct < stablePriceCutoff,
		}
	}

	events := make([]models.AnomalyEvent, 0)
	emit := func(i int, kind models.AnomalyKind) {
		events = append(events, models.AnomalyEvent{
			Date:           bars[i].Date(),
			Kind:           kind,
			PriceChangePct: round(stats[i].PriceChangePct, 4),
			Volume:         round(bars[i].Volume, 2),
			Close:          round(bars[i].Close, 2),
		})
	}

	for i := range bars {
		if stats[i] == nil {
			continue
		}
		if perBar[i].priceForVolume && perBar[i].volume {
			emit(i, models.AnomalyPriceVolume)
		}
	}
	for i := range bars {
		if stats[i] == nil {
			continue
		}
		if perBar[i].volume && perBar[i].stablePrice {
			emit(i, models.AnomalyVolumeStablePrice)
		}
	}
	for i := range bars {
		if stats[i] == nil {
			continue
		}
		if perBar[i].priceOnly && !perBar[i].volume {
			emit(i, models.AnomalyPriceOnly)
		}
	}
	for i := range bars {
		if stats[i] == nil {
			continue
		}
		if perBar[i].volumeOnly && !perBar[i].priceForVolume && !perBar[i].stablePrice {
			emit(i, models.AnomalyVolumeOnly)
		}
	}
	return events
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
