package anomaly

import (
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

func flatBars(n int, close, vol float64) ([]float64, []float64) {
	closes := make([]float64, n)
	vols := make([]float64, n)
	for i := range closes {
		closes[i] = close
		vols[i] = vol
	}
	return closes, vols
}

func TestDetectShortSeriesEmpty(t *testing.T) {
	closes, vols := flatBars(10, 100, 1000)
	c := NewClassifier(60)
	events := c.Detect(mkBars(closes, vols), DefaultThresholds())
	if len(events) != 0 {
		t.Fatalf("expected no events below window size, got %d", len(events))
	}
}

func TestDetectPriceVolumeSurge(t *testing.T) {
	// flat history, then a +5% close on 5x volume
	closes, vols := flatBars(15, 100, 1000)
	closes[14] = 105
	vols[14] = 5000
	bars := mkBars(closes, vols)

	c := NewClassifier(10)
	events := c.Detect(bars, DefaultThresholds())

	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d: %+v", len(events), events)
	}
	ev := events[0]
	if ev.Kind != models.AnomalyPriceVolume {
		t.Fatalf("expected price_volume, got %s", ev.Kind)
	}
	if ev.Date != bars[14].Date() {
		t.Fatalf("expected date %s, got %s", bars[14].Date(), ev.Date)
	}
	if ev.PriceChangePct != 0.05 {
		t.Fatalf("expected price change 0.05, got %v", ev.PriceChangePct)
	}
}

func TestDetectPriceOnly(t *testing.T) {
	// +5% close on unchanged volume: price move without volume confirmation
	closes, vols := flatBars(15, 100, 1000)
	closes[14] = 105
	bars := mkBars(closes, vols)

	c := NewClassifier(10)
	events := c.Detect(bars, DefaultThresholds())

	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d: %+v", len(events), events)
	}
	if events[0].Kind != models.AnomalyPriceOnly {
		t.Fatalf("expected price_only, got %s", events[0].Kind)
	}
}

func TestDetectRuleOverlapPreserved(t *testing.T) {
	// +0.5% close on 5x volume: flat-price volume surge. The tiny move still
	// exceeds the near-zero rolling band, so the price+volume rule fires too.
	// Both events must be kept; dedup belongs to the persistence layer.
	closes, vols := flatBars(15, 100, 1000)
	closes[14] = 100.5
	vols[14] = 5000
	bars := mkBars(closes, vols)

	c := NewClassifier(10)
	events := c.Detect(bars, DefaultThresholds())

	if len(events) != 2 {
		t.Fatalf("expected two overlapping events, got %d: %+v", len(events), events)
	}
	kinds := map[models.AnomalyKind]bool{}
	for _, ev := range events {
		kinds[ev.Kind] = true
		if ev.Date != bars[14].Date() {
			t.Fatalf("unexpected event date %s", ev.Date)
		}
	}
	if !kinds[models.AnomalyPriceVolume] || !kinds[models.AnomalyVolumeStablePrice] {
		t.Fatalf("expected price_volume and volume_stable_price, got %v", kinds)
	}
}

func TestDetectVolumeOnly(t *testing.T) {
	// noisy price history keeps the price band wide; the final bar moves
	// +1.5% (neither stable nor abnormal) on a 5x volume spike
	n := 70
	closes := make([]float64, n)
	vols := make([]float64, n)
	closes[0] = 100
	vols[0] = 1000
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] * 1.02
		} else {
			closes[i] = closes[i-1] * 0.98
		}
		vols[i] = 1000
	}
	closes[n-1] = closes[n-2] * 1.015
	vols[n-1] = 5000
	bars := mkBars(closes, vols)

	c := NewClassifier(60)
	events := c.Detect(bars, DefaultThresholds())

	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d: %+v", len(events), events)
	}
	if events[0].Kind != models.AnomalyVolumeOnly {
		t.Fatalf("expected volume_only, got %s", events[0].Kind)
	}
}

func TestDetectDeterministic(t *testing.T) {
	closes, vols := flatBars(15, 100, 1000)
	closes[14] = 105
	vols[14] = 5000
	bars := mkBars(closes, vols)

	c := NewClassifier(10)
	a := c.Detect(bars, DefaultThresholds())
	b := c.Detect(bars, DefaultThresholds())
	if len(a) != len(b) {
		t.Fatalf("runs differ in length")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs differ at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}
