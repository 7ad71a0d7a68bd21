package usecase

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"TrendLens/internal/domain/models"
)

// syntheticBars builds n daily bars of quiet trading with a price and
// volume spike on the bar at spikeIdx.
func syntheticBars(n, spikeIdx int) []models.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
	bars := make([]models.Bar, 0, n)
	close := 100.0
	for i := 0; i < n; i++ {
		wiggle := math.Sin(float64(i)) * 0.3
		next := close + wiggle
		volume := 1000 + 50*math.Cos(float64(i))
		if i == spikeIdx {
			next = close * 1.18
			volume = 12000
		}
		bars = append(bars, models.Bar{
			Timestamp: start.AddDate(0, 0, i).Unix(),
			Open:      close,
			High:      math.Max(close, next) * 1.01,
			Low:       math.Min(close, next) * 0.99,
			Close:     next,
			Volume:    volume,
		})
		close = next
	}
	return bars
}

func defaultChartRequest(ticker string) models.ChartDataRequest {
	return models.ChartDataRequest{
		Ticker:              ticker,
		Period:              "1d",
		PriceStdMult:        1.8,
		VolumeStdMult:       1.8,
		PriceOnlyStdMult:    2.5,
		VolumeOnlyStdMult:   3.0,
		ShortTermZig:        10,
		MediumTermZig:       10,
		LongTermZig:         25,
		PhaseSource:         "zig50",
		VolumeShortTermZig:  10,
		VolumeMediumTermZig: 10,
		VolumeLongTermZig:   10,
		VolumePhaseSource:   "volume_zig50",
	}
}

func TestGetChartDataPipeline(t *testing.T) {
	bars := syntheticBars(120, 110)
	source := &fakeSource{bars: bars}
	store := newFakeStore()
	uc := NewChartDataUseCase(source, store, fakeNames{}, nil, nopMetrics{}, testLogger(t), ChartDataOptions{Window: 30})

	payload, err := uc.GetChartData(context.Background(), defaultChartRequest("aapl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.Ticker != "AAPL" {
		t.Fatalf("expected normalized ticker AAPL, got %q", payload.Ticker)
	}
	if payload.CompanyName != "Apple Inc." {
		t.Fatalf("unexpected company name %q", payload.CompanyName)
	}
	if len(payload.Data) != len(bars) {
		t.Fatalf("expected %d rows, got %d", len(bars), len(payload.Data))
	}
	for _, ma := range [][]*float64{payload.MA5, payload.MA25, payload.MA50, payload.MA20, payload.MA60New} {
		if len(ma) != len(bars) {
			t.Fatalf("moving average length mismatch: %d vs %d bars", len(ma), len(bars))
		}
	}
	if len(payload.MA5New) != len(payload.MA5) {
		t.Fatalf("ma5_new should mirror ma5")
	}

	spikeDate := bars[110].Date()
	var found bool
	for _, a := range payload.Annotations {
		if a.Date == spikeDate && a.Type == string(models.AnomalyPriceVolume) {
			found = true
			if !strings.Contains(a.Text, "[Price+Volume Up]") {
				t.Fatalf("unexpected annotation text %q", a.Text)
			}
		}
	}
	if !found {
		t.Fatalf("expected price+volume annotation on %s, got %+v", spikeDate, payload.Annotations)
	}

	stored, err := store.ListByTicker(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var persisted bool
	for _, a := range stored {
		if a.Date == spikeDate && strings.HasPrefix(a.ID, "algo-AAPL-") {
			persisted = true
		}
	}
	if !persisted {
		t.Fatalf("expected persisted algorithm annotation, got %+v", stored)
	}
}

func TestGetChartDataManualWinsOverAlgorithm(t *testing.T) {
	bars := syntheticBars(120, 110)
	store := newFakeStore()
	spikeDate := bars[110].Date()
	err := store.Create(context.Background(), &models.Annotation{
		ID:     "manual-1",
		Ticker: "AAPL",
		Date:   spikeDate,
		Text:   "earnings day",
		Type:   models.AnnotationManual,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	uc := NewChartDataUseCase(&fakeSource{bars: bars}, store, fakeNames{}, nil, nopMetrics{}, testLogger(t), ChartDataOptions{Window: 30})
	payload, err := uc.GetChartData(context.Background(), defaultChartRequest("AAPL"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, a := range payload.Annotations {
		if a.Date == spikeDate {
			if a.ID != "manual-1" {
				t.Fatalf("expected manual annotation to win on %s, got %+v", spikeDate, a)
			}
			return
		}
	}
	t.Fatalf("no annotation on %s", spikeDate)
}

func TestGetChartDataInvalidTicker(t *testing.T) {
	uc := NewChartDataUseCase(&fakeSource{}, newFakeStore(), fakeNames{}, nil, nopMetrics{}, testLogger(t), ChartDataOptions{})
	if _, err := uc.GetChartData(context.Background(), defaultChartRequest("   ")); err == nil {
		t.Fatalf("expected error for blank ticker")
	}
}

func TestGetBarSnapshot(t *testing.T) {
	bars := syntheticBars(40, 35)
	uc := NewChartDataUseCase(&fakeSource{bars: bars}, newFakeStore(), fakeNames{}, nil, nopMetrics{}, testLogger(t), ChartDataOptions{Window: 30})

	date := bars[35].Date()
	snap, err := uc.GetBarSnapshot(context.Background(), "AAPL", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Date != date || snap.CompanyName != "Apple Inc." {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if snap.Data.ChangePct < 17 || snap.Data.ChangePct > 19 {
		t.Fatalf("expected ~18%% change, got %v", snap.Data.ChangePct)
	}
	if !strings.Contains(snap.VolatilityText, "Price action on "+date) {
		t.Fatalf("unexpected volatility text %q", snap.VolatilityText)
	}
	if !strings.Contains(snap.FormattedAnnotationText, "Apple Inc. AAPL") {
		t.Fatalf("unexpected formatted text %q", snap.FormattedAnnotationText)
	}

	if _, err := uc.GetBarSnapshot(context.Background(), "AAPL", "1999-01-01"); err == nil {
		t.Fatalf("expected error for missing bar")
	}
}
