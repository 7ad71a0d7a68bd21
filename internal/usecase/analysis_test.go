package usecase

import (
	"context"
	"testing"
	"time"

	"TrendLens/internal/domain/models"
)

// trendingBars builds an up / down / up price path ending today, with
// enough amplitude per leg to survive a 50-day moving average and a 25%
// zig-zag threshold.
func trendingBars(n int) []models.Bar {
	start := time.Now().AddDate(0, 0, -n)
	bars := make([]models.Bar, 0, n)
	close := 100.0
	for i := 0; i < n; i++ {
		switch {
		case i < n/2:
			close *= 1.005
		case i < 3*n/4:
			close *= 0.994
		default:
			close *= 1.006
		}
		bars = append(bars, models.Bar{
			Timestamp: start.AddDate(0, 0, i).Unix(),
			Open:      close / 1.002,
			High:      close * 1.01,
			Low:       close * 0.99,
			Close:     close,
			Volume:    1000,
		})
	}
	return bars
}

func TestGetAnalysisData(t *testing.T) {
	bars := syntheticBars(120, 110)
	store := newFakeStore()
	uc := NewChartDataUseCase(&fakeSource{bars: bars}, store, fakeNames{}, nil, nopMetrics{}, testLogger(t), ChartDataOptions{Window: 30})

	data, err := uc.GetAnalysisData(context.Background(), defaultChartRequest("AAPL"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.Meta.Ticker != "AAPL" {
		t.Fatalf("unexpected meta %+v", data.Meta)
	}
	if data.Meta.Parameters["price_std"] != 1.8 {
		t.Fatalf("unexpected parameters %+v", data.Meta.Parameters)
	}
	if len(data.AnomalyAnalysis.PriceVolumeEvents) == 0 {
		t.Fatalf("expected a price+volume event")
	}
	ev := data.AnomalyAnalysis.PriceVolumeEvents[0]
	if ev.Date != bars[110].Date() || ev.Type != "up" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.PriceChangePct < 17 || ev.PriceChangePct > 19 {
		t.Fatalf("expected percentage scale change, got %v", ev.PriceChangePct)
	}
	if data.Statistics.DataPoints != len(bars) {
		t.Fatalf("unexpected data points %d", data.Statistics.DataPoints)
	}
	if data.Statistics.TotalAnomalies == 0 {
		t.Fatalf("expected anomalies counted")
	}

	// analysis is read-only: nothing may be persisted
	stored, _ := store.ListByTicker(context.Background(), "AAPL")
	if len(stored) != 0 {
		t.Fatalf("analysis run must not store annotations, found %+v", stored)
	}
}

func TestTrendAnalyze(t *testing.T) {
	bars := trendingBars(600)
	store := newFakeStore()
	charts := NewChartDataUseCase(&fakeSource{bars: bars}, store, fakeNames{}, nil, nopMetrics{}, testLogger(t), ChartDataOptions{Window: 30})
	uc := NewTrendAnalysisUseCase(charts, store, nopMetrics{}, testLogger(t))

	res, err := uc.Analyze(context.Background(), models.TrendAnalysisRequest{
		Ticker:      "aapl",
		Period:      "all",
		LongTermZig: 25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Ticker != "aapl" {
		t.Fatalf("ticker should echo the request input, got %q", res.Ticker)
	}
	if res.AnalysisPeriod != "full history" {
		t.Fatalf("unexpected analysis period %q", res.AnalysisPeriod)
	}
	if res.ZigThreshold != 25 {
		t.Fatalf("unexpected threshold %v", res.ZigThreshold)
	}
	if len(res.TrendPeriods) == 0 {
		t.Fatalf("expected trend periods")
	}
	if res.CurrentTrend == nil {
		t.Fatalf("expected a current trend")
	}
	if res.Statistics.UptrendPeriods+res.Statistics.DowntrendPeriods != len(res.TrendPeriods) {
		t.Fatalf("statistics do not cover all periods: %+v", res.Statistics)
	}
}
