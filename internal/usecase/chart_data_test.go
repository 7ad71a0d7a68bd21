package usecase

import (
	"strings"
	"testing"
	"time"

	"TrendLens/internal/domain/models"
)

func day(s string) int64 {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t.Unix()
}

func TestMergeAnnotationsDedupByID(t *testing.T) {
	a := models.ChartAnnotation{ID: "x", Date: "2024-01-05", Type: models.AnnotationManual}
	merged := mergeAnnotations(
		[]models.ChartAnnotation{a},
		[]models.ChartAnnotation{a},
	)
	if len(merged) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(merged))
	}
}

func TestMergeAnnotationsDatePriority(t *testing.T) {
	algo := models.ChartAnnotation{ID: "a1", Date: "2024-01-05", Type: models.AnnotationAlgorithm}
	manual := models.ChartAnnotation{ID: "m1", Date: "2024-01-05", Type: models.AnnotationManual}
	ai := models.ChartAnnotation{ID: "ai1", Date: "2024-01-05", Type: models.AnnotationAlgorithm, AlgorithmType: models.AlgorithmAIAnalysis}

	merged := mergeAnnotations(
		[]models.ChartAnnotation{algo},
		[]models.ChartAnnotation{manual},
	)
	if len(merged) != 1 || merged[0].ID != "m1" {
		t.Fatalf("expected manual to win over algorithm, got %+v", merged)
	}

	merged = mergeAnnotations(
		[]models.ChartAnnotation{manual, algo},
		[]models.ChartAnnotation{ai},
	)
	if len(merged) != 1 || merged[0].ID != "ai1" {
		t.Fatalf("expected ai_analysis to win, got %+v", merged)
	}
}

func TestMergeAnnotationsSortedByDate(t *testing.T) {
	merged := mergeAnnotations([]models.ChartAnnotation{
		{ID: "b", Date: "2024-03-01", Type: models.AnnotationManual},
		{ID: "a", Date: "2024-01-01", Type: models.AnnotationManual},
		{ID: "c", Date: "2024-02-01", Type: models.AnnotationManual},
	})
	if len(merged) != 3 {
		t.Fatalf("expected 3 annotations, got %d", len(merged))
	}
	for i, want := range []string{"a", "c", "b"} {
		if merged[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, merged[i].ID)
		}
	}
}

func TestBuildKDataChangePct(t *testing.T) {
	bars := []models.Bar{
		{Timestamp: day("2024-01-02"), Open: 10, High: 11, Low: 9, Close: 10, Volume: 100},
		{Timestamp: day("2024-01-03"), Open: 10, High: 12, Low: 10, Close: 11, Volume: 150},
	}
	rows := buildKData(bars)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "2024-01-02" {
		t.Fatalf("unexpected date %v", rows[0][0])
	}
	if rows[0][6].(float64) != 0 {
		t.Fatalf("first row change should be 0, got %v", rows[0][6])
	}
	pct := rows[1][6].(float64)
	if pct < 9.99 || pct > 10.01 {
		t.Fatalf("expected ~10%% change, got %v", pct)
	}
}

func TestAnomalyText(t *testing.T) {
	cases := []struct {
		ev   models.AnomalyEvent
		want string
	}{
		{models.AnomalyEvent{Kind: models.AnomalyPriceVolume, PriceChangePct: 0.0512}, "[Price+Volume Up] change: 5.12%"},
		{models.AnomalyEvent{Kind: models.AnomalyPriceVolume, PriceChangePct: -0.03}, "[Price+Volume Down] change: -3.00%"},
		{models.AnomalyEvent{Kind: models.AnomalyVolumeStablePrice, PriceChangePct: 0}, "[Volume Spike, Price Flat] change: 0.00%"},
		{models.AnomalyEvent{Kind: models.AnomalyPriceOnly, PriceChangePct: -0.041}, "[Price Move] Down -4.10%"},
		{models.AnomalyEvent{Kind: models.AnomalyVolumeOnly}, "[Volume Move]"},
	}
	for _, tc := range cases {
		if got := anomalyText(tc.ev); got != tc.want {
			t.Fatalf("kind %s: expected %q, got %q", tc.ev.Kind, tc.want, got)
		}
	}
}

func TestSelectZig(t *testing.T) {
	v5 := []*float64{nil}
	v25 := []*float64{nil, nil}
	v50 := []*float64{nil, nil, nil}

	if got := selectZig("zig5", v5, v25, v50); len(got) != 1 {
		t.Fatalf("expected zig5")
	}
	if got := selectZig("zig25", v5, v25, v50); len(got) != 2 {
		t.Fatalf("expected zig25")
	}
	if got := selectZig("anything", v5, v25, v50); len(got) != 3 {
		t.Fatalf("expected zig50 fallback")
	}
	if got := selectVolumeZig("volume_zig5", v5, v25, v50); len(got) != 1 {
		t.Fatalf("expected volume_zig5")
	}
}

func TestAlgorithmAnnotationID(t *testing.T) {
	id := algorithmAnnotationID("AAPL", "2024-01-05", "price_volume")
	if !strings.HasPrefix(id, "algo-AAPL-2024-01-05-price_volume-") {
		t.Fatalf("unexpected id %q", id)
	}
	other := algorithmAnnotationID("AAPL", "2024-01-05", "price_volume")
	if id == other {
		t.Fatalf("ids should be unique")
	}
}

func TestChartCacheKeyVariesWithParams(t *testing.T) {
	base := models.ChartDataRequest{Ticker: "AAPL", PriceStdMult: 2}
	k1 := chartCacheKey("AAPL", base)
	k2 := chartCacheKey("AAPL", base)
	if k1 != k2 {
		t.Fatalf("key should be stable")
	}
	base.PriceStdMult = 3
	if chartCacheKey("AAPL", base) == k1 {
		t.Fatalf("key should change with thresholds")
	}
	if chartCacheKey("MSFT", base) == chartCacheKey("AAPL", base) {
		t.Fatalf("key should change with ticker")
	}
}
