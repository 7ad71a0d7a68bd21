package trend

import (
	"testing"
	"time"

	"TrendLens/internal/domain/models"
)

// daily bars with close = base + day offset
func mkDailyBars(from string, n int, base float64) []models.Bar {
	start := parseDate(from)
	bars := make([]models.Bar, n)
	for i := 0; i < n; i++ {
		bars[i] = models.Bar{
			Timestamp: start.AddDate(0, 0, i).Unix(),
			Close:     base + float64(i),
			Volume:    1000,
		}
	}
	return bars
}

func TestBuildTrendPeriodsEnrichment(t *testing.T) {
	bars := mkDailyBars("2024-01-01", 31, 100)
	phases := []models.Phase{
		{StartDate: "2024-01-01", EndDate: "2024-01-11", Direction: models.DirectionUp},
		{StartDate: "2024-01-11", EndDate: "2024-01-21", Direction: models.DirectionDown},
	}
	annotations := []models.PeriodAnnotation{
		{Date: "2024-01-05", Text: "volume spike", Type: "volume_only"},
		{Date: "2024-01-15", Text: "note", Type: "manual"},
	}
	now := parseDate("2024-01-25")

	periods, current, stats := BuildTrendPeriods(phases, bars, annotations, now)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}

	p := periods[0]
	if p.DurationDays != 10 {
		t.Fatalf("expected duration 10, got %d", p.DurationDays)
	}
	if p.StartPrice == nil || *p.StartPrice != 100 {
		t.Fatalf("expected start price 100, got %v", p.StartPrice)
	}
	if p.EndPrice == nil || *p.EndPrice != 110 {
		t.Fatalf("expected end price 110, got %v", p.EndPrice)
	}
	if p.PriceChangePct == nil || *p.PriceChangePct != 10 {
		t.Fatalf("expected +10%%, got %v", p.PriceChangePct)
	}
	if len(p.Anomalies) != 1 || p.Anomalies[0].Type != "volume_only" {
		t.Fatalf("expected the volume anomaly joined, got %+v", p.Anomalies)
	}

	if current == nil || current.Phase != models.DirectionDown {
		t.Fatalf("expected downtrend current trend, got %+v", current)
	}
	if stats.UptrendPeriods != 1 || stats.DowntrendPeriods != 1 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
	if stats.TotalAnomalies != 2 {
		t.Fatalf("expected 2 joined annotations, got %d", stats.TotalAnomalies)
	}
}

func TestBuildTrendPeriodsTrailingGapClosure(t *testing.T) {
	bars := mkDailyBars("2024-01-01", 61, 100) // last bar 2024-03-01, close 160
	phases := []models.Phase{
		{StartDate: "2024-01-05", EndDate: "2024-01-20", Direction: models.DirectionUp},
	}
	annotations := []models.PeriodAnnotation{
		{Date: "2024-02-15", Text: "late spike", Type: "price_only"},
	}
	now := parseDate("2024-03-05") // 45 days after the phase end

	periods, current, _ := BuildTrendPeriods(phases, bars, annotations, now)
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	p := periods[0]
	if p.EndDate != "2024-03-05" {
		t.Fatalf("expected end extended to today, got %s", p.EndDate)
	}
	if p.DurationDays != 60 {
		t.Fatalf("expected widened duration 60, got %d", p.DurationDays)
	}
	if p.EndPrice == nil || *p.EndPrice != 160 {
		t.Fatalf("expected latest close 160, got %v", p.EndPrice)
	}
	want := round2((160.0 - 104.0) / 104.0 * 100)
	if p.PriceChangePct == nil || *p.PriceChangePct != want {
		t.Fatalf("expected recomputed pct %v, got %v", want, p.PriceChangePct)
	}
	if len(p.Anomalies) != 1 {
		t.Fatalf("expected anomalies re-collected over widened range, got %+v", p.Anomalies)
	}
	if current == nil || current.DurationDays != 60 {
		t.Fatalf("expected ongoing trend duration 60, got %+v", current)
	}
}

func TestBuildTrendPeriodsNoTrailingClosureWithinGap(t *testing.T) {
	bars := mkDailyBars("2024-01-01", 31, 100)
	phases := []models.Phase{
		{StartDate: "2024-01-01", EndDate: "2024-01-21", Direction: models.DirectionUp},
	}
	now := parseDate("2024-02-05") // 15 days later, inside the 30-day gap

	periods, _, _ := BuildTrendPeriods(phases, bars, nil, now)
	if periods[0].EndDate != "2024-01-21" {
		t.Fatalf("period must not be extended inside the gap limit, got %s", periods[0].EndDate)
	}
}

func TestBuildTrendPeriodsLeadingGapClosure(t *testing.T) {
	bars := mkDailyBars("2024-01-01", 31, 100)
	phases := []models.Phase{
		{StartDate: "2024-01-10", EndDate: "2024-01-20", Direction: models.DirectionUp},
	}
	annotations := []models.PeriodAnnotation{
		{Date: "2024-01-03", Text: "early spike", Type: "volume_only"},
	}
	now := parseDate("2024-01-25")

	periods, _, _ := BuildTrendPeriods(phases, bars, annotations, now)
	p := periods[0]
	if p.StartDate != "2024-01-01" {
		t.Fatalf("expected start extended to earliest bar, got %s", p.StartDate)
	}
	if p.DurationDays != 19 {
		t.Fatalf("expected widened duration 19, got %d", p.DurationDays)
	}
	if p.StartPrice == nil || *p.StartPrice != 100 {
		t.Fatalf("expected earliest close 100, got %v", p.StartPrice)
	}
	if len(p.Anomalies) != 1 {
		t.Fatalf("expected early anomaly joined after extension, got %+v", p.Anomalies)
	}
}

func TestBuildTrendPeriodsEmptyPhases(t *testing.T) {
	periods, current, stats := BuildTrendPeriods(nil, mkDailyBars("2024-01-01", 5, 100), nil, time.Now())
	if len(periods) != 0 {
		t.Fatalf("expected no periods")
	}
	if current != nil {
		t.Fatalf("expected no current trend")
	}
	if stats.TotalAnomalies != 0 {
		t.Fatalf("expected zero statistics")
	}
}

func TestCloseNearestTolleratesNonTradingDay(t *testing.T) {
	// bars only on the 1st and 4th; a boundary on the 3rd resolves to the 4th
	bars := []models.Bar{
		{Timestamp: parseDate("2024-01-01").Unix(), Close: 100},
		{Timestamp: parseDate("2024-01-04").Unix(), Close: 120},
	}
	got := closeNearest(bars, parseDate("2024-01-03").Unix())
	if got == nil || *got != 120 {
		t.Fatalf("expected nearest close 120, got %v", got)
	}
}
