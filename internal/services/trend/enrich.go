package trend

import (
	"math"
	"time"

	"TrendLens/internal/domain/models"
)

// trailingGapDays is the gap beyond which the newest period is considered
// stale and extended to "today".
const trailingGapDays = 30

// BuildTrendPeriods joins phases with boundary prices, durations and
// overlapping annotations, then closes the trailing and leading data-range
// gaps on the newest and oldest period. The input slices are not mutated; a
// fresh period list is returned together with the current-trend summary and
// aggregate statistics.
func BuildTrendPeriods(
	phases []models.Phase,
	bars []models.Bar,
	annotations []models.PeriodAnnotation,
	now time.Time,
) ([]models.TrendPeriod, *models.CurrentTrend, models.TrendStatistics) {
	periods := make([]models.TrendPeriod, 0, len(phases))
	for _, ph := range phases {
		start := parseDate(ph.StartDate)
		end := parseDate(ph.EndDate)

		p := models.TrendPeriod{
			Phase:        ph.Direction,
			StartDate:    ph.StartDate,
			EndDate:      ph.EndDate,
			DurationDays: daysBetween(start, end),
			Anomalies:    collectAnnotations(annotations, start, end),
		}
		p.StartPrice = closeNearest(bars, start.Unix())
		p.EndPrice = closeNearest(bars, end.Unix())
		p.PriceChangePct = changePct(p.StartPrice, p.EndPrice)
		periods = append(periods, p)
	}

	closeTrailingGap(periods, bars, annotations, now)
	closeLeadingGap(periods, bars, annotations)

	var current *models.CurrentTrend
	if len(periods) > 0 {
		last := periods[len(periods)-1]
		current = &models.CurrentTrend{
			Phase:          last.Phase,
			StartDate:      last.StartDate,
			DurationDays:   daysBetween(parseDate(last.StartDate), now),
			CurrentPrice:   last.EndPrice,
			StartPrice:     last.StartPrice,
			PriceChangePct: last.PriceChangePct,
		}
	}

	return periods, current, statistics(periods)
}

// closeTrailingGap extends the newest period to today when its end lags "now"
// by more than the gap limit: the current trend is still ongoing.
func closeTrailingGap(periods []models.TrendPeriod, bars []models.Bar, annotations []models.PeriodAnnotation, now time.Time) {
	if len(periods) == 0 || len(bars) == 0 {
		return
	}
	last := &periods[len(periods)-1]
	end := parseDate(last.EndDate)
	if daysBetween(end, now) <= trailingGapDays {
		return
	}

	latest := round2(bars[len(bars)-1].Close)
	if last.StartPrice == nil || *last.StartPrice == 0 {
		return
	}
	start := parseDate(last.StartDate)
	last.EndDate = now.Format("2006-01-02")
	last.EndPrice = &latest
	last.DurationDays = daysBetween(start, now)
	last.PriceChangePct = changePct(last.StartPrice, last.EndPrice)
	last.Anomalies = collectAnnotations(annotations, start, now)
}

// closeLeadingGap extends the oldest period back to the first observable bar:
// the oldest trend started earlier than the pivot window can see.
func closeLeadingGap(periods []models.TrendPeriod, bars []models.Bar, annotations []models.PeriodAnnotation) {
	if len(periods) == 0 || len(bars) == 0 {
		return
	}
	first := &periods[0]
	earliest := time.Unix(bars[0].Timestamp, 0)
	earliestDay := parseDate(earliest.Format("2006-01-02"))
	start := parseDate(first.StartDate)
	if !earliestDay.Before(start) {
		return
	}

	end := parseDate(first.EndDate)
	first.StartDate = earliestDay.Format("2006-01-02")
	first.DurationDays = daysBetween(earliestDay, end)
	first.StartPrice = closeNearest(bars, earliestDay.Unix())
	first.PriceChangePct = changePct(first.StartPrice, first.EndPrice)
	first.Anomalies = collectAnnotations(annotations, earliestDay, end)
}

func statistics(periods []models.TrendPeriod) models.TrendStatistics {
	var st models.TrendStatistics
	for _, p := range periods {
		switch p.Phase {
		case models.DirectionUp:
			st.UptrendPeriods++
			st.TotalUptrendDays += p.DurationDays
		case models.DirectionDown:
			st.DowntrendPeriods++
			st.TotalDowntrendDays += p.DurationDays
		}
		st.TotalAnomalies += len(p.Anomalies)
	}
	return st
}

// closeNearest returns the rounded closing price of the bar nearest the
// boundary timestamp. Nearest by absolute difference, not exact match, so
// non-trading-day boundaries resolve to the adjacent session.
func closeNearest(bars []models.Bar, ts int64) *float64 {
	if len(bars) == 0 {
		return nil
	}
	best := 0
	bestDiff := absInt64(bars[0].Timestamp - ts)
	for i := 1; i < len(bars); i++ {
		d := absInt64(bars[i].Timestamp - ts)
		if d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	v := round2(bars[best].Close)
	return &v
}

func collectAnnotations(all []models.PeriodAnnotation, start, end time.Time) []models.PeriodAnnotation {
	out := make([]models.PeriodAnnotation, 0)
	for _, a := range all {
		d, err := time.ParseInLocation("2006-01-02", a.Date, time.Local)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			out = append(out, a)
		}
	}
	return out
}

func changePct(start, end *float64) *float64 {
	if start == nil || end == nil || *start == 0 {
		return nil
	}
	v := round2((*end - *start) / *start * 100)
	return &v
}

func parseDate(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
