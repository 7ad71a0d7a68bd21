package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	"TrendLens/internal/services/series"
	"TrendLens/internal/services/trend"
	"TrendLens/internal/services/zigzag"
	applogger "TrendLens/pkg/logger"
	"TrendLens/pkg/util"
)

// maTrendWindow is the moving average the trend segmentation runs on.
const maTrendWindow = 50

// TrendAnalysisUseCase segments price history into labeled up/down periods
// enriched with boundary prices, durations and overlapping annotations.
type TrendAnalysisUseCase struct {
	charts  *ChartDataUseCase
	store   domrepo.AnnotationStore
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewTrendAnalysisUseCase(charts *ChartDataUseCase, store domrepo.AnnotationStore, m domrepo.Metrics, lgr *applogger.Logger) *TrendAnalysisUseCase {
	return &TrendAnalysisUseCase{charts: charts, store: store, metrics: m, logger: lgr}
}

// Analyze runs the trend segmentation for one ticker over the requested
// look-back window ("all", or "<n>y").
func (uc *TrendAnalysisUseCase) Analyze(ctx context.Context, req models.TrendAnalysisRequest) (*models.TrendAnalysis, error) {
	started := time.Now()
	ticker, err := uc.charts.resolveTicker(req.Ticker)
	if err != nil {
		return nil, err
	}

	days, bounded := lookbackDays(req.Period)
	bars, err := uc.charts.fetchCleanBars(ctx, ticker, days, domrepo.Interval1d)
	if err != nil {
		return nil, err
	}

	ma50 := series.MovingAverage(series.Closes(bars), maTrendWindow)
	zig := zigzag.Compute(ma50, req.LongTermZig)
	phases := trend.SegmentPhases(zig, series.Timestamps(bars), uc.logger)

	now := time.Now()
	if bounded {
		cutoff := now.AddDate(0, 0, -days)
		kept := phases[:0]
		for _, ph := range phases {
			start, ok := util.ParseTime(ph.StartDate)
			if ok && !start.Before(cutoff) {
				kept = append(kept, ph)
			}
		}
		phases = kept
	}

	annotations := uc.periodAnnotations(ctx, ticker)
	periods, current, stats := trend.BuildTrendPeriods(phases, bars, annotations, now)

	uc.metrics.RecordLatency("trend_analysis", time.Since(started).Seconds())
	uc.logger.Info("trend analysis done",
		applogger.String("ticker", ticker),
		applogger.Int("periods", len(periods)),
		applogger.Duration("took", time.Since(started)))

	return &models.TrendAnalysis{
		Ticker:         req.Ticker,
		AnalysisPeriod: periodDescription(req.Period, days, now),
		ZigThreshold:   req.LongTermZig,
		CurrentTrend:   current,
		TrendPeriods:   periods,
		Statistics:     stats,
	}, nil
}

// periodAnnotations loads the ticker's live annotations in the flat shape
// the enrichment step joins on.
func (uc *TrendAnalysisUseCase) periodAnnotations(ctx context.Context, ticker string) []models.PeriodAnnotation {
	rows, err := uc.store.ListByTicker(ctx, ticker)
	if err != nil {
		uc.logger.Error("listing annotations failed",
			applogger.String("ticker", ticker), applogger.Error(err))
		return nil
	}
	out := make([]models.PeriodAnnotation, 0, len(rows))
	for _, r := range rows {
		typ := models.AnnotationManual
		if r.Type == models.AnnotationAlgorithm {
			typ = r.AlgorithmType
		}
		out = append(out, models.PeriodAnnotation{Date: r.Date, Text: r.Text, Type: typ})
	}
	return out
}

// lookbackDays maps a period parameter to a day span. The second return
// reports whether phases should be cut to the window afterwards.
func lookbackDays(period string) (int, bool) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" || p == "all" {
		return defaultHistoryDays, false
	}
	if strings.HasSuffix(p, "y") {
		if years, err := strconv.Atoi(strings.TrimSuffix(p, "y")); err == nil && years > 0 {
			return 365 * years, true
		}
	}
	return 365 * 3, true
}

func periodDescription(period string, days int, now time.Time) string {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" || p == "all" {
		return "full history"
	}
	start := now.AddDate(0, 0, -days)
	return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), now.Format("2006-01-02"))
}
