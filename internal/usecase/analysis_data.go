package usecase

import (
	"context"
	"time"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	"TrendLens/internal/services/anomaly"
	"TrendLens/internal/services/series"
	"TrendLens/internal/services/trend"
	"TrendLens/internal/services/zigzag"
	applogger "TrendLens/pkg/logger"
)

// analysisHistoryDays bounds the structured-analysis look-back to ten years.
const analysisHistoryDays = 365 * 10

// GetAnalysisData runs the full detection pipeline and returns the raw
// results without chart series. Unlike GetChartData it has no persistence
// side effects: events are reported, not stored.
func (uc *ChartDataUseCase) GetAnalysisData(ctx context.Context, req models.ChartDataRequest) (*models.AnalysisData, error) {
	ticker, err := uc.resolveTicker(req.Ticker)
	if err != nil {
		return nil, err
	}

	interval := domrepo.NormalizeInterval(req.Period)
	bars, err := uc.fetchCleanBars(ctx, ticker, analysisHistoryDays, interval)
	if err != nil {
		return nil, err
	}

	th := anomaly.Thresholds{
		PriceStdMult:      req.PriceStdMult,
		VolumeStdMult:     req.VolumeStdMult,
		PriceOnlyStdMult:  req.PriceOnlyStdMult,
		VolumeOnlyStdMult: req.VolumeOnlyStdMult,
	}
	events := anomaly.NewClassifier(uc.window).Detect(bars, th)
	anomalies := groupAnomalies(events, bars)

	closes := series.Closes(bars)
	volumes := series.Volumes(bars)
	timestamps := series.Timestamps(bars)
	dates := make([]string, len(bars))
	for i, b := range bars {
		dates[i] = b.Date()
	}

	zig5 := zigzag.Compute(series.MovingAverage(closes, 5), req.ShortTermZig)
	zig25 := zigzag.Compute(series.MovingAverage(closes, 25), req.MediumTermZig)
	zig50 := zigzag.Compute(series.MovingAverage(closes, 50), req.LongTermZig)
	volZig5 := zigzag.Compute(series.MovingAverage(volumes, 5), req.VolumeShortTermZig)
	volZig25 := zigzag.Compute(series.MovingAverage(volumes, 25), req.VolumeMediumTermZig)
	volZig50 := zigzag.Compute(series.MovingAverage(volumes, 50), req.VolumeLongTermZig)

	zigAnalysis := models.ZigAnalysis{
		Zig5Points:        zigPoints(zig5, dates, "short_term"),
		Zig25Points:       zigPoints(zig25, dates, "medium_term"),
		Zig50Points:       zigPoints(zig50, dates, "long_term"),
		VolumeZig5Points:  zigPoints(volZig5, dates, "volume_short_term"),
		VolumeZig25Points: zigPoints(volZig25, dates, "volume_medium_term"),
		VolumeZig50Points: zigPoints(volZig50, dates, "volume_long_term"),
	}

	marketPhases := trend.SegmentPhases(
		selectZig(req.PhaseSource, zig5, zig25, zig50), timestamps, uc.logger)
	volumePhases := trend.SegmentPhases(
		selectVolumeZig(req.VolumePhaseSource, volZig5, volZig25, volZig50), timestamps, uc.logger)

	stats := models.AnalysisStatistics{
		PriceVolumeCount:       len(anomalies.PriceVolumeEvents),
		VolumeStablePriceCount: len(anomalies.VolumeStablePriceEvents),
		PriceOnlyCount:         len(anomalies.PriceOnlyEvents),
		VolumeOnlyCount:        len(anomalies.VolumeOnlyEvents),
		MarketPhasesCount:      len(marketPhases),
		VolumePhasesCount:      len(volumePhases),
		Zig5PointsCount:        len(zigAnalysis.Zig5Points),
		Zig25PointsCount:       len(zigAnalysis.Zig25Points),
		Zig50PointsCount:       len(zigAnalysis.Zig50Points),
		DataPoints:             len(bars),
	}
	stats.TotalAnomalies = stats.PriceVolumeCount + stats.VolumeStablePriceCount +
		stats.PriceOnlyCount + stats.VolumeOnlyCount

	uc.logger.Info("structured analysis built",
		applogger.String("ticker", ticker),
		applogger.Int("anomalies", stats.TotalAnomalies))

	return &models.AnalysisData{
		Meta: models.AnalysisMeta{
			Ticker:            ticker,
			Period:            req.Period,
			AnalysisTimestamp: time.Now().Format(time.RFC3339),
			Parameters:        requestParameters(ticker, req),
		},
		AnomalyAnalysis: anomalies,
		ZigAnalysis:     zigAnalysis,
		MarketPhases:    marketPhases,
		VolumePhases:    volumePhases,
		Statistics:      stats,
	}, nil
}

// groupAnomalies splits flat events into the per-rule buckets of the
// structured payload.
func groupAnomalies(events []models.AnomalyEvent, bars []models.Bar) models.AnomalyAnalysis {
	out := models.AnomalyAnalysis{
		PriceVolumeEvents:       []models.AnomalyEventDetail{},
		VolumeStablePriceEvents: []models.AnomalyEventDetail{},
		PriceOnlyEvents:         []models.AnomalyEventDetail{},
		VolumeOnlyEvents:        []models.AnomalyEventDetail{},
	}
	for _, ev := range events {
		detail := models.AnomalyEventDetail{
			Date:           ev.Date,
			PriceChangePct: round2(ev.PriceChangePct * 100),
			Volume:         int64(ev.Volume),
			ClosePrice:     ev.Close,
			Type:           anomalyEventType(ev),
		}
		switch ev.Kind {
		case models.AnomalyPriceVolume:
			out.PriceVolumeEvents = append(out.PriceVolumeEvents, detail)
		case models.AnomalyVolumeStablePrice:
			out.VolumeStablePriceEvents = append(out.VolumeStablePriceEvents, detail)
		case models.AnomalyPriceOnly:
			out.PriceOnlyEvents = append(out.PriceOnlyEvents, detail)
		case models.AnomalyVolumeOnly:
			out.VolumeOnlyEvents = append(out.VolumeOnlyEvents, detail)
		}
	}
	return out
}

func anomalyEventType(ev models.AnomalyEvent) string {
	switch ev.Kind {
	case models.AnomalyVolumeStablePrice:
		if ev.PriceChangePct >= 0 {
			return "stall_up"
		}
		return "stall_down"
	case models.AnomalyVolumeOnly:
		return "volume_surge"
	default:
		if ev.PriceChangePct > 0 {
			return "up"
		}
		return "down"
	}
}

// zigPoints lists the non-nil positions of a zig-zag series.
func zigPoints(zig []*float64, dates []string, zigType string) []models.ZigPoint {
	points := make([]models.ZigPoint, 0)
	for i, v := range zig {
		if v == nil || i >= len(dates) {
			continue
		}
		points = append(points, models.ZigPoint{
			Date:    dates[i],
			Value:   round2(*v),
			Index:   i,
			ZigType: zigType,
		})
	}
	return points
}

func requestParameters(ticker string, req models.ChartDataRequest) map[string]interface{} {
	return map[string]interface{}{
		"ticker":                  ticker,
		"period":                  req.Period,
		"price_std":               req.PriceStdMult,
		"volume_std":              req.VolumeStdMult,
		"price_only_std":          req.PriceOnlyStdMult,
		"volume_only_std":         req.VolumeOnlyStdMult,
		"short_term_zig":          req.ShortTermZig,
		"medium_term_zig":         req.MediumTermZig,
		"long_term_zig":           req.LongTermZig,
		"zig_phase_source":        req.PhaseSource,
		"volume_short_term_zig":   req.VolumeShortTermZig,
		"volume_medium_term_zig":  req.VolumeMediumTermZig,
		"volume_long_term_zig":    req.VolumeLongTermZig,
		"volume_zig_phase_source": req.VolumePhaseSource,
	}
}
