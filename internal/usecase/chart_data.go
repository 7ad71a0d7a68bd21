package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	domservice "TrendLens/internal/domain/service"
	tickersvc "TrendLens/internal/service/ticker"
	"TrendLens/internal/services/anomaly"
	"TrendLens/internal/services/series"
	"TrendLens/internal/services/trend"
	"TrendLens/internal/services/zigzag"
	pkgcache "TrendLens/pkg/cache"
	applogger "TrendLens/pkg/logger"
	"TrendLens/pkg/util"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTicker means the input could not be resolved to a symbol.
	ErrInvalidTicker = errors.New("unrecognized ticker format")
	// ErrNoData means the provider has no usable history for the symbol.
	ErrNoData = errors.New("no data available for ticker")
)

// defaultHistoryDays covers roughly twenty years of daily bars.
const defaultHistoryDays = 365 * 20

// ChartDataUseCase assembles the full chart payload: candles, moving
// averages, zig-zag series, market phases and merged annotations. Detected
// anomalies are persisted as algorithm annotations as a side effect.
type ChartDataUseCase struct {
	source    domrepo.BarSource
	archive   domrepo.BarArchive
	store     domrepo.AnnotationStore
	publisher domrepo.AnnotationPublisher
	names     domservice.CompanyNameResolver
	lookup    tickersvc.ExistsFunc
	cache     pkgcache.Service
	metrics   domrepo.Metrics
	logger    *applogger.Logger

	historyDays int
	window      int
	responseTTL time.Duration
}

// ChartDataOptions carries the optional collaborators and tunables.
type ChartDataOptions struct {
	Archive     domrepo.BarArchive
	Publisher   domrepo.AnnotationPublisher
	Lookup      tickersvc.ExistsFunc
	HistoryDays int
	Window      int
	ResponseTTL time.Duration
}

func NewChartDataUseCase(
	source domrepo.BarSource,
	store domrepo.AnnotationStore,
	names domservice.CompanyNameResolver,
	cacheSvc pkgcache.Service,
	m domrepo.Metrics,
	lgr *applogger.Logger,
	opts ChartDataOptions,
) *ChartDataUseCase {
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = defaultHistoryDays
	}
	return &ChartDataUseCase{
		source:      source,
		archive:     opts.Archive,
		store:       store,
		publisher:   opts.Publisher,
		names:       names,
		lookup:      opts.Lookup,
		cache:       cacheSvc,
		metrics:     m,
		logger:      lgr,
		historyDays: opts.HistoryDays,
		window:      opts.Window,
		responseTTL: opts.ResponseTTL,
	}
}

// GetChartData builds the chart payload for one ticker.
func (uc *ChartDataUseCase) GetChartData(ctx context.Context, req models.ChartDataRequest) (*models.ChartData, error) {
	ticker, err := uc.resolveTicker(req.Ticker)
	if err != nil {
		return nil, err
	}

	cacheKey := chartCacheKey(ticker, req)
	if uc.cache != nil && uc.responseTTL > 0 {
		var cached models.ChartData
		if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil {
			uc.logger.Debug("chart payload served from cache", applogger.String("ticker", ticker))
			return &cached, nil
		}
	}

	interval := domrepo.NormalizeInterval(req.Period)
	bars, err := uc.fetchCleanBars(ctx, ticker, uc.historyDays, interval)
	if err != nil {
		return nil, err
	}

	existing, err := uc.store.ListByTicker(ctx, ticker)
	if err != nil {
		uc.logger.Error("listing annotations failed", applogger.String("ticker", ticker), applogger.Error(err))
		existing = nil
	}
	var manual, algo []models.ChartAnnotation
	for i := range existing {
		ca := toChartAnnotation(&existing[i])
		if existing[i].Type == models.AnnotationManual {
			manual = append(manual, ca)
		} else {
			algo = append(algo, ca)
		}
	}

	th := anomaly.Thresholds{
		PriceStdMult:      req.PriceStdMult,
		VolumeStdMult:     req.VolumeStdMult,
		PriceOnlyStdMult:  req.PriceOnlyStdMult,
		VolumeOnlyStdMult: req.VolumeOnlyStdMult,
	}
	events := anomaly.NewClassifier(uc.window).Detect(bars, th)
	generated := uc.persistAnomalies(ctx, ticker, events, req)

	closes := series.Closes(bars)
	volumes := series.Volumes(bars)
	timestamps := series.Timestamps(bars)

	ma5 := series.MovingAverage(closes, 5)
	ma25 := series.MovingAverage(closes, 25)
	ma50 := series.MovingAverage(closes, 50)
	ma20 := series.MovingAverage(closes, 20)
	ma60 := series.MovingAverage(closes, 60)
	volMA5 := series.MovingAverage(volumes, 5)
	volMA25 := series.MovingAverage(volumes, 25)
	volMA50 := series.MovingAverage(volumes, 50)

	zig5 := zigzag.Compute(ma5, req.ShortTermZig)
	zig25 := zigzag.Compute(ma25, req.MediumTermZig)
	zig50 := zigzag.Compute(ma50, req.LongTermZig)
	volZig5 := zigzag.Compute(volMA5, req.VolumeShortTermZig)
	volZig25 := zigzag.Compute(volMA25, req.VolumeMediumTermZig)
	volZig50 := zigzag.Compute(volMA50, req.VolumeLongTermZig)

	marketPhases := trend.SegmentPhases(
		selectZig(req.PhaseSource, zig5, zig25, zig50), timestamps, uc.logger)
	volumePhases := trend.SegmentPhases(
		selectVolumeZig(req.VolumePhaseSource, volZig5, volZig25, volZig50), timestamps, uc.logger)

	payload := &models.ChartData{
		Ticker:       ticker,
		CompanyName:  uc.names.CompanyName(ctx, ticker),
		Data:         buildKData(bars),
		Annotations:  mergeAnnotations(manual, algo, generated),
		MarketPhases: marketPhases,
		VolumePhases: volumePhases,
		Zig5:         zig5,
		Zig25:        zig25,
		Zig50:        zig50,
		VolumeZig5:   volZig5,
		VolumeZig25:  volZig25,
		VolumeZig50:  volZig50,
		MA5:          ma5,
		MA25:         ma25,
		MA50:         ma50,
		MA5New:       ma5,
		MA20:         ma20,
		MA60New:      ma60,
	}

	if uc.cache != nil && uc.responseTTL > 0 {
		if err := uc.cache.Set(ctx, cacheKey, payload, uc.responseTTL); err != nil {
			uc.logger.Warn("caching chart payload failed", applogger.Error(err))
		}
	}

	uc.logger.Info("chart payload built",
		applogger.String("ticker", ticker),
		applogger.Int("bars", len(bars)),
		applogger.Int("annotations", len(payload.Annotations)))
	return payload, nil
}

// GetBarSnapshot returns one bar near a calendar date together with
// pre-formatted text blocks for AI workflow input.
func (uc *ChartDataUseCase) GetBarSnapshot(ctx context.Context, rawTicker, date string) (*models.BarSnapshot, error) {
	ticker, err := uc.resolveTicker(rawTicker)
	if err != nil {
		return nil, err
	}

	// 45 days is enough to contain the target date plus its previous session
	bars, err := uc.fetchCleanBars(ctx, ticker, 45, domrepo.Interval1d)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, b := range bars {
		if b.Date() == date {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: no bar on %s", ErrNoData, date)
	}

	bar := bars[idx]
	changePct := 0.0
	if idx > 0 && bars[idx-1].Close != 0 {
		changePct = (bar.Close - bars[idx-1].Close) / bars[idx-1].Close * 100
	}
	amplitude := 0.0
	if bar.Low != 0 {
		amplitude = (bar.High - bar.Low) / bar.Low * 100
	}

	company := uc.names.CompanyName(ctx, ticker)
	volatilityText := fmt.Sprintf(
		"Price action on %s:\nOpen: %.2f\nHigh: %.2f\nLow: %.2f\nClose: %.2f\nVolume: %d\nChange: %+.2f%%\nIntraday range: %.2f%%",
		date, bar.Open, bar.High, bar.Low, bar.Close, int64(bar.Volume), changePct, amplitude)
	formatted := fmt.Sprintf("%s %s price move on %s\nchange %+.2f%%", company, ticker, date, changePct)

	return &models.BarSnapshot{
		Ticker:                  ticker,
		CompanyName:             company,
		Date:                    date,
		VolatilityText:          volatilityText,
		FormattedAnnotationText: formatted,
		Data: models.BarSnapshotData{
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    int64(bar.Volume),
			ChangePct: round2(changePct),
			Amplitude: round2(amplitude),
		},
	}, nil
}

// resolveTicker normalizes user input to the internal symbol format.
func (uc *ChartDataUseCase) resolveTicker(raw string) (string, error) {
	ticker, kind := tickersvc.NormalizeWithLookup(raw, uc.lookup)
	if ticker == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
	}
	uc.logger.Debug("ticker resolved",
		applogger.String("input", raw),
		applogger.String("ticker", ticker),
		applogger.String("kind", string(kind)))
	return ticker, nil
}

// fetchCleanBars pulls history from the provider and falls back to the bar
// archive when the provider is unreachable. Successful pulls are archived
// best-effort.
func (uc *ChartDataUseCase) fetchCleanBars(ctx context.Context, ticker string, days int, interval domrepo.Interval) ([]models.Bar, error) {
	to := time.Now()
	from := util.Midnight(to.AddDate(0, 0, -days))
	yahooSym := tickersvc.ToYahoo(ticker)

	raw, err := uc.source.FetchBars(ctx, yahooSym, from, to, interval)
	if err != nil {
		uc.logger.Warn("provider fetch failed",
			applogger.String("ticker", ticker), applogger.Error(err))
		if uc.archive != nil {
			archived, aerr := uc.archive.GetBars(ctx, ticker, interval, from, to)
			if aerr == nil && len(archived) > 0 {
				uc.logger.Info("serving bars from archive",
					applogger.String("ticker", ticker), applogger.Int("bars", len(archived)))
				return archived, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	bars, err := series.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	if uc.archive != nil {
		if err := uc.archive.StoreBars(ctx, ticker, interval, bars); err != nil {
			uc.logger.Warn("archiving bars failed",
				applogger.String("ticker", ticker), applogger.Error(err))
		}
	}
	return bars, nil
}

// persistAnomalies stores one algorithm annotation per detected event and
// returns the chart annotations actually in effect. Rows already edited by
// the user come back with their stored text; suppressed rows are skipped.
func (uc *ChartDataUseCase) persistAnomalies(ctx context.Context, ticker string, events []models.AnomalyEvent, req models.ChartDataRequest) []models.ChartAnnotation {
	counts := make(map[models.AnomalyKind]int)
	out := make([]models.ChartAnnotation, 0, len(events))

	for _, ev := range events {
		counts[ev.Kind]++
		candidate := &models.Annotation{
			ID:              algorithmAnnotationID(ticker, ev.Date, string(ev.Kind)),
			Ticker:          ticker,
			Date:            ev.Date,
			Text:            anomalyText(ev),
			Type:            models.AnnotationAlgorithm,
			AlgorithmType:   string(ev.Kind),
			AlgorithmParams: anomalyParams(ev.Kind, req),
		}

		stored, err := uc.store.GetOrCreateAlgorithm(ctx, candidate)
		if err != nil {
			uc.logger.Error("persisting algorithm annotation failed",
				applogger.String("ticker", ticker),
				applogger.String("date", ev.Date),
				applogger.Error(err))
			continue
		}
		if stored == nil {
			// previously deleted by the user, stays suppressed
			continue
		}
		if stored.ID == candidate.ID && uc.publisher != nil {
			if err := uc.publisher.PublishCreated(ctx, stored); err != nil {
				uc.logger.Warn("publishing annotation event failed", applogger.Error(err))
			}
		}
		out = append(out, toChartAnnotation(stored))
	}

	for kind, n := range counts {
		uc.metrics.RecordAnomalies(ticker, string(kind), n)
	}
	return out
}

func toChartAnnotation(a *models.Annotation) models.ChartAnnotation {
	return models.ChartAnnotation{
		ID:            a.ID,
		Date:          a.Date,
		Text:          a.Text,
		Type:          a.DisplayType(),
		AlgorithmType: a.AlgorithmType,
		IsFavorite:    a.IsFavorite,
	}
}

// mergeAnnotations de-duplicates by id, then keeps one annotation per date
// by priority: AI analysis over manual over algorithm.
func mergeAnnotations(groups ...[]models.ChartAnnotation) []models.ChartAnnotation {
	seen := make(map[string]bool)
	type ranked struct {
		ann      models.ChartAnnotation
		priority int
	}
	byDate := make(map[string]ranked)

	for _, group := range groups {
		for _, a := range group {
			if a.ID != "" {
				if seen[a.ID] {
					continue
				}
				seen[a.ID] = true
			}
			if a.Date == "" {
				continue
			}
			p := annotationPriority(a)
			if cur, ok := byDate[a.Date]; !ok || p > cur.priority {
				byDate[a.Date] = ranked{ann: a, priority: p}
			}
		}
	}

	out := make([]models.ChartAnnotation, 0, len(byDate))
	for _, r := range byDate {
		out = append(out, r.ann)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func annotationPriority(a models.ChartAnnotation) int {
	switch {
	case a.AlgorithmType == models.AlgorithmAIAnalysis || a.Type == models.AlgorithmAIAnalysis:
		return 3
	case a.Type == models.AnnotationManual:
		return 2
	default:
		return 1
	}
}

// buildKData flattens bars into chart rows:
// [date, open, close, low, high, volume, price_change_pct].
func buildKData(bars []models.Bar) []models.KDataRow {
	rows := make([]models.KDataRow, len(bars))
	prevClose := 0.0
	for i, b := range bars {
		pct := 0.0
		if i > 0 && prevClose != 0 {
			pct = (b.Close - prevClose) / prevClose * 100
		}
		rows[i] = models.KDataRow{b.Date(), b.Open, b.Close, b.Low, b.High, b.Volume, pct}
		prevClose = b.Close
	}
	return rows
}

func selectZig(source string, zig5, zig25, zig50 []*float64) []*float64 {
	switch source {
	case "zig5":
		return zig5
	case "zig25":
		return zig25
	default:
		return zig50
	}
}

func selectVolumeZig(source string, zig5, zig25, zig50 []*float64) []*float64 {
	switch source {
	case "volume_zig5":
		return zig5
	case "volume_zig25":
		return zig25
	default:
		return zig50
	}
}

// anomalyText renders the annotation body for a detected event.
func anomalyText(ev models.AnomalyEvent) string {
	pct := ev.PriceChangePct * 100
	switch ev.Kind {
	case models.AnomalyPriceVolume:
		return fmt.Sprintf("[Price+Volume %s] change: %.2f%%", upOrDown(ev.PriceChangePct), pct)
	case models.AnomalyVolumeStablePrice:
		dir := "Flat"
		if ev.PriceChangePct > 0 {
			dir = "Up"
		} else if ev.PriceChangePct < 0 {
			dir = "Down"
		}
		return fmt.Sprintf("[Volume Spike, Price %s] change: %.2f%%", dir, pct)
	case models.AnomalyPriceOnly:
		return fmt.Sprintf("[Price Move] %s %.2f%%", upOrDown(ev.PriceChangePct), pct)
	case models.AnomalyVolumeOnly:
		return "[Volume Move]"
	default:
		return fmt.Sprintf("[%s] change: %.2f%%", ev.Kind, pct)
	}
}

func upOrDown(pct float64) string {
	if pct > 0 {
		return "Up"
	}
	return "Down"
}

// anomalyParams records the thresholds in effect when the event fired.
func anomalyParams(kind models.AnomalyKind, req models.ChartDataRequest) string {
	var params map[string]float64
	switch kind {
	case models.AnomalyPriceVolume:
		params = map[string]float64{"price_std": req.PriceStdMult, "volume_std": req.VolumeStdMult}
	case models.AnomalyVolumeStablePrice:
		params = map[string]float64{"volume_std": req.VolumeStdMult}
	case models.AnomalyPriceOnly:
		params = map[string]float64{"price_only_std": req.PriceOnlyStdMult}
	case models.AnomalyVolumeOnly:
		params = map[string]float64{"volume_only_std": req.VolumeOnlyStdMult}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func algorithmAnnotationID(ticker, date, kind string) string {
	suffix := uuid.NewString()
	return fmt.Sprintf("algo-%s-%s-%s-%s", ticker, date, kind, suffix[:8])
}

func chartCacheKey(ticker string, req models.ChartDataRequest) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%g|%g|%g|%g|%g|%g|%g|%s|%g|%g|%g|%s",
		ticker, req.Period,
		req.PriceStdMult, req.VolumeStdMult, req.PriceOnlyStdMult, req.VolumeOnlyStdMult,
		req.ShortTermZig, req.MediumTermZig, req.LongTermZig, req.PhaseSource,
		req.VolumeShortTermZig, req.VolumeMediumTermZig, req.VolumeLongTermZig, req.VolumePhaseSource)
	return "chart:" + hex.EncodeToString(h.Sum(nil))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
