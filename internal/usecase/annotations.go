package usecase

import (
	"context"
	"fmt"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	domservice "TrendLens/internal/domain/service"
	tickersvc "TrendLens/internal/service/ticker"
	applogger "TrendLens/pkg/logger"

	"github.com/google/uuid"
)

// AnnotationUseCase covers annotation CRUD, favorites, the recycle bin and
// exports.
type AnnotationUseCase struct {
	store     domrepo.AnnotationStore
	publisher domrepo.AnnotationPublisher
	charts    *ChartDataUseCase
	names     domservice.CompanyNameResolver
	lookup    tickersvc.ExistsFunc
	logger    *applogger.Logger
}

func NewAnnotationUseCase(
	store domrepo.AnnotationStore,
	publisher domrepo.AnnotationPublisher,
	charts *ChartDataUseCase,
	names domservice.CompanyNameResolver,
	lookup tickersvc.ExistsFunc,
	lgr *applogger.Logger,
) *AnnotationUseCase {
	return &AnnotationUseCase{
		store:     store,
		publisher: publisher,
		charts:    charts,
		names:     names,
		lookup:    lookup,
		logger:    lgr,
	}
}

// Create stores a new annotation. The client may supply its own id for
// idempotent retries; otherwise one is generated.
func (uc *AnnotationUseCase) Create(ctx context.Context, req models.CreateAnnotationRequest) (*models.Annotation, error) {
	ticker, _ := tickersvc.NormalizeWithLookup(req.Ticker, uc.lookup)
	if ticker == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, req.Ticker)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	annType := req.Type
	if annType == "" {
		annType = models.AnnotationManual
	}

	a := &models.Annotation{
		ID:            id,
		Ticker:        ticker,
		Date:          req.Date,
		Text:          req.Text,
		Type:          annType,
		AlgorithmType: req.AlgorithmType,
	}
	if err := uc.store.Create(ctx, a); err != nil {
		return nil, err
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishCreated(ctx, a); err != nil {
			uc.logger.Warn("publishing annotation event failed", applogger.Error(err))
		}
	}

	stored, err := uc.store.GetByID(ctx, a.ID)
	if err != nil {
		return a, nil
	}
	return stored, nil
}

// List returns a ticker's live annotations in chart shape.
func (uc *AnnotationUseCase) List(ctx context.Context, rawTicker string) ([]models.ChartAnnotation, error) {
	ticker, _ := tickersvc.NormalizeWithLookup(rawTicker, uc.lookup)
	if ticker == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, rawTicker)
	}
	rows, err := uc.store.ListByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChartAnnotation, 0, len(rows))
	for i := range rows {
		out = append(out, toChartAnnotation(&rows[i]))
	}
	return out, nil
}

// UpdateText overwrites an annotation's text.
func (uc *AnnotationUseCase) UpdateText(ctx context.Context, id, text string) error {
	return uc.store.UpdateText(ctx, id, text)
}

// ApplyAIAnalysis attaches an AI result to an annotation, preserving the
// original text.
func (uc *AnnotationUseCase) ApplyAIAnalysis(ctx context.Context, id, analysis string) (*models.Annotation, error) {
	if err := uc.store.UpdateAIAnalysis(ctx, id, analysis); err != nil {
		return nil, err
	}
	return uc.store.GetByID(ctx, id)
}

// SetFavorite toggles the favorite flag.
func (uc *AnnotationUseCase) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return uc.store.SetFavorite(ctx, id, favorite)
}

// Delete moves an annotation to the recycle bin.
func (uc *AnnotationUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.SoftDelete(ctx, id)
}

// ListDeleted returns a ticker's recycled annotations.
func (uc *AnnotationUseCase) ListDeleted(ctx context.Context, rawTicker string) ([]models.Annotation, error) {
	ticker, _ := tickersvc.NormalizeWithLookup(rawTicker, uc.lookup)
	if ticker == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, rawTicker)
	}
	return uc.store.ListDeleted(ctx, ticker)
}

// Restore brings a recycled annotation back.
func (uc *AnnotationUseCase) Restore(ctx context.Context, id string) error {
	return uc.store.Restore(ctx, id)
}

// PermanentDelete removes a recycled annotation for good.
func (uc *AnnotationUseCase) PermanentDelete(ctx context.Context, id string) error {
	return uc.store.PermanentDelete(ctx, id)
}

// Export runs the chart pipeline with the requested detection parameters and
// returns the merged annotations inside the date window.
func (uc *AnnotationUseCase) Export(ctx context.Context, req models.ExportAnnotationsRequest) (*models.AnnotationExport, error) {
	chart, err := uc.charts.GetChartData(ctx, req.ChartDataRequest)
	if err != nil {
		return nil, err
	}

	company := uc.names.CompanyName(ctx, chart.Ticker)
	companyInfo := chart.Ticker
	if company != "" && company != chart.Ticker {
		companyInfo = fmt.Sprintf("%s %s", req.Ticker, company)
	}

	rows := make([]models.ExportedAnnotation, 0)
	for _, a := range chart.Annotations {
		if a.Date < req.StartDate || a.Date > req.EndDate {
			continue
		}
		rows = append(rows, models.ExportedAnnotation{
			CompanyInfo: companyInfo,
			Date:        a.Date,
			Text:        a.Text,
			Type:        a.Type,
		})
	}

	uc.logger.Info("annotations exported",
		applogger.String("ticker", chart.Ticker),
		applogger.Int("count", len(rows)))

	return &models.AnnotationExport{
		Data:   rows,
		Count:  len(rows),
		Period: fmt.Sprintf("%s to %s", req.StartDate, req.EndDate),
		Ticker: req.Ticker,
	}, nil
}
