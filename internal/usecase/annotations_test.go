package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
)

func newAnnotationFixture(t *testing.T, store *fakeStore, bars []models.Bar) *AnnotationUseCase {
	t.Helper()
	charts := NewChartDataUseCase(&fakeSource{bars: bars}, store, fakeNames{}, nil, nopMetrics{}, testLogger(t), ChartDataOptions{Window: 30})
	return NewAnnotationUseCase(store, nil, charts, fakeNames{}, nil, testLogger(t))
}

func TestAnnotationCreateDefaults(t *testing.T) {
	store := newFakeStore()
	uc := newAnnotationFixture(t, store, nil)

	a, err := uc.Create(context.Background(), models.CreateAnnotationRequest{
		Ticker: "aapl",
		Date:   "2024-01-05",
		Text:   "breakout above resistance",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}
	if a.Ticker != "AAPL" || a.Type != models.AnnotationManual {
		t.Fatalf("unexpected annotation %+v", a)
	}

	// client-supplied ids are preserved for idempotent retries
	b, err := uc.Create(context.Background(), models.CreateAnnotationRequest{
		ID:     "client-1",
		Ticker: "AAPL",
		Date:   "2024-01-06",
		Text:   "gap fill",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != "client-1" {
		t.Fatalf("expected client id preserved, got %q", b.ID)
	}

	if _, err := uc.Create(context.Background(), models.CreateAnnotationRequest{Ticker: " ", Date: "2024-01-05", Text: "x"}); !errors.Is(err, ErrInvalidTicker) {
		t.Fatalf("expected ErrInvalidTicker, got %v", err)
	}
}

func TestAnnotationLifecycle(t *testing.T) {
	store := newFakeStore()
	uc := newAnnotationFixture(t, store, nil)
	ctx := context.Background()

	a, err := uc.Create(ctx, models.CreateAnnotationRequest{Ticker: "AAPL", Date: "2024-01-05", Text: "initial"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := uc.UpdateText(ctx, a.ID, "revised"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := uc.SetFavorite(ctx, a.ID, true); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	list, err := uc.List(ctx, "AAPL")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Text != "revised" || !list[0].IsFavorite {
		t.Fatalf("unexpected list %+v", list)
	}

	if err := uc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = uc.List(ctx, "AAPL")
	if len(list) != 0 {
		t.Fatalf("soft-deleted annotation still listed: %+v", list)
	}
	deleted, err := uc.ListDeleted(ctx, "AAPL")
	if err != nil {
		t.Fatalf("recycle list: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != a.ID {
		t.Fatalf("expected annotation in recycle bin, got %+v", deleted)
	}

	if err := uc.Restore(ctx, a.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	list, _ = uc.List(ctx, "AAPL")
	if len(list) != 1 {
		t.Fatalf("restored annotation missing: %+v", list)
	}

	if err := uc.PermanentDelete(ctx, a.ID); err != nil {
		t.Fatalf("permanent delete: %v", err)
	}
	if err := uc.PermanentDelete(ctx, a.ID); !errors.Is(err, domrepo.ErrAnnotationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyAIAnalysisKeepsOriginalText(t *testing.T) {
	store := newFakeStore()
	uc := newAnnotationFixture(t, store, nil)
	ctx := context.Background()

	a, err := uc.Create(ctx, models.CreateAnnotationRequest{Ticker: "AAPL", Date: "2024-01-05", Text: "volume spike"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := uc.ApplyAIAnalysis(ctx, a.ID, "Institutional accumulation likely.")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.AlgorithmType != models.AlgorithmAIAnalysis {
		t.Fatalf("expected promotion to ai_analysis, got %q", got.AlgorithmType)
	}
	if !strings.HasPrefix(got.Text, "Institutional accumulation likely.") || !strings.Contains(got.Text, "volume spike") {
		t.Fatalf("expected combined text, got %q", got.Text)
	}
	if got.OriginalText != "volume spike" {
		t.Fatalf("original text not preserved: %q", got.OriginalText)
	}
}

func TestExportFiltersByDateWindow(t *testing.T) {
	bars := syntheticBars(120, 110)
	store := newFakeStore()
	ctx := context.Background()

	inside := bars[40].Date()
	outside := bars[5].Date()
	for id, date := range map[string]string{"in-1": inside, "out-1": outside} {
		err := store.Create(ctx, &models.Annotation{
			ID: id, Ticker: "AAPL", Date: date, Text: "note " + id, Type: models.AnnotationManual,
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	uc := newAnnotationFixture(t, store, bars)
	req := models.ExportAnnotationsRequest{
		ChartDataRequest: defaultChartRequest("AAPL"),
		StartDate:        bars[30].Date(),
		EndDate:          bars[60].Date(),
	}
	export, err := uc.Export(ctx, req)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if export.Ticker != "AAPL" {
		t.Fatalf("unexpected ticker %q", export.Ticker)
	}
	if export.Count != 1 || len(export.Data) != 1 {
		t.Fatalf("expected 1 exported row, got %+v", export)
	}
	row := export.Data[0]
	if row.Date != inside || row.CompanyInfo != "AAPL Apple Inc." {
		t.Fatalf("unexpected row %+v", row)
	}
	if export.Period != req.StartDate+" to "+req.EndDate {
		t.Fatalf("unexpected period %q", export.Period)
	}
}
