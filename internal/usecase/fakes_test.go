package usecase

import (
	"context"
	"sync"
	"time"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
)

type fakeSource struct {
	bars []models.Bar
	err  error

	mu    sync.Mutex
	calls int
}

func (s *fakeSource) FetchBars(ctx context.Context, symbol string, from, to time.Time, interval domrepo.Interval) (*models.RawSeries, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	raw := &models.RawSeries{}
	for _, b := range s.bars {
		b := b
		raw.Timestamps = append(raw.Timestamps, b.Timestamp)
		raw.Open = append(raw.Open, &b.Open)
		raw.High = append(raw.High, &b.High)
		raw.Low = append(raw.Low, &b.Low)
		raw.Close = append(raw.Close, &b.Close)
		raw.Volume = append(raw.Volume, &b.Volume)
	}
	return raw, nil
}

type fakeStore struct {
	mu   sync.Mutex
	rows map[string]*models.Annotation
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*models.Annotation)}
}

func (s *fakeStore) Init(ctx context.Context) error { return nil }

func (s *fakeStore) Create(ctx context.Context, a *models.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.rows[a.ID] = &cp
	return nil
}

func (s *fakeStore) GetOrCreateAlgorithm(ctx context.Context, a *models.Annotation) (*models.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Ticker == a.Ticker && row.Date == a.Date && row.AlgorithmType == a.AlgorithmType {
			if row.IsDeleted {
				return nil, nil
			}
			cp := *row
			return &cp, nil
		}
	}
	cp := *a
	s.rows[a.ID] = &cp
	out := cp
	return &out, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, domrepo.ErrAnnotationNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *fakeStore) ListByTicker(ctx context.Context, ticker string) ([]models.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Annotation
	for _, row := range s.rows {
		if row.Ticker == ticker && !row.IsDeleted {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *fakeStore) ListDeleted(ctx context.Context, ticker string) ([]models.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Annotation
	for _, row := range s.rows {
		if row.Ticker == ticker && row.IsDeleted {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]models.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Annotation
	for _, row := range s.rows {
		if !row.IsDeleted {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateText(ctx context.Context, id, text string) error {
	return s.mutate(id, func(a *models.Annotation) { a.Text = text })
}

func (s *fakeStore) UpdateAIAnalysis(ctx context.Context, id, analysis string) error {
	return s.mutate(id, func(a *models.Annotation) {
		if a.OriginalText == "" {
			a.OriginalText = a.Text
		}
		a.AIAnalysis = analysis
		a.Text = analysis + "\n\n" + a.OriginalText
		a.AlgorithmType = models.AlgorithmAIAnalysis
	})
}

func (s *fakeStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return s.mutate(id, func(a *models.Annotation) { a.IsFavorite = favorite })
}

func (s *fakeStore) SoftDelete(ctx context.Context, id string) error {
	return s.mutate(id, func(a *models.Annotation) { a.IsDeleted = true })
}

func (s *fakeStore) Restore(ctx context.Context, id string) error {
	return s.mutate(id, func(a *models.Annotation) { a.IsDeleted = false })
}

func (s *fakeStore) PermanentDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return domrepo.ErrAnnotationNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func (s *fakeStore) mutate(id string, fn func(*models.Annotation)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return domrepo.ErrAnnotationNotFound
	}
	fn(row)
	return nil
}

type fakeNames struct{}

func (fakeNames) CompanyName(ctx context.Context, ticker string) string {
	if ticker == "AAPL" {
		return "Apple Inc."
	}
	return ticker
}
