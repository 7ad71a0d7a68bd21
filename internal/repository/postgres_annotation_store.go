package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	applogger "TrendLens/pkg/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PGAnnotationStore implements AnnotationStore backed by PostgreSQL.
type PGAnnotationStore struct {
	db *sqlx.DB
	l  *applogger.Logger
}

// NewPGAnnotationStore opens a PostgreSQL-backed annotation store.
func NewPGAnnotationStore(dsn string, maxConns int, lgr *applogger.Logger) (domrepo.AnnotationStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns / 2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &PGAnnotationStore{db: db, l: lgr}, nil
}

// Init ensures the annotations table and its indexes exist.
func (s *PGAnnotationStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS annotations (
			id SERIAL PRIMARY KEY,
			annotation_id TEXT NOT NULL UNIQUE,
			ticker TEXT NOT NULL,
			date TEXT NOT NULL,
			text TEXT NOT NULL,
			annotation_type TEXT NOT NULL DEFAULT 'manual',
			algorithm_type TEXT NOT NULL DEFAULT '',
			algorithm_params TEXT NOT NULL DEFAULT '',
			original_text TEXT NOT NULL DEFAULT '',
			ai_analysis TEXT NOT NULL DEFAULT '',
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_ticker ON annotations (ticker) WHERE NOT is_deleted`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_annotations_algo
			ON annotations (ticker, date, algorithm_type)
			WHERE annotation_type = 'algorithm' AND NOT is_deleted`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("annotations schema: %w", err)
		}
	}
	s.l.Info("annotation store schema ready")
	return nil
}

const annotationCols = `annotation_id, ticker, date, text, annotation_type,
	algorithm_type, algorithm_params, original_text, ai_analysis, is_favorite,
	is_deleted, created_at, updated_at, deleted_at`

func (s *PGAnnotationStore) Create(ctx context.Context, a *models.Annotation) error {
	const q = `
		INSERT INTO annotations
			(annotation_id, ticker, date, text, annotation_type,
			 algorithm_type, algorithm_params, ai_analysis)
		VALUES (:annotation_id, :ticker, :date, :text, :annotation_type,
			 :algorithm_type, :algorithm_params, :ai_analysis)
	`
	if _, err := s.db.NamedExecContext(ctx, q, a); err != nil {
		return fmt.Errorf("insert annotation: %w", err)
	}
	s.l.Debug("annotation created",
		applogger.String("id", a.ID),
		applogger.String("ticker", a.Ticker))
	return nil
}

// GetOrCreateAlgorithm resolves the stored row for an algorithm annotation
// at (ticker, date). An ai_analysis row on that day supersedes any fresh
// algorithm result. A live algorithm row of the same type is returned as-is
// so user edits survive re-analysis. A soft-deleted algorithm row suppresses
// re-creation and (nil, nil) is returned. Otherwise the given annotation is
// inserted and reloaded.
func (s *PGAnnotationStore) GetOrCreateAlgorithm(ctx context.Context, a *models.Annotation) (*models.Annotation, error) {
	const selAI = `
		SELECT ` + annotationCols + ` FROM annotations
		WHERE ticker = $1 AND date = $2 AND algorithm_type = $3 AND NOT is_deleted
		LIMIT 1
	`
	var ai models.Annotation
	err := s.db.GetContext(ctx, &ai, selAI, a.Ticker, a.Date, models.AlgorithmAIAnalysis)
	if err == nil {
		return &ai, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select ai annotation: %w", err)
	}

	const sel = `
		SELECT ` + annotationCols + ` FROM annotations
		WHERE ticker = $1 AND date = $2 AND algorithm_type = $3
		  AND annotation_type = 'algorithm'
		ORDER BY is_deleted ASC
		LIMIT 1
	`
	var existing models.Annotation
	err = s.db.GetContext(ctx, &existing, sel, a.Ticker, a.Date, a.AlgorithmType)
	if err == nil {
		if existing.IsDeleted {
			return nil, nil
		}
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select algorithm annotation: %w", err)
	}

	if err := s.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, a.ID)
}

func (s *PGAnnotationStore) GetByID(ctx context.Context, id string) (*models.Annotation, error) {
	const q = `SELECT ` + annotationCols + ` FROM annotations WHERE annotation_id = $1`
	var a models.Annotation
	if err := s.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domrepo.ErrAnnotationNotFound
		}
		return nil, fmt.Errorf("get annotation: %w", err)
	}
	return &a, nil
}

func (s *PGAnnotationStore) ListByTicker(ctx context.Context, ticker string) ([]models.Annotation, error) {
	const q = `
		SELECT ` + annotationCols + ` FROM annotations
		WHERE ticker = $1 AND NOT is_deleted
		ORDER BY date ASC, created_at ASC
	`
	out := make([]models.Annotation, 0)
	if err := s.db.SelectContext(ctx, &out, q, ticker); err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	return out, nil
}

func (s *PGAnnotationStore) ListDeleted(ctx context.Context, ticker string) ([]models.Annotation, error) {
	const q = `
		SELECT ` + annotationCols + ` FROM annotations
		WHERE ticker = $1 AND is_deleted
		ORDER BY deleted_at DESC NULLS LAST
	`
	out := make([]models.Annotation, 0)
	if err := s.db.SelectContext(ctx, &out, q, ticker); err != nil {
		return nil, fmt.Errorf("list deleted annotations: %w", err)
	}
	return out, nil
}

func (s *PGAnnotationStore) ListAll(ctx context.Context) ([]models.Annotation, error) {
	const q = `
		SELECT ` + annotationCols + ` FROM annotations
		WHERE NOT is_deleted
		ORDER BY ticker ASC, date ASC
	`
	out := make([]models.Annotation, 0)
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list all annotations: %w", err)
	}
	return out, nil
}

func (s *PGAnnotationStore) UpdateText(ctx context.Context, id, text string) error {
	const q = `UPDATE annotations SET text = $2, updated_at = NOW() WHERE annotation_id = $1 AND NOT is_deleted`
	return s.exec(ctx, q, id, text)
}

// UpdateAIAnalysis writes an AI result onto an annotation. The first update
// stashes the current text as original_text and promotes the row to the
// ai_analysis algorithm type; every update rebuilds the display text as the
// analysis followed by the preserved original text.
func (s *PGAnnotationStore) UpdateAIAnalysis(ctx context.Context, id, analysis string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.IsDeleted {
		return domrepo.ErrAnnotationNotFound
	}

	original := a.OriginalText
	if original == "" {
		original = a.Text
	}
	combined := analysis
	if original != "" {
		combined = analysis + "\n\n" + original
	}

	const q = `
		UPDATE annotations
		SET ai_analysis = $2, original_text = $3, text = $4,
		    algorithm_type = $5, updated_at = NOW()
		WHERE annotation_id = $1 AND NOT is_deleted
	`
	return s.exec(ctx, q, id, analysis, original, combined, models.AlgorithmAIAnalysis)
}

func (s *PGAnnotationStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	const q = `UPDATE annotations SET is_favorite = $2, updated_at = NOW() WHERE annotation_id = $1 AND NOT is_deleted`
	return s.exec(ctx, q, id, favorite)
}

func (s *PGAnnotationStore) SoftDelete(ctx context.Context, id string) error {
	const q = `
		UPDATE annotations SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE annotation_id = $1 AND NOT is_deleted
	`
	return s.exec(ctx, q, id)
}

func (s *PGAnnotationStore) Restore(ctx context.Context, id string) error {
	const q = `
		UPDATE annotations SET is_deleted = FALSE, deleted_at = NULL, updated_at = NOW()
		WHERE annotation_id = $1 AND is_deleted
	`
	return s.exec(ctx, q, id)
}

func (s *PGAnnotationStore) PermanentDelete(ctx context.Context, id string) error {
	const q = `DELETE FROM annotations WHERE annotation_id = $1 AND is_deleted`
	return s.exec(ctx, q, id)
}

func (s *PGAnnotationStore) Close() error {
	return s.db.Close()
}

func (s *PGAnnotationStore) exec(ctx context.Context, q string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("annotation update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domrepo.ErrAnnotationNotFound
	}
	return nil
}
