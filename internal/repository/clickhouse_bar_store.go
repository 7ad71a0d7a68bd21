package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TrendLens/internal/domain/models"
	domrepo "TrendLens/internal/domain/repository"
	pkgch "TrendLens/pkg/clickhouse"
	applogger "TrendLens/pkg/logger"
)

// CHBarStore implements BarArchive backed by ClickHouse. Pulled provider
// bars are archived so analysis can keep serving through provider outages.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

// BarSchema returns the idempotent schema statements for the bar archive.
func BarSchema() []string {
	return []string{
		`CREATE DATABASE IF NOT EXISTS trendlens`,
		`CREATE TABLE IF NOT EXISTS trendlens.bars (
			ticker   LowCardinality(String),
			interval LowCardinality(String),
			ts       DateTime,
			open     Float64,
			high     Float64,
			low      Float64,
			close    Float64,
			volume   Float64
		) ENGINE = ReplacingMergeTree
		ORDER BY (ticker, interval, ts)`,
	}
}

// NewCHBarStore creates a ClickHouse bar archive.
func NewCHBarStore(ch *pkgch.Client, lgr *applogger.Logger) *CHBarStore {
	return &CHBarStore{db: ch.DB(), l: lgr}
}

func (s *CHBarStore) StoreBars(ctx context.Context, ticker string, interval domrepo.Interval, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()

	// multi-row VALUES insert, chunked to bound statement size
	const chunkSize = 2000
	for lo := 0; lo < len(bars); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(bars) {
			hi = len(bars)
		}
		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*8)
		for _, b := range bars[lo:hi] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				ticker,
				string(interval),
				time.Unix(b.Timestamp, 0),
				b.Open,
				b.High,
				b.Low,
				b.Close,
				b.Volume,
			)
		}
		q := "INSERT INTO trendlens.bars (ticker, interval, ts, open, high, low, close, volume) VALUES " +
			strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse store_bars error",
				applogger.String("ticker", ticker),
				applogger.String("interval", string(interval)),
				applogger.Error(err))
			return fmt.Errorf("store bars: %w", err)
		}
	}

	s.l.Debug("clickhouse store_bars ok",
		applogger.String("ticker", ticker),
		applogger.String("interval", string(interval)),
		applogger.Int("rows", len(bars)),
		applogger.Duration("duration_ms", time.Since(start)))
	return nil
}

func (s *CHBarStore) GetBars(ctx context.Context, ticker string, interval domrepo.Interval, from, to time.Time) ([]models.Bar, error) {
	start := time.Now()
	const q = `
        SELECT ts, open, high, low, close, volume
        FROM trendlens.bars FINAL
        WHERE ticker = ? AND interval = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC
    `
	rows, err := s.db.QueryContext(ctx, q, ticker, string(interval), from, to)
	if err != nil {
		s.l.Error("clickhouse get_bars query error",
			applogger.String("ticker", ticker),
			applogger.String("interval", string(interval)),
			applogger.Error(err))
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 1024)
	for rows.Next() {
		var b models.Bar
		var ts time.Time
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Timestamp = ts.Unix()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("clickhouse get_bars ok",
		applogger.String("ticker", ticker),
		applogger.String("interval", string(interval)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)))
	return out, nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error {
	return nil // pool owned by pkg client
}
