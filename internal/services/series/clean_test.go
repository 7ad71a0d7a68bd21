package series

import (
	"errors"
	"testing"

	"TrendLens/internal/domain/models"
)

func fp(v float64) *float64 { return &v }

func col(vals ...*float64) []*float64 { return vals }

func TestCleanDropsIncompletePositions(t *testing.T) {
	raw := &models.RawSeries{
		Timestamps: []int64{1, 2, 3, 4},
		Open:       col(fp(10), fp(11), nil, fp(13)),
		High:       col(fp(10), fp(11), fp(12), fp(13)),
		Low:        col(fp(10), fp(11), fp(12), fp(13)),
		Close:      col(fp(10), fp(11), fp(12), nil),
		Volume:     col(fp(100), fp(200), fp(300), fp(400)),
	}

	bars, err := Clean(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 complete bars, got %d", len(bars))
	}
	if bars[0].Timestamp != 1 || bars[1].Timestamp != 2 {
		t.Fatalf("wrong bars kept: %+v", bars)
	}
	if bars[1].Close != 11 || bars[1].Volume != 200 {
		t.Fatalf("fields misaligned: %+v", bars[1])
	}
}

func TestCleanEmptyInput(t *testing.T) {
	if _, err := Clean(nil); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries for nil input, got %v", err)
	}

	raw := &models.RawSeries{
		Timestamps: []int64{1, 2},
		Open:       col(nil, nil),
		High:       col(fp(1), fp(2)),
		Low:        col(fp(1), fp(2)),
		Close:      col(fp(1), fp(2)),
		Volume:     col(fp(1), fp(2)),
	}
	if _, err := Clean(raw); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries when every position is incomplete, got %v", err)
	}
}

func TestCleanRaggedColumns(t *testing.T) {
	raw := &models.RawSeries{
		Timestamps: []int64{1, 2, 3},
		Open:       col(fp(10), fp(11)),
		High:       col(fp(10), fp(11), fp(12)),
		Low:        col(fp(10), fp(11), fp(12)),
		Close:      col(fp(10), fp(11), fp(12)),
		Volume:     col(fp(100), fp(200), fp(300)),
	}
	bars, err := Clean(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected truncation at shortest column, got %d bars", len(bars))
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	if len(got) != 5 {
		t.Fatalf("output length must match input, got %d", len(got))
	}
	if got[0] != nil || got[1] != nil {
		t.Fatalf("positions before the window must be nil")
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		v := got[i+2]
		if v == nil || *v != w {
			t.Fatalf("ma[%d]: expected %v, got %v", i+2, w, v)
		}
	}
}

func TestMovingAverageShortSeries(t *testing.T) {
	got := MovingAverage([]float64{1, 2}, 5)
	for i, v := range got {
		if v != nil {
			t.Fatalf("expected all nil for series shorter than window, got [%d]=%v", i, *v)
		}
	}
}
