package trend

import (
	"testing"
	"time"

	"TrendLens/internal/domain/models"
)

func dayTS(day string) int64 {
	t, err := time.ParseInLocation("2006-01-02", day, time.Local)
	if err != nil {
		panic(err)
	}
	return t.Unix()
}

func fp(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out
}

func TestSegmentPhasesContiguous(t *testing.T) {
	zig := []*float64{fp(100)[0], nil, fp(130)[0], nil, fp(90)[0]}
	ts := []int64{
		dayTS("2024-01-01"), dayTS("2024-01-02"), dayTS("2024-01-03"),
		dayTS("2024-01-04"), dayTS("2024-01-05"),
	}

	phases := SegmentPhases(zig, ts, nil)
	if len(phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(phases))
	}
	if phases[0].Direction != models.DirectionUp {
		t.Fatalf("expected first phase up, got %s", phases[0].Direction)
	}
	if phases[1].Direction != models.DirectionDown {
		t.Fatalf("expected second phase down, got %s", phases[1].Direction)
	}
	if phases[0].EndDate != phases[1].StartDate {
		t.Fatalf("phases must be contiguous: %s vs %s", phases[0].EndDate, phases[1].StartDate)
	}
	if phases[0].StartDate != "2024-01-01" || phases[1].EndDate != "2024-01-05" {
		t.Fatalf("unexpected boundary dates: %+v", phases)
	}
}

func TestSegmentPhasesSinglePivot(t *testing.T) {
	zig := []*float64{fp(100)[0], nil, nil}
	ts := []int64{dayTS("2024-01-01"), dayTS("2024-01-02"), dayTS("2024-01-03")}

	phases := SegmentPhases(zig, ts, nil)
	if len(phases) != 0 {
		t.Fatalf("expected empty phase list for single pivot, got %d", len(phases))
	}
}

func TestSegmentPhasesDropsOutOfBoundsPivot(t *testing.T) {
	// zig series longer than the timestamp array: trailing pivot dropped
	zig := []*float64{fp(100)[0], nil, fp(130)[0], nil, fp(90)[0]}
	ts := []int64{dayTS("2024-01-01"), dayTS("2024-01-02"), dayTS("2024-01-03")}

	phases := SegmentPhases(zig, ts, nil)
	if len(phases) != 1 {
		t.Fatalf("expected 1 phase after dropping pivot, got %d", len(phases))
	}
	if phases[0].EndDate != "2024-01-03" {
		t.Fatalf("unexpected phase end: %s", phases[0].EndDate)
	}
}

func TestSegmentPhasesEmptyInput(t *testing.T) {
	phases := SegmentPhases(make([]*float64, 4), []int64{dayTS("2024-01-01")}, nil)
	if len(phases) != 0 {
		t.Fatalf("expected no phases, got %d", len(phases))
	}
}
