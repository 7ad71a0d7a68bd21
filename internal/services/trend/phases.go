package trend

import (
	"time"

	"TrendLens/internal/domain/models"
	"TrendLens/internal/services/zigzag"
	applogger "TrendLens/pkg/logger"
)

// SegmentPhases converts a sparse zig-zag series into labeled trend intervals.
// Fewer than two pivots means no expressible trend: empty result, not an
// error. Pivots whose index falls outside the timestamp array are dropped
// with a warning.
func SegmentPhases(zig []*float64, timestamps []int64, l *applogger.Logger) []models.Phase {
	pivots := zigzag.Pivots(zig)
	if len(pivots) < 2 {
		return []models.Phase{}
	}

	maxIndex := len(timestamps) - 1
	valid := pivots[:0]
	for _, p := range pivots {
		if p.Index > maxIndex {
			if l != nil {
				l.Warn("trend: pivot index out of timestamp bounds",
					applogger.Int("index", p.Index),
					applogger.Int("timestamps", len(timestamps)),
				)
			}
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) < 2 {
		return []models.Phase{}
	}

	phases := make([]models.Phase, 0, len(valid)-1)
	for i := 0; i < len(valid)-1; i++ {
		start, end := valid[i], valid[i+1]
		dir := models.DirectionDown
		if end.Value > start.Value {
			dir = models.DirectionUp
		}
		phases = append(phases, models.Phase{
			StartDate: dateOf(timestamps[start.Index]),
			EndDate:   dateOf(timestamps[end.Index]),
			Direction: dir,
		})
	}
	return phases
}

func dateOf(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02")
}
