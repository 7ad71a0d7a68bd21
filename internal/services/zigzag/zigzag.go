package zigzag

import "TrendLens/internal/domain/models"

// trend state of the scan.
type trend int

const (
	trendNone trend = 0
	trendUp   trend = 1
	trendDown trend = -1
)

// Compute collapses a nullable series into alternating local-extremum pivots.
// Threshold is a percentage: 10 means a 10% reversal. The result has the same
// length as the input, nil at every non-pivot position and the series value at
// every retained pivot.
//
// Within one leg a fresh extremum replaces the previous pivot, so the leg's
// endpoint slides forward; only a counter-move beyond the threshold installs a
// new pivot and reverses the trend. Equal values never replace or reverse.
func Compute(seriesVals []*float64, thresholdPct float64) []*float64 {
	out := make([]*float64, len(seriesVals))

	first := -1
	for i, v := range seriesVals {
		if v != nil {
			first = i
			break
		}
	}
	if first < 0 {
		return out
	}

	threshold := thresholdPct / 100.0
	state := trendNone
	lastPivotPrice := *seriesVals[first]
	lastPivotIndex := first
	pivots := map[int]float64{first: lastPivotPrice}

	install := func(i int, price float64) {
		pivots[i] = price
		lastPivotPrice = price
		lastPivotIndex = i
	}

	for i := first + 1; i < len(seriesVals); i++ {
		if seriesVals[i] == nil {
			continue
		}
		price := *seriesVals[i]

		switch state {
		case trendNone:
			if price/lastPivotPrice > 1+threshold {
				state = trendUp
				install(i, price)
			} else if price/lastPivotPrice < 1-threshold {
				state = trendDown
				install(i, price)
			}
		case trendUp:
			if price > lastPivotPrice {
				delete(pivots, lastPivotIndex)
				install(i, price)
			} else if price/lastPivotPrice < 1-threshold {
				state = trendDown
				install(i, price)
			}
		case trendDown:
			if price < lastPivotPrice {
				delete(pivots, lastPivotIndex)
				install(i, price)
			} else if price/lastPivotPrice > 1+threshold {
				state = trendUp
				install(i, price)
			}
		}
	}

	for idx, val := range pivots {
		v := val
		out[idx] = &v
	}
	return out
}

// Pivots extracts the ordered pivot points of a zig-zag series.
func Pivots(zig []*float64) []models.PivotPoint {
	out := make([]models.PivotPoint, 0)
	for i, v := range zig {
		if v != nil {
			out = append(out, models.PivotPoint{Index: i, Value: *v})
		}
	}
	return out
}
