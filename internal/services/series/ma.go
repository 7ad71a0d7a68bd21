package series

// MovingAverage computes a trailing simple moving average over values.
// Positions before the window fills are nil, matching the nullable series
// shape the zig-zag extractor consumes.
func MovingAverage(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			avg := sum / float64(window)
			out[i] = &avg
		}
	}
	return out
}
