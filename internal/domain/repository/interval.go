package repository

// Interval is a supported bar interval.
type Interval string

const (
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
)

// IsValidInterval returns true if iv is a supported interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case Interval1d, Interval1wk, Interval1mo:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default bar interval.
func DefaultInterval() Interval { return Interval1d }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}
