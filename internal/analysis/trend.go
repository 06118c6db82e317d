package analysis

import "github.com/vladimiradmaev/vitals-tracker/internal/domain"

const (
	// recentWindow is how many of the newest observations form the recent group.
	recentWindow = 7
	// trendThresholdPct is the mean change, in percent, needed to leave stable.
	trendThresholdPct = 5.0
)

// Classify compares the mean of the newest observations with the mean of the
// remaining older ones. values must be ordered most recent first.
func Classify(values []float64) domain.Trend {
	if len(values) < 2 {
		return domain.TrendStable
	}

	split := min(recentWindow, len(values))
	recent, older := values[:split], values[split:]
	if len(older) == 0 {
		return domain.TrendStable
	}

	olderMean := mean(older)
	if olderMean == 0 {
		return domain.TrendStable
	}

	change := (mean(recent) - olderMean) / olderMean * 100
	switch {
	case change > trendThresholdPct:
		return domain.TrendIncreasing
	case change < -trendThresholdPct:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// mean returns 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
