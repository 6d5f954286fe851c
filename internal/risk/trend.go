package risk

import (
	"math"

	"github.com/vigia-io/vigia/internal/model"
)

// ComputeTrend compares the current window's score against the immediately
// preceding snapshot. No previous snapshot means stable.
func ComputeTrend(current float64, previous *model.RiskSnapshot, rising, falling float64) model.Trend {
	if previous == nil {
		return model.TrendStable
	}
	delta := current - previous.Score
	switch {
	case delta > rising:
		return model.TrendRising
	case delta < falling:
		return model.TrendFalling
	default:
		return model.TrendStable
	}
}

// DetectAnomaly flags a score statistically far above the territory's
// historical baseline: more than sigma standard deviations over the mean of
// prior snapshots. With fewer than minHistory prior snapshots the flag is
// always false; a 2-sigma baseline over three points is noise, not signal.
func DetectAnomaly(current float64, history []model.RiskSnapshot, minHistory int, sigma float64) bool {
	if len(history) < minHistory {
		return false
	}

	var sum float64
	for _, s := range history {
		sum += s.Score
	}
	mean := sum / float64(len(history))

	var variance float64
	for _, s := range history {
		d := s.Score - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(history)))
	if stddev == 0 {
		return current > mean
	}

	return current > mean+sigma*stddev
}
