package risk

import "math"

// LogisticProbability maps an unbounded aggregate score to (0,1). k controls
// the slope, midpoint is the score at which probability crosses 0.5.
func LogisticProbability(score, k, midpoint float64) float64 {
	return 1.0 / (1.0 + math.Exp(-k*(score-midpoint)))
}

// Confidence estimates how much to trust a snapshot from signal volume and
// source diversity, with diminishing returns: 10+ documents saturate the
// volume term, full source diversity saturates the diversity term.
// Bounded [0.2, 1.0] so a single document never claims certainty.
func Confidence(numDocuments, numSources, numDistinctSources int) float64 {
	if numSources < 1 {
		numSources = 1
	}
	volume := float64(numDocuments) / 10.0
	if volume > 1 {
		volume = 1
	}
	diversity := float64(numDistinctSources) / float64(numSources)
	if diversity > 1 {
		diversity = 1
	}
	return 0.2 + 0.5*volume + 0.3*diversity
}
