package model

import "time"

// Trend is the direction of change between two consecutive risk windows
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// RiskDrivers is the transparent breakdown behind a snapshot's score.
type RiskDrivers struct {
	WindowDays      int          `json:"window_days"`
	NumDocuments    int          `json:"num_documents"`
	DistinctSources int          `json:"distinct_sources"`
	TopTopics       []TopicCount `json:"top_topics,omitempty"`
}

// TopicCount pairs a topic with how many documents in the window carried it.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// RiskSnapshot is one aggregation result for one territory. Snapshots are
// append-only, ordered by window end; trend compares the current snapshot
// against the immediately preceding one.
type RiskSnapshot struct {
	ID          int64     `json:"id"`
	TerritoryID int64     `json:"territory_id"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	Score       float64 `json:"score"`
	Probability float64 `json:"probability"` // logistic transform of Score, bounded (0,1)
	Confidence  float64 `json:"confidence"`  // volume and diversity of signals

	Trend   Trend `json:"trend"`
	Anomaly bool  `json:"anomaly"` // score > historical mean + 2 sigma

	Drivers RiskDrivers `json:"drivers"`
}
