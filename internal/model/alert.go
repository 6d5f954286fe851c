package model

import (
	"fmt"
	"time"
)

// AlertStatus follows a monotonic state machine: new -> acknowledged -> closed
type AlertStatus string

const (
	AlertNew          AlertStatus = "new"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertClosed       AlertStatus = "closed"
)

func (s AlertStatus) rank() int {
	switch s {
	case AlertNew:
		return 0
	case AlertAcknowledged:
		return 1
	case AlertClosed:
		return 2
	default:
		return -1
	}
}

// CanTransition reports whether the status may move forward to next.
// Reverse transitions are forbidden.
func (s AlertStatus) CanTransition(next AlertStatus) bool {
	a, b := s.rank(), next.rank()
	return a >= 0 && b >= 0 && b > a
}

// AlertRule filters risk snapshots. Rules are saved by an external CRUD
// layer; Validate is the contract that layer enforces before persisting.
type AlertRule struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	TerritoryFilter string  `json:"territory_filter,omitempty"` // substring match on territory name
	TopicFilter     string  `json:"topic_filter,omitempty"`     // substring match on window topics
	MinProbability  float64 `json:"min_probability"`
	MinConfidence   float64 `json:"min_confidence"`
	Enabled         bool    `json:"enabled"`
}

// Validate rejects misconfigured thresholds so they never reach the evaluator.
func (r AlertRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("alert rule: name is required")
	}
	if r.MinProbability < 0 || r.MinProbability > 1 {
		return fmt.Errorf("alert rule %q: min_probability %.2f outside [0,1]", r.Name, r.MinProbability)
	}
	if r.MinConfidence < 0 || r.MinConfidence > 1 {
		return fmt.Errorf("alert rule %q: min_confidence %.2f outside [0,1]", r.Name, r.MinConfidence)
	}
	return nil
}

// AlertEvent records one rule firing. The status is the only field that may
// change after creation.
type AlertEvent struct {
	ID          string      `json:"id"` // ULID
	RuleID      int64       `json:"rule_id"`
	TerritoryID int64       `json:"territory_id"`
	Territory   string      `json:"territory"`
	Probability float64     `json:"probability"`
	Confidence  float64     `json:"confidence"`
	Explanation string      `json:"explanation"`
	Status      AlertStatus `json:"status"`
	TriggeredAt time.Time   `json:"triggered_at"`
}

// NotificationPayload is handed to the external delivery collaborator.
// Delivery success or failure is not this core's concern.
type NotificationPayload struct {
	Rule        string    `json:"rule"`
	Territory   string    `json:"territory"`
	Probability float64   `json:"probability"`
	Confidence  float64   `json:"confidence"`
	Trend       Trend     `json:"trend"`
	Anomaly     bool      `json:"anomaly"`
	Explanation string    `json:"explanation"`
	TriggeredAt time.Time `json:"triggered_at"`
}
