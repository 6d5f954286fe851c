package alert

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
	"github.com/vigia-io/vigia/internal/observability"
)

// Store is the slice of persistence the evaluator needs.
type Store interface {
	SnapshotsSince(ctx context.Context, since time.Time) ([]model.RiskSnapshot, error)
	EnabledRules(ctx context.Context) ([]model.AlertRule, error)
	LastEventFor(ctx context.Context, territoryID, ruleID int64) (*model.AlertEvent, error)
	SaveAlertEvent(ctx context.Context, ev *model.AlertEvent) error
}

// Evaluator matches freshly aggregated risk snapshots against the enabled
// rules and records AlertEvents, suppressing repeats for the same
// (territory, rule) pair inside the cool-down window.
type Evaluator struct {
	store    Store
	gaz      *gazetteer.Holder
	notifier Notifier
	clock    clockwork.Clock
	metrics  *observability.Metrics
	cooldown time.Duration
}

// NewEvaluator wires the evaluator. A nil notifier falls back to NopNotifier;
// metrics may be nil.
func NewEvaluator(store Store, gaz *gazetteer.Holder, notifier Notifier, clock clockwork.Clock, metrics *observability.Metrics, cfg model.AlertConfig) *Evaluator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = time.Hour
	}
	return &Evaluator{store: store, gaz: gaz, notifier: notifier, clock: clock, metrics: metrics, cooldown: cooldown}
}

// Run evaluates the latest snapshot of every territory aggregated in the
// last 24 hours and returns the number of events created. Duplicate firings
// within the cool-down are suppressed silently; a misbehaving rule is
// skipped, never aborting the batch.
func (e *Evaluator) Run(ctx context.Context) (int, error) {
	now := e.clock.Now().UTC()

	snaps, err := e.store.SnapshotsSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return 0, fmt.Errorf("alerts: load snapshots: %w", err)
	}
	latest := latestPerTerritory(snaps)
	if len(latest) == 0 {
		return 0, nil
	}

	rules, err := e.store.EnabledRules(ctx)
	if err != nil {
		return 0, fmt.Errorf("alerts: load rules: %w", err)
	}

	idx := e.gaz.Current()
	created := 0

	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			// The CRUD layer should have rejected this; skip defensively.
			fmt.Fprintf(os.Stderr, "alerts: skipping invalid rule: %v\n", err)
			continue
		}
		for _, snap := range latest {
			name := territoryName(idx, snap.TerritoryID)
			if !ruleMatches(rule, snap, name) {
				continue
			}

			last, err := e.store.LastEventFor(ctx, snap.TerritoryID, rule.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "alerts: dedup lookup for territory %d: %v\n", snap.TerritoryID, err)
				continue
			}
			if last != nil && now.Sub(last.TriggeredAt) < e.cooldown {
				// Same (territory, rule) inside the cool-down.
				if e.metrics != nil {
					e.metrics.AlertsSuppressed.Inc()
				}
				continue
			}

			ev := &model.AlertEvent{
				ID:          model.NewID(now),
				RuleID:      rule.ID,
				TerritoryID: snap.TerritoryID,
				Territory:   name,
				Probability: snap.Probability,
				Confidence:  snap.Confidence,
				Explanation: Explain(rule, snap, name),
				Status:      model.AlertNew,
				TriggeredAt: now,
			}
			if err := e.store.SaveAlertEvent(ctx, ev); err != nil {
				fmt.Fprintf(os.Stderr, "alerts: save event for territory %d: %v\n", snap.TerritoryID, err)
				continue
			}
			created++

			// The event is durable at this point; delivery failure is the
			// collaborator's problem, not ours.
			payload := model.NotificationPayload{
				Rule:        rule.Name,
				Territory:   name,
				Probability: snap.Probability,
				Confidence:  snap.Confidence,
				Trend:       snap.Trend,
				Anomaly:     snap.Anomaly,
				Explanation: ev.Explanation,
				TriggeredAt: ev.TriggeredAt,
			}
			if err := e.notifier.Notify(ctx, payload); err != nil {
				fmt.Fprintf(os.Stderr, "alerts: notify for territory %d: %v\n", snap.TerritoryID, err)
			}
		}
	}
	return created, nil
}

// Explain summarizes why a rule fired, from the snapshot alone.
func Explain(rule model.AlertRule, snap model.RiskSnapshot, territory string) string {
	s := fmt.Sprintf("rule %q fired for %s: probability %.2f, confidence %.2f, trend %s",
		rule.Name, territory, snap.Probability, snap.Confidence, snap.Trend)
	if snap.Anomaly {
		s += ", anomalous vs historical baseline"
	}
	return s
}

func ruleMatches(rule model.AlertRule, snap model.RiskSnapshot, territory string) bool {
	if rule.TerritoryFilter != "" &&
		!strings.Contains(gazetteer.Normalize(territory), gazetteer.Normalize(rule.TerritoryFilter)) {
		return false
	}
	if rule.TopicFilter != "" && !topicMatches(rule.TopicFilter, snap.Drivers.TopTopics) {
		return false
	}
	return snap.Probability >= rule.MinProbability && snap.Confidence >= rule.MinConfidence
}

func topicMatches(filter string, topics []model.TopicCount) bool {
	f := strings.ToLower(filter)
	for _, t := range topics {
		if strings.Contains(strings.ToLower(t.Topic), f) {
			return true
		}
	}
	return false
}

func territoryName(idx *gazetteer.Index, id int64) string {
	if t, ok := idx.Territory(id); ok {
		return t.Name
	}
	return fmt.Sprintf("territory-%d", id)
}

// latestPerTerritory keeps the newest snapshot per territory, in stable
// territory-id order.
func latestPerTerritory(snaps []model.RiskSnapshot) []model.RiskSnapshot {
	byTerr := make(map[int64]model.RiskSnapshot)
	for _, s := range snaps {
		cur, ok := byTerr[s.TerritoryID]
		if !ok || s.WindowEnd.After(cur.WindowEnd) {
			byTerr[s.TerritoryID] = s
		}
	}
	out := make([]model.RiskSnapshot, 0, len(byTerr))
	for _, s := range byTerr {
		out = append(out, s)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].TerritoryID < out[b].TerritoryID })
	return out
}
