package alert

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
)

type fakeAlertStore struct {
	snapshots []model.RiskSnapshot
	rules     []model.AlertRule
	events    []*model.AlertEvent
}

func (f *fakeAlertStore) SnapshotsSince(ctx context.Context, since time.Time) ([]model.RiskSnapshot, error) {
	var out []model.RiskSnapshot
	for _, s := range f.snapshots {
		if !s.WindowEnd.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAlertStore) EnabledRules(ctx context.Context) ([]model.AlertRule, error) {
	return f.rules, nil
}

func (f *fakeAlertStore) LastEventFor(ctx context.Context, territoryID, ruleID int64) (*model.AlertEvent, error) {
	var last *model.AlertEvent
	for _, ev := range f.events {
		if ev.TerritoryID != territoryID || ev.RuleID != ruleID {
			continue
		}
		if last == nil || ev.TriggeredAt.After(last.TriggeredAt) {
			last = ev
		}
	}
	return last, nil
}

func (f *fakeAlertStore) SaveAlertEvent(ctx context.Context, ev *model.AlertEvent) error {
	f.events = append(f.events, ev)
	return nil
}

type recordingNotifier struct {
	payloads []model.NotificationPayload
}

func (r *recordingNotifier) Notify(ctx context.Context, p model.NotificationPayload) error {
	r.payloads = append(r.payloads, p)
	return nil
}

func ptr(v int64) *int64 { return &v }

func testHolder(t *testing.T) *gazetteer.Holder {
	t.Helper()
	idx, err := gazetteer.Build(1, []model.Territory{
		{ID: 1, Name: "Aysén", Level: model.LevelRegion, Enabled: true},
		{ID: 2, Name: "Coyhaique", Level: model.LevelComuna, ParentID: ptr(1), Enabled: true},
		{ID: 3, Name: "Los Ríos", Level: model.LevelRegion, Enabled: true},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return gazetteer.NewHolder(idx)
}

func snapshot(terrID int64, prob, conf float64, end time.Time) model.RiskSnapshot {
	return model.RiskSnapshot{
		TerritoryID: terrID,
		WindowEnd:   end,
		Probability: prob,
		Confidence:  conf,
		Trend:       model.TrendRising,
		Drivers: model.RiskDrivers{
			TopTopics: []model.TopicCount{{Topic: "socioambiental", Count: 3}},
		},
	}
}

func rule(id int64, territory string, minProb, minConf float64) model.AlertRule {
	return model.AlertRule{
		ID: id, Name: "r", TerritoryFilter: territory,
		MinProbability: minProb, MinConfidence: minConf, Enabled: true,
	}
}

func TestEvaluatorFiresMatchingRule(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()
	st := &fakeAlertStore{
		snapshots: []model.RiskSnapshot{snapshot(1, 0.8, 0.6, now.Add(-time.Hour))},
		rules:     []model.AlertRule{rule(1, "aysen", 0.7, 0.5)},
	}
	notifier := &recordingNotifier{}
	ev := NewEvaluator(st, testHolder(t), notifier, clock, nil, model.AlertConfig{Cooldown: time.Hour})

	n, err := ev.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 || len(st.events) != 1 {
		t.Fatalf("events = %d, want 1", n)
	}

	e := st.events[0]
	if e.Territory != "Aysén" || e.Status != model.AlertNew {
		t.Errorf("event = %+v", e)
	}
	if e.Explanation == "" {
		t.Error("event must carry an explanation")
	}
	if len(notifier.payloads) != 1 || notifier.payloads[0].Territory != "Aysén" {
		t.Errorf("notifier payloads = %+v", notifier.payloads)
	}
}

func TestEvaluatorThresholds(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()

	tests := []struct {
		name string
		snap model.RiskSnapshot
		want int
	}{
		{"below probability", snapshot(1, 0.69, 0.9, now), 0},
		{"below confidence", snapshot(1, 0.9, 0.49, now), 0},
		{"at thresholds", snapshot(1, 0.7, 0.5, now), 1},
	}
	for _, tt := range tests {
		st := &fakeAlertStore{
			snapshots: []model.RiskSnapshot{tt.snap},
			rules:     []model.AlertRule{rule(1, "", 0.7, 0.5)},
		}
		ev := NewEvaluator(st, testHolder(t), nil, clock, nil, model.AlertConfig{Cooldown: time.Hour})
		n, err := ev.Run(context.Background())
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if n != tt.want {
			t.Errorf("%s: events = %d, want %d", tt.name, n, tt.want)
		}
	}
}

func TestEvaluatorTerritoryFilterCoversName(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()
	st := &fakeAlertStore{
		snapshots: []model.RiskSnapshot{
			snapshot(2, 0.9, 0.9, now), // Coyhaique
			snapshot(3, 0.9, 0.9, now), // Los Ríos
		},
		rules: []model.AlertRule{rule(1, "coyhaique", 0.5, 0.5)},
	}
	ev := NewEvaluator(st, testHolder(t), nil, clock, nil, model.AlertConfig{Cooldown: time.Hour})

	n, err := ev.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1 || st.events[0].TerritoryID != 2 {
		t.Fatalf("filter should match only Coyhaique, got %d events", n)
	}
}

func TestEvaluatorTopicFilter(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()
	r := rule(1, "", 0.5, 0.5)
	r.TopicFilter = "laboral"
	st := &fakeAlertStore{
		snapshots: []model.RiskSnapshot{snapshot(1, 0.9, 0.9, now)}, // topics: socioambiental
		rules:     []model.AlertRule{r},
	}
	ev := NewEvaluator(st, testHolder(t), nil, clock, nil, model.AlertConfig{Cooldown: time.Hour})

	if n, _ := ev.Run(context.Background()); n != 0 {
		t.Errorf("topic filter mismatch should suppress, got %d events", n)
	}
}

// Two evaluator runs inside the cool-down produce one event; after the
// window passes, the same condition fires again.
func TestEvaluatorCooldown(t *testing.T) {
	clock := clockwork.NewFakeClock()
	st := &fakeAlertStore{
		rules: []model.AlertRule{rule(1, "", 0.5, 0.5)},
	}
	holder := testHolder(t)
	ev := NewEvaluator(st, holder, nil, clock, nil, model.AlertConfig{Cooldown: time.Hour})

	refreshSnapshot := func() {
		st.snapshots = []model.RiskSnapshot{snapshot(1, 0.9, 0.9, clock.Now().UTC())}
	}

	refreshSnapshot()
	if n, _ := ev.Run(context.Background()); n != 1 {
		t.Fatalf("first run events = %d, want 1", n)
	}

	clock.Advance(10 * time.Minute)
	refreshSnapshot()
	if n, _ := ev.Run(context.Background()); n != 0 {
		t.Fatalf("run inside cool-down fired, want suppression")
	}

	clock.Advance(time.Hour)
	refreshSnapshot()
	if n, _ := ev.Run(context.Background()); n != 1 {
		t.Fatalf("run after cool-down events, want 1")
	}
	if len(st.events) != 2 {
		t.Errorf("total events = %d, want 2", len(st.events))
	}
}

func TestEvaluatorSkipsInvalidRule(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()
	bad := rule(1, "", 1.5, 0.5) // min_probability out of range
	st := &fakeAlertStore{
		snapshots: []model.RiskSnapshot{snapshot(1, 0.9, 0.9, now)},
		rules:     []model.AlertRule{bad, rule(2, "", 0.5, 0.5)},
	}
	ev := NewEvaluator(st, testHolder(t), nil, clock, nil, model.AlertConfig{Cooldown: time.Hour})

	n, err := ev.Run(context.Background())
	if err != nil {
		t.Fatalf("an invalid rule must not abort the run: %v", err)
	}
	if n != 1 {
		t.Errorf("events = %d, want 1 from the valid rule", n)
	}
}

func TestEvaluatorUsesLatestSnapshotPerTerritory(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()
	st := &fakeAlertStore{
		snapshots: []model.RiskSnapshot{
			snapshot(1, 0.2, 0.9, now.Add(-30*time.Minute)), // newest: below threshold
			snapshot(1, 0.9, 0.9, now.Add(-2*time.Hour)),    // stale, would fire
		},
		rules: []model.AlertRule{rule(1, "", 0.5, 0.5)},
	}
	ev := NewEvaluator(st, testHolder(t), nil, clock, nil, model.AlertConfig{Cooldown: time.Hour})

	if n, _ := ev.Run(context.Background()); n != 0 {
		t.Error("only the latest snapshot per territory may fire")
	}
}

func TestExplainMentionsRuleAndSnapshot(t *testing.T) {
	r := rule(7, "aysen", 0.7, 0.5)
	r.Name = "aysen-high"
	s := snapshot(1, 0.81, 0.66, time.Now())
	got := Explain(r, s, "Aysén")
	for _, want := range []string{"aysen-high", "Aysén", "0.81", "0.66"} {
		if !strings.Contains(got, want) {
			t.Errorf("Explain = %q, missing %q", got, want)
		}
	}
}
