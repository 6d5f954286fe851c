package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
	"github.com/vigia-io/vigia/internal/observability"
	"github.com/vigia-io/vigia/internal/store"
)

func ptr(v int64) *int64 { return &v }

func testGazetteer(t *testing.T) *gazetteer.Holder {
	t.Helper()
	idx, err := gazetteer.Build(1, []model.Territory{
		{ID: 1, Name: "Metropolitana", Level: model.LevelRegion, Aliases: []string{"RM"}, Enabled: true},
		{ID: 2, Name: "Santiago", Level: model.LevelComuna, ParentID: ptr(1), Enabled: true},
		{ID: 3, Name: "Valparaíso", Level: model.LevelRegion, Enabled: true},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return gazetteer.NewHolder(idx)
}

// newTestPipeline wires a pipeline with the pattern provider only (no AI, no
// NER) over a throwaway database.
func newTestPipeline(t *testing.T, st *store.Store, clock clockwork.Clock) *Pipeline {
	t.Helper()
	cfg := model.DefaultConfig()
	return New(cfg, st, testGazetteer(t), observability.NewMetricsForTesting(), clock, false)
}

func openTestStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestProcessEndToEnd(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir()+"/vigia.db")
	clock := clockwork.NewFakeClock()
	p := newTestPipeline(t, st, clock)

	if err := st.UpsertSource(ctx, model.Source{
		ID: 1, Name: "Diario Capital", Region: "Metropolitana",
		Weight: 1.0, Credibility: 0.8, Enabled: true,
	}); err != nil {
		t.Fatalf("UpsertSource: %v", err)
	}

	res, err := p.Process(ctx, RawDocument{
		SourceID: 1,
		Title:    "Corte de ruta en la RM",
		Body:     "Manifestantes bloquean accesos. Protesta por demandas habitacionales.",
		Language: "es",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Suppressed {
		t.Fatal("fresh document must not be suppressed")
	}
	if res.Document.ID == "" || res.Document.Fingerprint == 0 {
		t.Errorf("document identity not filled: %+v", res.Document)
	}
	if !res.Document.CapturedAt.Equal(clock.Now().UTC()) {
		t.Errorf("captured_at = %v, want clock time", res.Document.CapturedAt)
	}

	if len(res.Attributions) != 1 {
		t.Fatalf("attributions = %d, want 1", len(res.Attributions))
	}
	a := res.Attributions[0]
	if a.TerritoryID != 1 {
		t.Errorf("territory = %d, want 1 (Metropolitana via RM alias)", a.TerritoryID)
	}
	if a.Provider != "pattern" || a.Breakdown.SourceRegion != 1.0 {
		t.Errorf("attribution = %+v", a)
	}
	if a.Score < 0.5 {
		t.Errorf("score = %v, want a strong title+region match", a.Score)
	}

	// Everything must be durable, not just returned.
	stored, err := st.AttributionsForDocument(ctx, res.Document.ID)
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored attributions = %d, %v; want 1", len(stored), err)
	}
	docs, err := st.DocumentsSince(ctx, clock.Now().UTC().Add(-time.Minute))
	if err != nil || len(docs) != 1 {
		t.Fatalf("stored documents = %d, %v; want 1", len(docs), err)
	}
}

func TestProcessDuplicateSuppressed(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir()+"/vigia.db")
	p := newTestPipeline(t, st, clockwork.NewFakeClock())

	raw := RawDocument{
		SourceID: 1,
		Title:    "Incendio forestal en Valparaíso",
		Body:     "Brigadas combaten el fuego en la parte alta de la ciudad.",
	}
	first, err := p.Process(ctx, raw)
	if err != nil || first.Suppressed {
		t.Fatalf("first ingest = %+v, %v", first, err)
	}
	second, err := p.Process(ctx, raw)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if !second.Suppressed {
		t.Fatal("identical document must be suppressed")
	}

	docs, err := st.DocumentsSince(ctx, time.Time{})
	if err != nil || len(docs) != 1 {
		t.Fatalf("stored documents = %d, %v; want 1", len(docs), err)
	}
}

func TestProcessEmptyTitle(t *testing.T) {
	st := openTestStore(t, t.TempDir()+"/vigia.db")
	p := newTestPipeline(t, st, clockwork.NewFakeClock())

	if _, err := p.Process(context.Background(), RawDocument{Title: "   ", Body: "algo"}); err == nil {
		t.Fatal("blank title must be rejected")
	}
}

func TestProcessNoToponyms(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir()+"/vigia.db")
	p := newTestPipeline(t, st, clockwork.NewFakeClock())

	res, err := p.Process(ctx, RawDocument{
		SourceID: 1,
		Title:    "Sube el precio del cobre",
		Body:     "El metal cerró al alza en los mercados internacionales.",
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Suppressed || len(res.Attributions) != 0 {
		t.Errorf("result = %+v, want stored document with zero attributions", res)
	}
}

// A restarted pipeline must not re-admit documents the previous run stored.
func TestWarmDedupe(t *testing.T) {
	ctx := context.Background()
	dbPath := t.TempDir() + "/vigia.db"
	st := openTestStore(t, dbPath)
	clock := clockwork.NewFakeClock()

	raw := RawDocument{
		SourceID: 1,
		Title:    "Temporal en Santiago",
		Body:     "Lluvias intensas dejan calles anegadas en varias comunas.",
	}
	if _, err := newTestPipeline(t, st, clock).Process(ctx, raw); err != nil {
		t.Fatalf("first run: %v", err)
	}

	restarted := newTestPipeline(t, st, clock)
	if err := restarted.WarmDedupe(ctx, 100); err != nil {
		t.Fatalf("WarmDedupe: %v", err)
	}
	res, err := restarted.Process(ctx, raw)
	if err != nil {
		t.Fatalf("Process after restart: %v", err)
	}
	if !res.Suppressed {
		t.Fatal("warmed filter must suppress the replayed document")
	}
}

func TestRunRiskAndAlerts(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t, t.TempDir()+"/vigia.db")
	clock := clockwork.NewFakeClock()
	p := newTestPipeline(t, st, clock)

	if err := st.UpsertSource(ctx, model.Source{
		ID: 1, Name: "Diario Capital", Region: "Metropolitana",
		Weight: 1.0, Credibility: 0.8, Enabled: true,
	}); err != nil {
		t.Fatalf("UpsertSource: %v", err)
	}
	if _, err := p.Process(ctx, RawDocument{
		SourceID: 1,
		Title:    "Paro de trabajadores en la RM",
		Body:     "Sindicatos anuncian huelga y movilización por demandas laborales.",
	}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	n, err := p.RunRisk(ctx)
	if err != nil {
		t.Fatalf("RunRisk: %v", err)
	}
	if n != 1 {
		t.Fatalf("snapshots = %d, want 1", n)
	}
	snap, err := st.LatestSnapshot(ctx, 1)
	if err != nil || snap == nil {
		t.Fatalf("LatestSnapshot = %v, %v", snap, err)
	}

	if _, err := st.SaveRule(ctx, model.AlertRule{
		Name: "any-activity", MinProbability: 0.01, MinConfidence: 0.2, Enabled: true,
	}); err != nil {
		t.Fatalf("SaveRule: %v", err)
	}
	fired, err := p.RunAlerts(ctx, nil)
	if err != nil {
		t.Fatalf("RunAlerts: %v", err)
	}
	if fired != 1 {
		t.Fatalf("events = %d, want 1", fired)
	}
	events, err := st.EventsSince(ctx, clock.Now().UTC().Add(-time.Hour))
	if err != nil || len(events) != 1 || events[0].Territory != "Metropolitana" {
		t.Fatalf("events = %+v, %v", events, err)
	}
}
