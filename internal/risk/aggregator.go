package risk

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vigia-io/vigia/internal/model"
)

// Store is the slice of persistence the aggregator needs. Snapshot history
// is append-only; the aggregator only ever reads snapshots older than the
// window it is writing.
type Store interface {
	DocumentsSince(ctx context.Context, since time.Time) ([]model.Document, error)
	AttributionsSince(ctx context.Context, since time.Time) ([]model.TerritoryAttribution, error)
	TopicsByDocumentSince(ctx context.Context, since time.Time) (map[string][]model.TopicScore, error)
	Source(ctx context.Context, id int64) (model.Source, error)
	SourceCount(ctx context.Context) (int, error)
	LatestSnapshot(ctx context.Context, territoryID int64) (*model.RiskSnapshot, error)
	RecentSnapshots(ctx context.Context, territoryID int64, limit int) ([]model.RiskSnapshot, error)
	SaveSnapshot(ctx context.Context, snap *model.RiskSnapshot) error
}

// Aggregator rolls territory attributions in a trailing window up into one
// risk snapshot per territory. One run processes a bounded batch and
// completes before the next scheduled invocation; writes are serialized per
// territory within the run.
type Aggregator struct {
	store Store
	clock clockwork.Clock
	cfg   model.RiskConfig
}

// NewAggregator wires the aggregator. Pass a fake clock in tests.
func NewAggregator(store Store, clock clockwork.Clock, cfg model.RiskConfig) *Aggregator {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.AnomalySigma <= 0 {
		cfg.AnomalySigma = 2.0
	}
	if cfg.AnomalyMinHistory <= 0 {
		cfg.AnomalyMinHistory = 5
	}
	return &Aggregator{store: store, clock: clock, cfg: cfg}
}

// Run aggregates the current trailing window and returns the number of
// snapshots written. A failure on one territory is logged and the run
// continues with the rest.
func (a *Aggregator) Run(ctx context.Context) (int, error) {
	end := a.clock.Now().UTC()
	start := end.Add(-time.Duration(a.cfg.WindowDays) * 24 * time.Hour)

	docs, err := a.store.DocumentsSince(ctx, start)
	if err != nil {
		return 0, fmt.Errorf("risk: load documents: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	docByID := make(map[string]model.Document, len(docs))
	for _, d := range docs {
		docByID[d.ID] = d
	}

	attrs, err := a.store.AttributionsSince(ctx, start)
	if err != nil {
		return 0, fmt.Errorf("risk: load attributions: %w", err)
	}

	topics, err := a.store.TopicsByDocumentSince(ctx, start)
	if err != nil {
		return 0, fmt.Errorf("risk: load topics: %w", err)
	}

	numSources, err := a.store.SourceCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("risk: count sources: %w", err)
	}

	// Group the window's documents per territory, ordered by capture time so
	// the recurrence boost grows with each repeated mention.
	byTerritory := make(map[int64][]model.Document)
	seenPair := make(map[string]bool)
	for _, at := range attrs {
		doc, ok := docByID[at.DocumentID]
		if !ok {
			continue
		}
		pair := fmt.Sprintf("%d:%s", at.TerritoryID, at.DocumentID)
		if seenPair[pair] {
			continue
		}
		seenPair[pair] = true
		byTerritory[at.TerritoryID] = append(byTerritory[at.TerritoryID], doc)
	}

	territoryIDs := make([]int64, 0, len(byTerritory))
	for id := range byTerritory {
		territoryIDs = append(territoryIDs, id)
	}
	sort.Slice(territoryIDs, func(a, b int) bool { return territoryIDs[a] < territoryIDs[b] })

	sourceCache := make(map[int64]model.Source)
	created := 0

	for _, terrID := range territoryIDs {
		terrDocs := byTerritory[terrID]
		sort.Slice(terrDocs, func(a, b int) bool { return terrDocs[a].CapturedAt.Before(terrDocs[b].CapturedAt) })

		snap, err := a.aggregateTerritory(ctx, terrID, terrDocs, topics, numSources, sourceCache, start, end)
		if err != nil {
			fmt.Fprintf(os.Stderr, "risk: territory %d failed, skipping: %v\n", terrID, err)
			continue
		}
		if err := a.store.SaveSnapshot(ctx, snap); err != nil {
			fmt.Fprintf(os.Stderr, "risk: save snapshot for territory %d: %v\n", terrID, err)
			continue
		}
		created++
	}
	return created, nil
}

func (a *Aggregator) aggregateTerritory(
	ctx context.Context,
	terrID int64,
	docs []model.Document,
	topics map[string][]model.TopicScore,
	numSources int,
	sourceCache map[int64]model.Source,
	start, end time.Time,
) (*model.RiskSnapshot, error) {
	var aggregate float64
	distinctSources := make(map[int64]bool)
	topicCounts := make(map[string]int)

	for i, doc := range docs {
		src, ok := sourceCache[doc.SourceID]
		if !ok {
			loaded, err := a.store.Source(ctx, doc.SourceID)
			if err != nil {
				// Absent source metadata defaults to neutral, never an error.
				loaded = model.NeutralSource(doc.SourceID)
			}
			src = loaded
			sourceCache[doc.SourceID] = src
		}
		distinctSources[doc.SourceID] = true

		topTopic := 0.2
		for _, t := range topics[doc.ID] {
			if t.Score > topTopic {
				topTopic = t.Score
			}
			topicCounts[t.Topic]++
		}

		text := doc.Title + " " + doc.Body
		score, _ := DocumentScore(src, topTopic, text, i, doc.SentimentScore)
		aggregate += score
	}

	prob := LogisticProbability(aggregate, a.cfg.LogisticK, a.cfg.LogisticMidpoint)
	conf := Confidence(len(docs), numSources, len(distinctSources))

	prev, err := a.store.LatestSnapshot(ctx, terrID)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	history, err := a.store.RecentSnapshots(ctx, terrID, 30)
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}

	return &model.RiskSnapshot{
		TerritoryID: terrID,
		WindowStart: start,
		WindowEnd:   end,
		Score:       aggregate,
		Probability: prob,
		Confidence:  conf,
		Trend:       ComputeTrend(aggregate, prev, a.cfg.RisingThreshold, a.cfg.FallingThreshold),
		Anomaly:     DetectAnomaly(aggregate, history, a.cfg.AnomalyMinHistory, a.cfg.AnomalySigma),
		Drivers: model.RiskDrivers{
			WindowDays:      a.cfg.WindowDays,
			NumDocuments:    len(docs),
			DistinctSources: len(distinctSources),
			TopTopics:       topTopics(topicCounts, 5),
		},
	}, nil
}

// topTopics returns the most frequent topics, count descending then name.
func topTopics(counts map[string]int, limit int) []model.TopicCount {
	out := make([]model.TopicCount, 0, len(counts))
	for topic, n := range counts {
		out = append(out, model.TopicCount{Topic: topic, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Topic < out[b].Topic
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
