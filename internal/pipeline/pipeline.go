package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vigia-io/vigia/internal/alert"
	"github.com/vigia-io/vigia/internal/dedupe"
	"github.com/vigia-io/vigia/internal/detect"
	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
	"github.com/vigia-io/vigia/internal/nlp"
	"github.com/vigia-io/vigia/internal/observability"
	"github.com/vigia-io/vigia/internal/resolve"
	"github.com/vigia-io/vigia/internal/risk"
	"github.com/vigia-io/vigia/internal/score"
	"github.com/vigia-io/vigia/internal/store"
)

// RawDocument is one text unit as handed to the pipeline, before any
// normalization or identity is assigned.
type RawDocument struct {
	SourceID    int64      `json:"source_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	URL         string     `json:"url,omitempty"`
	Language    string     `json:"language,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Result is the outcome of ingesting one raw document.
type Result struct {
	Document     model.Document
	Attributions []model.TerritoryAttribution

	// Suppressed is set when the document was dropped as an exact or near
	// duplicate. Suppression is a successful outcome, not an error.
	Suppressed bool
}

// Pipeline orchestrates a single document's path from raw text to stored
// attributions: fingerprint, duplicate check, sentiment and topics, toponym
// detection, gazetteer resolution, scoring, persistence.
type Pipeline struct {
	store    *store.Store
	gaz      *gazetteer.Holder
	detector *detect.Detector
	resolver *resolve.Resolver
	scorer   *score.Scorer
	filter   *dedupe.Filter
	metrics  *observability.Metrics
	clock    clockwork.Clock
	cfg      model.Config
}

// New wires a pipeline from configuration. The gazetteer holder must already
// carry a built index.
func New(cfg model.Config, st *store.Store, gaz *gazetteer.Holder, metrics *observability.Metrics, clock clockwork.Clock, verbose bool) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		store:    st,
		gaz:      gaz,
		detector: detect.NewDetector(cfg.Detector, gaz, metrics, verbose),
		resolver: resolve.NewResolver(cfg.Resolver),
		scorer:   score.NewScorer(cfg.Scoring),
		filter:   dedupe.NewFilter(cfg.Dedupe),
		metrics:  metrics,
		clock:    clock,
		cfg:      cfg,
	}
}

// WarmDedupe preloads the near-duplicate filter with the newest stored
// fingerprints so restarts do not re-admit recent duplicates.
func (p *Pipeline) WarmDedupe(ctx context.Context, limit int) error {
	fps, err := p.store.RecentFingerprints(ctx, limit)
	if err != nil {
		return fmt.Errorf("warm dedupe: %w", err)
	}
	for _, fp := range fps {
		p.filter.Remember(fp)
	}
	return nil
}

// Process ingests one raw document. Duplicate suppression returns a Result
// with Suppressed set and no error.
func (p *Pipeline) Process(ctx context.Context, raw RawDocument) (*Result, error) {
	started := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.IngestDuration.Observe(time.Since(started).Seconds())
		}
	}()

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return nil, errors.New("pipeline: document title is empty")
	}
	body := strings.TrimSpace(raw.Body)
	full := detect.FullText(title, body)

	// 1. Near-duplicate check against the recent window, before any
	// provider call is spent on the document.
	fp := dedupe.Fingerprint(full)
	if p.filter.Seen(fp) {
		if p.metrics != nil {
			p.metrics.DocumentsSuppressed.Inc()
		}
		return &Result{Suppressed: true}, nil
	}

	// 2. Enrichment that needs no external calls.
	sentiment := nlp.AnalyzeSentiment(full)
	topics := nlp.TopicScores(full)

	now := p.clock.Now().UTC()
	doc := model.Document{
		ID:             model.NewID(now),
		SourceID:       raw.SourceID,
		Title:          title,
		Body:           body,
		URL:            raw.URL,
		Language:       raw.Language,
		PublishedAt:    raw.PublishedAt,
		CapturedAt:     now,
		Fingerprint:    fp,
		SentimentScore: sentiment.Score,
		SentimentLabel: sentiment.Label,
	}

	// 3. Persist first. The UNIQUE fingerprint is the durable side of the
	// in-memory window; losing the race to another writer is suppression.
	if err := p.store.SaveDocument(ctx, &doc); err != nil {
		if errors.Is(err, store.ErrDuplicateFingerprint) {
			if p.metrics != nil {
				p.metrics.DocumentsSuppressed.Inc()
			}
			return &Result{Suppressed: true}, nil
		}
		if p.metrics != nil {
			p.metrics.IngestErrors.Inc()
		}
		return nil, err
	}
	p.filter.Remember(fp)

	if err := p.store.SaveTopics(ctx, doc.ID, topics); err != nil {
		if p.metrics != nil {
			p.metrics.IngestErrors.Inc()
		}
		return nil, err
	}

	// 4. Detect, resolve, score.
	attrs, err := p.attribute(ctx, doc)
	if err != nil {
		if p.metrics != nil {
			p.metrics.IngestErrors.Inc()
		}
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.DocumentsIngested.Inc()
		p.metrics.AttributionsCreated.Add(float64(len(attrs)))
	}
	return &Result{Document: doc, Attributions: attrs}, nil
}

func (p *Pipeline) attribute(ctx context.Context, doc model.Document) ([]model.TerritoryAttribution, error) {
	idx := p.gaz.Current()
	candidates := p.detector.Detect(ctx, doc.Title, doc.Body)
	if len(candidates) == 0 {
		return nil, nil
	}

	var matches []resolve.Match
	for _, c := range candidates {
		matches = append(matches, p.resolver.Resolve(idx, c)...)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	sourceRegion := ""
	if src, err := p.store.Source(ctx, doc.SourceID); err == nil {
		sourceRegion = src.Region
	}

	in := score.Input{
		DocumentID:   doc.ID,
		Title:        doc.Title,
		Body:         doc.Body,
		SourceRegion: sourceRegion,
	}
	attrs := p.scorer.Attribute(idx, in, matches, doc.CapturedAt)
	if len(attrs) == 0 {
		return nil, nil
	}
	if err := p.store.SaveAttributions(ctx, attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// RunRisk aggregates the trailing window into per-territory risk snapshots
// and returns how many were written.
func (p *Pipeline) RunRisk(ctx context.Context) (int, error) {
	agg := risk.NewAggregator(p.store, p.clock, p.cfg.Risk)
	n, err := agg.Run(ctx)
	if err == nil && p.metrics != nil {
		p.metrics.SnapshotsWritten.Add(float64(n))
	}
	return n, err
}

// RunAlerts evaluates the enabled rules against fresh snapshots and returns
// how many events were created.
func (p *Pipeline) RunAlerts(ctx context.Context, notifier alert.Notifier) (int, error) {
	ev := alert.NewEvaluator(p.store, p.gaz, notifier, p.clock, p.metrics, p.cfg.Alerts)
	n, err := ev.Run(ctx)
	if err == nil && p.metrics != nil {
		p.metrics.AlertsTriggered.Add(float64(n))
	}
	return n, err
}
