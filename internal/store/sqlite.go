package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vigia-io/vigia/internal/model"
)

// ErrDuplicateFingerprint is returned when a document with the same content
// fingerprint is already stored. Callers treat it as a successful
// suppression, not a failure.
var ErrDuplicateFingerprint = errors.New("duplicate document fingerprint")

// ErrNotFound is returned for lookups with no matching row.
var ErrNotFound = errors.New("not found")

// Store persists the pipeline's outputs in SQLite. Attributions, snapshots
// and events are written by the pipeline and read-only for everyone else.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	source_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	body TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	published_at TEXT,
	captured_at TEXT NOT NULL,
	fingerprint TEXT UNIQUE NOT NULL,
	sentiment_score REAL NOT NULL DEFAULT 0,
	sentiment_label TEXT NOT NULL DEFAULT 'neutral'
);
CREATE INDEX IF NOT EXISTS idx_documents_captured ON documents(captured_at);

CREATE TABLE IF NOT EXISTS attributions (
	document_id TEXT NOT NULL,
	territory_id INTEGER NOT NULL,
	toponym TEXT NOT NULL,
	doc_offset INTEGER NOT NULL DEFAULT 0,
	context TEXT NOT NULL DEFAULT '',
	score REAL NOT NULL,
	breakdown TEXT NOT NULL DEFAULT '{}',
	mapping_method TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	provider TEXT NOT NULL DEFAULT '',
	matched_at TEXT NOT NULL,
	UNIQUE(document_id, territory_id),
	FOREIGN KEY(document_id) REFERENCES documents(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_attributions_territory ON attributions(territory_id);

CREATE TABLE IF NOT EXISTS doc_topics (
	document_id TEXT NOT NULL,
	topic TEXT NOT NULL,
	score REAL NOT NULL,
	method TEXT NOT NULL DEFAULT 'rules',
	UNIQUE(document_id, topic),
	FOREIGN KEY(document_id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sources (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	region TEXT NOT NULL DEFAULT '',
	weight REAL NOT NULL DEFAULT 1.0,
	credibility REAL NOT NULL DEFAULT 0.7,
	official INTEGER NOT NULL DEFAULT 0,
	enabled INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS alert_rules (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	territory_filter TEXT NOT NULL DEFAULT '',
	topic_filter TEXT NOT NULL DEFAULT '',
	min_probability REAL NOT NULL DEFAULT 0.6,
	min_confidence REAL NOT NULL DEFAULT 0.4,
	enabled INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS risk_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	territory_id INTEGER NOT NULL,
	window_start TEXT NOT NULL,
	window_end TEXT NOT NULL,
	score REAL NOT NULL,
	probability REAL NOT NULL,
	confidence REAL NOT NULL,
	trend TEXT NOT NULL,
	anomaly INTEGER NOT NULL DEFAULT 0,
	drivers TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_snapshots_territory ON risk_snapshots(territory_id, window_end);

CREATE TABLE IF NOT EXISTS alert_events (
	id TEXT PRIMARY KEY,
	rule_id INTEGER NOT NULL,
	territory_id INTEGER NOT NULL,
	territory TEXT NOT NULL DEFAULT '',
	probability REAL NOT NULL,
	confidence REAL NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'new',
	triggered_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_pair ON alert_events(territory_id, rule_id, triggered_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// ---- documents ----

// SaveDocument inserts a document. A fingerprint collision returns
// ErrDuplicateFingerprint; the caller treats that as suppression.
func (s *Store) SaveDocument(ctx context.Context, doc *model.Document) error {
	var published any
	if doc.PublishedAt != nil {
		published = doc.PublishedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_id, title, body, url, language, published_at, captured_at, fingerprint, sentiment_score, sentiment_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.SourceID, doc.Title, doc.Body, doc.URL, doc.Language, published,
		doc.CapturedAt.UTC().Format(time.RFC3339Nano), fingerprintText(doc.Fingerprint),
		doc.SentimentScore, doc.SentimentLabel)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: documents.fingerprint") {
			return ErrDuplicateFingerprint
		}
		return fmt.Errorf("store: save document: %w", err)
	}
	return nil
}

// DocumentsSince returns documents captured at or after since.
func (s *Store) DocumentsSince(ctx context.Context, since time.Time) ([]model.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, title, body, url, language, published_at, captured_at, fingerprint, sentiment_score, sentiment_label
		FROM documents WHERE captured_at >= ? ORDER BY captured_at`,
		since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("store: documents since: %w", err)
	}
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		var d model.Document
		var published sql.NullString
		var captured, fp string
		if err := rows.Scan(&d.ID, &d.SourceID, &d.Title, &d.Body, &d.URL, &d.Language,
			&published, &captured, &fp, &d.SentimentScore, &d.SentimentLabel); err != nil {
			return nil, err
		}
		d.CapturedAt, _ = time.Parse(time.RFC3339Nano, captured)
		if published.Valid {
			if t, err := time.Parse(time.RFC3339Nano, published.String); err == nil {
				d.PublishedAt = &t
			}
		}
		d.Fingerprint, _ = strconv.ParseUint(fp, 16, 64)
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecentFingerprints returns the newest document fingerprints, newest first,
// used to warm the near-duplicate filter on startup.
func (s *Store) RecentFingerprints(ctx context.Context, limit int) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint FROM documents ORDER BY captured_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent fingerprints: %w", err)
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(fp, 16, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ---- attributions ----

// SaveAttributions stores the attributions of one pipeline run. Attributions
// are immutable; re-running a document replaces nothing silently, a
// (document, territory) collision is an error surfaced to the caller.
func (s *Store) SaveAttributions(ctx context.Context, attrs []model.TerritoryAttribution) error {
	if len(attrs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: save attributions: %w", err)
	}
	defer tx.Rollback()

	for _, a := range attrs {
		breakdown, err := json.Marshal(a.Breakdown)
		if err != nil {
			return fmt.Errorf("store: encode breakdown: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attributions (document_id, territory_id, toponym, doc_offset, context, score, breakdown, mapping_method, explanation, provider, matched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.DocumentID, a.TerritoryID, a.Toponym, a.Offset, a.Context, a.Score,
			string(breakdown), string(a.MappingMethod), a.Explanation, a.Provider,
			a.MatchedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("store: save attribution: %w", err)
		}
	}
	return tx.Commit()
}

// AttributionsSince returns attributions matched at or after since.
func (s *Store) AttributionsSince(ctx context.Context, since time.Time) ([]model.TerritoryAttribution, error) {
	return s.queryAttributions(ctx,
		`SELECT document_id, territory_id, toponym, doc_offset, context, score, breakdown, mapping_method, explanation, provider, matched_at
		 FROM attributions WHERE matched_at >= ? ORDER BY matched_at`,
		since.UTC().Format(time.RFC3339Nano))
}

// AttributionsForDocument is the read-only query surface per document.
func (s *Store) AttributionsForDocument(ctx context.Context, documentID string) ([]model.TerritoryAttribution, error) {
	return s.queryAttributions(ctx,
		`SELECT document_id, territory_id, toponym, doc_offset, context, score, breakdown, mapping_method, explanation, provider, matched_at
		 FROM attributions WHERE document_id = ? ORDER BY score DESC`,
		documentID)
}

func (s *Store) queryAttributions(ctx context.Context, q string, args ...any) ([]model.TerritoryAttribution, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query attributions: %w", err)
	}
	defer rows.Close()

	var out []model.TerritoryAttribution
	for rows.Next() {
		var a model.TerritoryAttribution
		var breakdown, method, matched string
		if err := rows.Scan(&a.DocumentID, &a.TerritoryID, &a.Toponym, &a.Offset, &a.Context,
			&a.Score, &breakdown, &method, &a.Explanation, &a.Provider, &matched); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(breakdown), &a.Breakdown); err != nil {
			return nil, fmt.Errorf("store: decode breakdown: %w", err)
		}
		a.MappingMethod = model.MappingMethod(method)
		a.MatchedAt, _ = time.Parse(time.RFC3339Nano, matched)
		out = append(out, a)
	}
	return out, rows.Err()
}

// ---- topics ----

// SaveTopics stores a document's topic classification.
func (s *Store) SaveTopics(ctx context.Context, documentID string, topics []model.TopicScore) error {
	if len(topics) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: save topics: %w", err)
	}
	defer tx.Rollback()

	for _, t := range topics {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO doc_topics (document_id, topic, score, method) VALUES (?, ?, ?, ?)`,
			documentID, t.Topic, t.Score, t.Method); err != nil {
			return fmt.Errorf("store: save topic: %w", err)
		}
	}
	return tx.Commit()
}

// TopicsByDocumentSince returns topic scores grouped by document for every
// document captured at or after since.
func (s *Store) TopicsByDocumentSince(ctx context.Context, since time.Time) (map[string][]model.TopicScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.document_id, t.topic, t.score, t.method
		FROM doc_topics t JOIN documents d ON d.id = t.document_id
		WHERE d.captured_at >= ?`,
		since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("store: topics since: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.TopicScore)
	for rows.Next() {
		var docID string
		var t model.TopicScore
		if err := rows.Scan(&docID, &t.Topic, &t.Score, &t.Method); err != nil {
			return nil, err
		}
		out[docID] = append(out[docID], t)
	}
	return out, rows.Err()
}

// ---- sources ----

// UpsertSource writes a source registry entry.
func (s *Store) UpsertSource(ctx context.Context, src model.Source) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, url, region, weight, credibility, official, enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, url=excluded.url, region=excluded.region,
			weight=excluded.weight, credibility=excluded.credibility,
			official=excluded.official, enabled=excluded.enabled`,
		src.ID, src.Name, src.URL, src.Region, src.Weight, src.Credibility,
		boolInt(src.Official), boolInt(src.Enabled))
	if err != nil {
		return fmt.Errorf("store: upsert source: %w", err)
	}
	return nil
}

// Source returns one registry entry, ErrNotFound when absent.
func (s *Store) Source(ctx context.Context, id int64) (model.Source, error) {
	var src model.Source
	var official, enabled int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, url, region, weight, credibility, official, enabled
		FROM sources WHERE id = ?`, id).
		Scan(&src.ID, &src.Name, &src.URL, &src.Region, &src.Weight, &src.Credibility, &official, &enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Source{}, ErrNotFound
	}
	if err != nil {
		return model.Source{}, fmt.Errorf("store: source: %w", err)
	}
	src.Official = official != 0
	src.Enabled = enabled != 0
	return src, nil
}

// SourceCount returns the number of registered sources.
func (s *Store) SourceCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: source count: %w", err)
	}
	return n, nil
}

// ---- alert rules ----

// SaveRule validates and stores a rule, returning its id. Misconfigured
// thresholds are rejected here so they never reach the evaluator.
func (s *Store) SaveRule(ctx context.Context, rule model.AlertRule) (int64, error) {
	if err := rule.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_rules (name, territory_filter, topic_filter, min_probability, min_confidence, enabled)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rule.Name, rule.TerritoryFilter, rule.TopicFilter, rule.MinProbability, rule.MinConfidence, boolInt(rule.Enabled))
	if err != nil {
		return 0, fmt.Errorf("store: save rule: %w", err)
	}
	return res.LastInsertId()
}

// EnabledRules returns every enabled rule.
func (s *Store) EnabledRules(ctx context.Context) ([]model.AlertRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, territory_filter, topic_filter, min_probability, min_confidence, enabled
		FROM alert_rules WHERE enabled = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: enabled rules: %w", err)
	}
	defer rows.Close()

	var out []model.AlertRule
	for rows.Next() {
		var r model.AlertRule
		var enabled int
		if err := rows.Scan(&r.ID, &r.Name, &r.TerritoryFilter, &r.TopicFilter,
			&r.MinProbability, &r.MinConfidence, &enabled); err != nil {
			return nil, err
		}
		r.Enabled = enabled != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// ---- risk snapshots ----

// SaveSnapshot appends a snapshot and fills in its id.
func (s *Store) SaveSnapshot(ctx context.Context, snap *model.RiskSnapshot) error {
	drivers, err := json.Marshal(snap.Drivers)
	if err != nil {
		return fmt.Errorf("store: encode drivers: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO risk_snapshots (territory_id, window_start, window_end, score, probability, confidence, trend, anomaly, drivers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.TerritoryID,
		snap.WindowStart.UTC().Format(time.RFC3339Nano),
		snap.WindowEnd.UTC().Format(time.RFC3339Nano),
		snap.Score, snap.Probability, snap.Confidence, string(snap.Trend), boolInt(snap.Anomaly), string(drivers))
	if err != nil {
		return fmt.Errorf("store: save snapshot: %w", err)
	}
	snap.ID, _ = res.LastInsertId()
	return nil
}

// LatestSnapshot returns the territory's most recent snapshot by window end,
// or nil when the territory has no history yet.
func (s *Store) LatestSnapshot(ctx context.Context, territoryID int64) (*model.RiskSnapshot, error) {
	snaps, err := s.RecentSnapshots(ctx, territoryID, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

// RecentSnapshots returns up to limit snapshots for a territory, newest
// first.
func (s *Store) RecentSnapshots(ctx context.Context, territoryID int64, limit int) ([]model.RiskSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, territory_id, window_start, window_end, score, probability, confidence, trend, anomaly, drivers
		FROM risk_snapshots WHERE territory_id = ? ORDER BY window_end DESC, id DESC LIMIT ?`,
		territoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent snapshots: %w", err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

// SnapshotsSince returns every snapshot with window end at or after since.
func (s *Store) SnapshotsSince(ctx context.Context, since time.Time) ([]model.RiskSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, territory_id, window_start, window_end, score, probability, confidence, trend, anomaly, drivers
		FROM risk_snapshots WHERE window_end >= ? ORDER BY window_end`,
		since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("store: snapshots since: %w", err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]model.RiskSnapshot, error) {
	var out []model.RiskSnapshot
	for rows.Next() {
		var snap model.RiskSnapshot
		var start, end, trend, drivers string
		var anomaly int
		if err := rows.Scan(&snap.ID, &snap.TerritoryID, &start, &end, &snap.Score,
			&snap.Probability, &snap.Confidence, &trend, &anomaly, &drivers); err != nil {
			return nil, err
		}
		snap.WindowStart, _ = time.Parse(time.RFC3339Nano, start)
		snap.WindowEnd, _ = time.Parse(time.RFC3339Nano, end)
		snap.Trend = model.Trend(trend)
		snap.Anomaly = anomaly != 0
		if err := json.Unmarshal([]byte(drivers), &snap.Drivers); err != nil {
			return nil, fmt.Errorf("store: decode drivers: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// ---- alert events ----

// SaveAlertEvent records a new event.
func (s *Store) SaveAlertEvent(ctx context.Context, ev *model.AlertEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_events (id, rule_id, territory_id, territory, probability, confidence, explanation, status, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.RuleID, ev.TerritoryID, ev.Territory, ev.Probability, ev.Confidence,
		ev.Explanation, string(ev.Status), ev.TriggeredAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store: save alert event: %w", err)
	}
	return nil
}

// LastEventFor returns the most recent event for a (territory, rule) pair,
// nil when none exists. Used for cool-down deduplication.
func (s *Store) LastEventFor(ctx context.Context, territoryID, ruleID int64) (*model.AlertEvent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, rule_id, territory_id, territory, probability, confidence, explanation, status, triggered_at
		FROM alert_events WHERE territory_id = ? AND rule_id = ?
		ORDER BY triggered_at DESC LIMIT 1`, territoryID, ruleID)

	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: last event: %w", err)
	}
	return ev, nil
}

// EventsSince is the read-only query surface over alert events.
func (s *Store) EventsSince(ctx context.Context, since time.Time) ([]model.AlertEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_id, territory_id, territory, probability, confidence, explanation, status, triggered_at
		FROM alert_events WHERE triggered_at >= ? ORDER BY triggered_at DESC`,
		since.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("store: events since: %w", err)
	}
	defer rows.Close()

	var out []model.AlertEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

// UpdateAlertStatus advances an event's status. Reverse transitions are
// rejected; status is the only mutable field of an event.
func (s *Store) UpdateAlertStatus(ctx context.Context, id string, next model.AlertStatus) error {
	var current string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM alert_events WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: load event status: %w", err)
	}
	if !model.AlertStatus(current).CanTransition(next) {
		return fmt.Errorf("store: illegal alert transition %s -> %s", current, next)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE alert_events SET status = ? WHERE id = ?`, string(next), id)
	if err != nil {
		return fmt.Errorf("store: update event status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(r rowScanner) (*model.AlertEvent, error) {
	var ev model.AlertEvent
	var status, triggered string
	if err := r.Scan(&ev.ID, &ev.RuleID, &ev.TerritoryID, &ev.Territory, &ev.Probability,
		&ev.Confidence, &ev.Explanation, &status, &triggered); err != nil {
		return nil, err
	}
	ev.Status = model.AlertStatus(status)
	ev.TriggeredAt, _ = time.Parse(time.RFC3339Nano, triggered)
	return &ev, nil
}

func fingerprintText(fp uint64) string {
	return fmt.Sprintf("%016x", fp)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
