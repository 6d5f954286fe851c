package model

import "time"

// Document is one ingested text unit. Immutable once stored.
type Document struct {
	ID          string     `json:"id"`                     // ULID
	SourceID    int64      `json:"source_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	URL         string     `json:"url,omitempty"`
	Language    string     `json:"language,omitempty"`     // BCP-47ish tag, e.g. "es"
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CapturedAt  time.Time  `json:"captured_at"`

	// Fingerprint is the 64-bit similarity hash used for near-duplicate
	// suppression. Unique at the storage boundary.
	Fingerprint uint64 `json:"fingerprint"`

	SentimentScore float64 `json:"sentiment_score"` // -1..+1
	SentimentLabel string  `json:"sentiment_label"` // positive|negative|neutral
}

// TopicScore is a per-document topic classification result.
type TopicScore struct {
	Topic  string  `json:"topic"`
	Score  float64 `json:"score"` // 0..1
	Method string  `json:"method"`
}

// Source describes where a document came from. The registry itself is
// maintained outside this core; absent metadata falls back to neutral values.
type Source struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url,omitempty"`
	Region      string  `json:"region,omitempty"` // declared source region, helps disambiguation
	Weight      float64 `json:"weight"`           // 0-2 recommended
	Credibility float64 `json:"credibility"`      // 0..1
	Official    bool    `json:"official"`
	Enabled     bool    `json:"enabled"`
}

// NeutralSource is used when a document's source has no registry entry.
// Missing metadata must never be an error.
func NeutralSource(id int64) Source {
	return Source{
		ID:          id,
		Name:        "unknown",
		Weight:      1.0,
		Credibility: 0.7,
	}
}
