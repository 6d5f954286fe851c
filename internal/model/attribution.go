package model

import "time"

// MappingMethod records which resolution tier produced a territory match
type MappingMethod string

const (
	MappingExact MappingMethod = "exact"
	MappingAlias MappingMethod = "alias"
	MappingFuzzy MappingMethod = "fuzzy"
	// MappingAI marks a match whose winning territory was chosen among
	// competing homonym candidates from an AI-detected toponym.
	MappingAI MappingMethod = "ai-disambiguated"
)

// ScoreBreakdown holds every signal that contributed to an attribution's
// final relevance score, in the order they are combined. Stored verbatim so
// the explanation can be reproduced without any live provider call.
type ScoreBreakdown struct {
	Position     float64 `json:"position"`      // title beats body, earlier beats later
	Method       float64 `json:"method"`        // detection provider tier
	Confidence   float64 `json:"confidence"`    // provider-reported confidence
	Frequency    float64 `json:"frequency"`     // saturating mention count
	SourceRegion float64 `json:"source_region"` // 1.0 when the source's region covers the territory
	Level        float64 `json:"level"`         // region > comuna > locality
	Final        float64 `json:"final"`
}

// TerritoryAttribution links one document to one resolved territory.
// Created once per (document, territory) pair per pipeline run and never
// mutated afterwards; corrections require a new run.
type TerritoryAttribution struct {
	DocumentID  string        `json:"document_id"`
	TerritoryID int64         `json:"territory_id"`

	Toponym string `json:"toponym"` // the text span as detected
	Offset  int    `json:"offset"`  // character offset in title+body
	Context string `json:"context"` // ±N-character snippet around the mention

	Score         float64        `json:"score"` // 0..1
	Breakdown     ScoreBreakdown `json:"breakdown"`
	MappingMethod MappingMethod  `json:"mapping_method"`
	Explanation   string         `json:"explanation"`
	Provider      string         `json:"provider"` // detection provider name

	MatchedAt time.Time `json:"matched_at"`
}
