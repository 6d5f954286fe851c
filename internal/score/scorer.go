package score

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vigia-io/vigia/internal/detect"
	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
	"github.com/vigia-io/vigia/internal/resolve"
)

// Input is the slice of a document the scorer needs.
type Input struct {
	DocumentID   string
	Title        string
	Body         string
	SourceRegion string // declared region of the source, "" when unknown
}

// Scorer combines six independent signals into a relevance score per
// (document, territory) pair and disambiguates homonym candidates.
// Given identical inputs and catalog state it always produces the same
// ranked result and the same explanation strings.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a scorer with the given signal weights.
func NewScorer(cfg model.ScoringConfig) *Scorer {
	if cfg.MaxTerritories <= 0 {
		cfg.MaxTerritories = 3
	}
	return &Scorer{cfg: cfg}
}

// Attribute turns resolver matches into ranked territory attributions:
// score every candidate, pick one winner per homonym toponym, merge by
// territory keeping the best score, and cut to the configured top N.
func (s *Scorer) Attribute(idx *gazetteer.Index, in Input, matches []resolve.Match, now time.Time) []model.TerritoryAttribution {
	if len(matches) == 0 {
		return nil
	}

	full := detect.FullText(in.Title, in.Body)
	lowerFull := strings.ToLower(full)

	// Group candidates per detected toponym occurrence so homonyms compete
	// against each other, not against unrelated mentions.
	groups := make(map[string][]scoredMatch)
	var order []string
	for _, m := range matches {
		t, ok := idx.Territory(m.TerritoryID)
		if !ok {
			continue
		}
		bd := s.breakdown(idx, in, lowerFull, len(full), m, t)
		key := fmt.Sprintf("%s@%d", strings.ToLower(m.Candidate.Toponym), m.Candidate.Start)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], scoredMatch{match: m, breakdown: bd, territory: t})
	}

	// One winner per toponym occurrence; merge winners by territory.
	best := make(map[int64]scoredMatch)
	competed := make(map[int64]bool)
	for _, key := range order {
		group := groups[key]
		winner := disambiguate(group)
		prev, ok := best[winner.territory.ID]
		if !ok || winner.breakdown.Final > prev.breakdown.Final {
			best[winner.territory.ID] = winner
			competed[winner.territory.ID] = len(group) > 1
		}
	}

	out := make([]model.TerritoryAttribution, 0, len(best))
	for id, sm := range best {
		method := sm.match.MappingMethod
		if competed[id] && sm.match.Candidate.Method == detect.MethodAI {
			method = model.MappingAI
		}
		out = append(out, model.TerritoryAttribution{
			DocumentID:    in.DocumentID,
			TerritoryID:   id,
			Toponym:       sm.match.Candidate.Toponym,
			Offset:        sm.match.Candidate.Start,
			Context:       sm.match.Candidate.Context,
			Score:         sm.breakdown.Final,
			Breakdown:     sm.breakdown,
			MappingMethod: method,
			Explanation:   Explain(sm.match.Candidate.Toponym, sm.match.Candidate.Method, method, sm.breakdown),
			Provider:      sm.match.Candidate.Method,
			MatchedAt:     now,
		})
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].TerritoryID < out[b].TerritoryID
	})
	if len(out) > s.cfg.MaxTerritories {
		out = out[:s.cfg.MaxTerritories]
	}
	return out
}

type scoredMatch struct {
	match     resolve.Match
	breakdown model.ScoreBreakdown
	territory model.Territory
}

// disambiguate picks one territory among competing candidates for the same
// toponym occurrence: first the one whose source-region signal is 1.0, then
// the highest combined frequency+position score, then the higher (broader)
// territorial level, and finally the lowest id for full determinism.
func disambiguate(group []scoredMatch) scoredMatch {
	if len(group) == 1 {
		return group[0]
	}
	sorted := make([]scoredMatch, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(a, b int) bool {
		sa, sb := sorted[a], sorted[b]
		ra := sa.breakdown.SourceRegion == 1.0
		rb := sb.breakdown.SourceRegion == 1.0
		if ra != rb {
			return ra
		}
		fa := sa.breakdown.Frequency + sa.breakdown.Position
		fb := sb.breakdown.Frequency + sb.breakdown.Position
		if fa != fb {
			return fa > fb
		}
		if sa.breakdown.Level != sb.breakdown.Level {
			return sa.breakdown.Level > sb.breakdown.Level
		}
		return sa.territory.ID < sb.territory.ID
	})
	return sorted[0]
}

// breakdown computes the six signal scores for one candidate territory.
func (s *Scorer) breakdown(idx *gazetteer.Index, in Input, lowerFull string, fullLen int, m resolve.Match, t model.Territory) model.ScoreBreakdown {
	c := m.Candidate
	bd := model.ScoreBreakdown{}

	// Position: title mentions dominate; body mentions decay with offset.
	if c.InTitle {
		bd.Position = 1.0
	} else {
		rel := 0.0
		if fullLen > 0 {
			rel = float64(c.Start) / float64(fullLen)
		}
		bd.Position = 0.3 + 0.5*(1-rel)
	}

	// Detection method tier and the provider's own confidence.
	bd.Method = detect.MethodScore(c.Method)
	bd.Confidence = c.Confidence

	// Frequency: saturating mention count.
	count := strings.Count(lowerFull, strings.ToLower(c.Toponym))
	if count < 1 {
		count = 1
	}
	bd.Frequency = 1 - 1/(1+2*float64(count))

	// Source-region: 1 when the declared source region equals the candidate
	// or an ancestor of it, 0 when it points elsewhere, neutral when unknown.
	bd.SourceRegion = sourceRegionSignal(idx, in.SourceRegion, t.ID)

	// Territorial level: broader is less ambiguous.
	bd.Level = t.Level.LevelScore()

	final := bd.Position*s.cfg.Position +
		bd.Method*s.cfg.Method +
		bd.Confidence*s.cfg.Confidence +
		bd.Frequency*s.cfg.Frequency +
		bd.SourceRegion*s.cfg.SourceRegion +
		bd.Level*s.cfg.Level
	bd.Final = math.Round(final*1000) / 1000

	return bd
}

func sourceRegionSignal(idx *gazetteer.Index, sourceRegion string, territoryID int64) float64 {
	if sourceRegion == "" {
		return 0.5
	}
	key := gazetteer.Normalize(sourceRegion)
	ids := idx.LookupExact(key)
	if len(ids) == 0 {
		ids = idx.LookupAlias(key)
	}
	if len(ids) == 0 {
		return 0.5
	}
	for _, id := range ids {
		if idx.Covers(id, territoryID) {
			return 1.0
		}
	}
	return 0.0
}
