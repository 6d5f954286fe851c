package resolve

import (
	"sort"
	"unicode/utf8"

	"github.com/vigia-io/vigia/internal/detect"
	"github.com/vigia-io/vigia/internal/gazetteer"
	"github.com/vigia-io/vigia/internal/model"
)

// Match is an unscored candidate territory for one toponym. Several matches
// per toponym means homonyms (or a fuzzy tie); disambiguation belongs to the
// scorer, not here.
type Match struct {
	TerritoryID   int64
	MappingMethod model.MappingMethod
	Similarity    float64 // 1.0 for exact and alias tiers
	Candidate     detect.Candidate
}

// Resolver maps raw toponym candidates to catalog entities using the
// gazetteer index. Resolution runs in strict tier order and short-circuits
// on the first non-empty tier.
type Resolver struct {
	threshold float64
	epsilon   float64
}

// NewResolver builds a resolver with the configured fuzzy threshold and
// tie epsilon.
func NewResolver(cfg model.ResolverConfig) *Resolver {
	threshold := cfg.FuzzyThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.92
	}
	epsilon := cfg.TieEpsilon
	if epsilon <= 0 {
		epsilon = 0.005
	}
	return &Resolver{threshold: threshold, epsilon: epsilon}
}

// Resolve maps one toponym candidate to zero or more territories.
func (r *Resolver) Resolve(idx *gazetteer.Index, c detect.Candidate) []Match {
	key := gazetteer.Normalize(c.Toponym)
	if key == "" {
		return nil
	}

	// Tier 1: exact official-name match.
	if ids := idx.LookupExact(key); len(ids) > 0 {
		return matchesFor(ids, model.MappingExact, 1, c)
	}

	// Tier 2: alias match.
	if ids := idx.LookupAlias(key); len(ids) > 0 {
		return matchesFor(ids, model.MappingAlias, 1, c)
	}

	// Tier 3: fuzzy match over a pruned candidate set.
	return r.fuzzy(idx, key, c)
}

func matchesFor(ids []int64, method model.MappingMethod, sim float64, c detect.Candidate) []Match {
	out := make([]Match, 0, len(ids))
	for _, id := range ids {
		out = append(out, Match{TerritoryID: id, MappingMethod: method, Similarity: sim, Candidate: c})
	}
	return out
}

// fuzzy scans catalog names sharing the toponym's first byte or a ±2 rune
// length band, keeping everything at or above the threshold. Entries tying
// with the best score within epsilon all survive as competing candidates.
func (r *Resolver) fuzzy(idx *gazetteer.Index, key string, c detect.Candidate) []Match {
	keyLen := utf8.RuneCountInString(key)

	type scored struct {
		id  int64
		sim float64
	}
	var hits []scored
	seen := make(map[int64]float64)

	for _, entry := range idx.Names() {
		if entry.Normalized[0] != key[0] && !lengthBand(entry.Normalized, keyLen) {
			continue
		}
		sim := Similarity(key, entry.Normalized)
		if sim < r.threshold {
			continue
		}
		if prev, ok := seen[entry.TerritoryID]; !ok || sim > prev {
			seen[entry.TerritoryID] = sim
		}
	}
	for id, sim := range seen {
		hits = append(hits, scored{id: id, sim: sim})
	}
	if len(hits) == 0 {
		return nil
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].sim != hits[b].sim {
			return hits[a].sim > hits[b].sim
		}
		return hits[a].id < hits[b].id
	})

	// Keep the best hit plus anything tying it within epsilon; the scorer
	// decides between them.
	best := hits[0].sim
	var out []Match
	for _, h := range hits {
		if best-h.sim > r.epsilon {
			break
		}
		out = append(out, Match{TerritoryID: h.id, MappingMethod: model.MappingFuzzy, Similarity: h.sim, Candidate: c})
	}
	return out
}

func lengthBand(s string, target int) bool {
	n := utf8.RuneCountInString(s)
	return n >= target-2 && n <= target+2
}
