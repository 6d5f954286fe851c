package gazetteer

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"github.com/vigia-io/vigia/internal/model"
)

// NameEntry is one searchable name in the index: either an official name or
// an alias, already normalized. The fuzzy tier iterates these.
type NameEntry struct {
	Raw         string // the name as it appears in the catalog
	Normalized  string
	TerritoryID int64
	IsAlias     bool
}

// Index is an immutable lookup structure over one catalog version.
// All lookup methods are pure reads; rebuilding produces a new Index that is
// swapped in atomically, so readers never observe a partial build.
type Index struct {
	version int64

	byID    map[int64]model.Territory
	byExact map[string][]int64 // normalized official name -> territory ids
	byAlias map[string][]int64 // normalized alias -> territory ids

	parent      map[int64]int64
	descendants map[int64][]int64 // ordered, depth-first

	names []NameEntry // sorted by normalized string, for the fuzzy tier
}

// Build constructs an index from catalog entries. Disabled territories are
// left out. An alias colliding with nothing is impossible by construction
// here, but a catalog row pointing at a missing parent is logged and the
// hierarchy edge skipped; the build always completes (catalog inconsistency
// is not fatal).
func Build(version int64, catalog []model.Territory) (*Index, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("gazetteer: empty catalog")
	}

	idx := &Index{
		version:     version,
		byID:        make(map[int64]model.Territory, len(catalog)),
		byExact:     make(map[string][]int64),
		byAlias:     make(map[string][]int64),
		parent:      make(map[int64]int64),
		descendants: make(map[int64][]int64),
	}

	for _, t := range catalog {
		if !t.Enabled {
			continue
		}
		idx.byID[t.ID] = t
	}

	for _, t := range catalog {
		if !t.Enabled {
			continue
		}
		key := Normalize(t.Name)
		if key == "" {
			fmt.Fprintf(os.Stderr, "gazetteer: territory %d has empty name, skipped\n", t.ID)
			continue
		}
		idx.byExact[key] = append(idx.byExact[key], t.ID)
		idx.names = append(idx.names, NameEntry{Raw: t.Name, Normalized: key, TerritoryID: t.ID})

		for _, alias := range t.Aliases {
			akey := Normalize(alias)
			if akey == "" {
				continue
			}
			idx.byAlias[akey] = append(idx.byAlias[akey], t.ID)
			idx.names = append(idx.names, NameEntry{Raw: alias, Normalized: akey, TerritoryID: t.ID, IsAlias: true})
		}

		if t.ParentID != nil {
			if _, ok := idx.byID[*t.ParentID]; !ok {
				fmt.Fprintf(os.Stderr, "gazetteer: territory %q references missing parent %d, edge ignored\n", t.Name, *t.ParentID)
				continue
			}
			idx.parent[t.ID] = *t.ParentID
		}
	}

	// Descendant lists, depth-first so regions list their comunas before
	// the comunas' localities.
	for id := range idx.byID {
		root := id
		for {
			p, ok := idx.parent[root]
			if !ok {
				break
			}
			idx.descendants[p] = append(idx.descendants[p], id)
			root = p
		}
	}
	for id := range idx.descendants {
		sort.Slice(idx.descendants[id], func(a, b int) bool {
			return idx.descendants[id][a] < idx.descendants[id][b]
		})
	}

	sort.Slice(idx.names, func(a, b int) bool { return idx.names[a].Normalized < idx.names[b].Normalized })

	return idx, nil
}

// Version identifies the catalog build this index was made from.
func (idx *Index) Version() int64 { return idx.version }

// Size returns the number of enabled territories.
func (idx *Index) Size() int { return len(idx.byID) }

// Territory looks up a catalog entry by id.
func (idx *Index) Territory(id int64) (model.Territory, bool) {
	t, ok := idx.byID[id]
	return t, ok
}

// LookupExact returns the territories whose official name normalizes to key.
func (idx *Index) LookupExact(key string) []int64 {
	return idx.byExact[key]
}

// LookupAlias returns the territories carrying key as an alias.
func (idx *Index) LookupAlias(key string) []int64 {
	return idx.byAlias[key]
}

// Parent returns the parent territory id, if any.
func (idx *Index) Parent(id int64) (int64, bool) {
	p, ok := idx.parent[id]
	return p, ok
}

// Descendants returns the ordered descendant ids of a territory.
func (idx *Index) Descendants(id int64) []int64 {
	return idx.descendants[id]
}

// Covers reports whether ancestor equals id or is an ancestor of it.
// The hierarchy is a forest, so the walk terminates.
func (idx *Index) Covers(ancestor, id int64) bool {
	if ancestor == id {
		return true
	}
	cur := id
	for {
		p, ok := idx.parent[cur]
		if !ok {
			return false
		}
		if p == ancestor {
			return true
		}
		cur = p
	}
}

// Names exposes the searchable name entries for the fuzzy tier and the
// pattern provider. Callers must not mutate the returned slice.
func (idx *Index) Names() []NameEntry {
	return idx.names
}

// Holder hands out the current index version. Readers grab one reference at
// the start of a batch run and keep it for the whole run; Swap publishes a
// rebuilt index atomically.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder wraps an initial index build.
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	h.current.Store(idx)
	return h
}

// Current returns the live index.
func (h *Holder) Current() *Index {
	return h.current.Load()
}

// Swap publishes a new index build.
func (h *Holder) Swap(idx *Index) {
	h.current.Store(idx)
}
