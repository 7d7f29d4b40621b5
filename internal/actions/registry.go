package actions

import (
	"fmt"
	"sync"
)

// Snapshot is one immutable, insertion-ordered merge of the builtin baseline
// with a parsed custom list. Readers holding a snapshot never observe a
// partially merged state; a reload publishes a fresh snapshot instead of
// mutating this one.
type Snapshot struct {
	entries []Definition
	index   map[string]int
}

// merge applies custom definitions over the baseline, in custom order. A
// matching composite id replaces the existing entry in place, keeping its
// slot; anything new is appended. Definitions with a category outside the
// fixed set are dropped here.
func merge(baseline, custom []Definition) *Snapshot {
	snap := &Snapshot{index: make(map[string]int, len(baseline)+len(custom))}
	for _, def := range baseline {
		snap.put(def)
	}
	for _, def := range custom {
		snap.put(def)
	}
	return snap
}

func (s *Snapshot) put(def Definition) {
	if !def.Category.Valid() || def.LocalID == "" {
		return
	}
	id := def.CompositeID()
	if pos, ok := s.index[id]; ok {
		s.entries[pos] = def
		return
	}
	s.index[id] = len(s.entries)
	s.entries = append(s.entries, def)
}

// All returns every action in merge order.
func (s *Snapshot) All() []Definition {
	out := make([]Definition, len(s.entries))
	copy(out, s.entries)
	return out
}

// ByCategory returns the actions of one category, relative order preserved.
func (s *Snapshot) ByCategory(category Category) []Definition {
	var out []Definition
	for _, def := range s.entries {
		if def.Category == category {
			out = append(out, def)
		}
	}
	return out
}

// ActiveCategories lists the categories holding at least one action, in the
// fixed category order rather than insertion order.
func (s *Snapshot) ActiveCategories() []Category {
	var out []Category
	for _, cat := range Categories {
		for _, def := range s.entries {
			if def.Category == cat {
				out = append(out, cat)
				break
			}
		}
	}
	return out
}

// Get looks up one action by composite id.
func (s *Snapshot) Get(compositeID string) (Definition, bool) {
	pos, ok := s.index[compositeID]
	if !ok {
		return Definition{}, false
	}
	return s.entries[pos], true
}

func (s *Snapshot) Len() int { return len(s.entries) }

// Registry owns the builtin baseline and republishes merged snapshots as the
// custom config is loaded and reloaded.
type Registry struct {
	baseline []Definition
	loader   Loader

	mu   sync.RWMutex
	snap *Snapshot
}

// NewRegistry builds a registry over the given baseline and custom-config
// loader. The initial snapshot holds the baseline only; call Reload to pull
// in custom definitions.
func NewRegistry(baseline []Definition, loader Loader) *Registry {
	return &Registry{
		baseline: baseline,
		loader:   loader,
		snap:     merge(baseline, nil),
	}
}

// Reload re-runs loader -> parser -> merge and atomically publishes the new
// snapshot. On a loader error the previous snapshot stays in place.
func (r *Registry) Reload() error {
	var text string
	if r.loader != nil {
		var err error
		text, err = r.loader.Load()
		if err != nil {
			return fmt.Errorf("load action config: %w", err)
		}
	}
	snap := merge(r.baseline, Parse(text))
	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
	return nil
}

// Snapshot returns the currently published snapshot.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}
