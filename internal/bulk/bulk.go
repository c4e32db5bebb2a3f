// Package bulk applies one entity annotation uniformly across every
// entity of a set of selected articles.
//
// The coordinator is a capability object: New returns nil when the
// feature flag is off, and callers mount routes or register tools only
// for a non-nil coordinator. That keeps the bulk path structurally
// unreachable when disabled instead of scattering boolean checks.
package bulk

import (
	"github.com/sietev/posverdad/internal/store"
)

// Coordinator folds the collection through one annotation operation per
// entity of every selected article, sequentially, as a single logical
// batch. The underlying operations are total, so there is no partial
// failure; an empty selection is simply a no-op.
type Coordinator struct {
	store *store.Store
}

// New returns a coordinator when enabled, nil otherwise.
func New(enabled bool, st *store.Store) *Coordinator {
	if !enabled {
		return nil
	}
	return &Coordinator{store: st}
}

// BlockAll sets the blocked flag on every entity of every selected
// article. It returns the number of entities touched.
func (c *Coordinator) BlockAll(articleIDs []string, blocked bool) int {
	return c.each(articleIDs, func(articleID, entityID string) {
		c.store.SetEntityBlocked(articleID, entityID, blocked)
	})
}

// AddAliasAll appends alias to every entity of every selected article.
// The alias is assumed non-empty and trimmed by the caller-facing
// boundary. Returns the number of entities touched.
func (c *Coordinator) AddAliasAll(articleIDs []string, alias string) int {
	return c.each(articleIDs, func(articleID, entityID string) {
		c.store.AddAlias(articleID, entityID, alias)
	})
}

func (c *Coordinator) each(articleIDs []string, op func(articleID, entityID string)) int {
	snap := c.store.Snapshot()
	byID := make(map[string][]string, len(snap.Items))
	for _, a := range snap.Items {
		entityIDs := make([]string, len(a.Entities))
		for i, e := range a.Entities {
			entityIDs[i] = e.ID
		}
		byID[a.ID] = entityIDs
	}

	n := 0
	for _, articleID := range articleIDs {
		for _, entityID := range byID[articleID] {
			op(articleID, entityID)
			n++
		}
	}
	return n
}
