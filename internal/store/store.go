// Package store owns the in-memory article collection, the active
// filters, and the current selection.
//
// The store is single-writer: every mutation funnels through a named
// method behind one mutex, so callers on concurrent HTTP handlers are
// serialized and each mutation fully completes before any other operation
// observes the collection. Articles themselves are immutable values;
// annotation goes through the copy-on-write operations in annotate.go.
package store

import (
	"sync"

	"github.com/sietev/posverdad/internal/filters"
	"github.com/sietev/posverdad/internal/models"
)

// Event kinds handed to the notify hook.
const (
	EventArticlesLoaded   = "articles.loaded"
	EventFiltersChanged   = "filters.changed"
	EventEntityUpdated    = "entity.updated"
	EventSelectionChanged = "selection.changed"
)

// NotifyFunc receives store change events. It is called outside the store
// lock and must not call back into mutating methods synchronously.
type NotifyFunc func(kind string, data map[string]string)

// Snapshot is a point-in-time copy of the store state. Items share the
// underlying immutable article values; Filters and Selection are copies.
type Snapshot struct {
	Items     []models.Article
	Total     int
	Loading   bool
	Filters   filters.Filters
	Selection *models.Article
}

// QueryString returns the canonical URL encoding of the snapshot filters.
func (s Snapshot) QueryString() string {
	return filters.Encode(s.Filters)
}

// Store holds the session's article collection state.
type Store struct {
	mu        sync.Mutex
	items     []models.Article
	total     int
	loading   bool
	filters   filters.Filters
	selection *models.Article
	hydrated  bool
	notify    NotifyFunc
}

// New creates an empty store with default filters.
func New() *Store {
	return &Store{items: []models.Article{}, filters: filters.Default()}
}

// SetNotify installs the change hook. Pass nil to disable.
func (s *Store) SetNotify(fn NotifyFunc) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

func (s *Store) emit(fn NotifyFunc, kind string, data map[string]string) {
	if fn != nil {
		fn(kind, data)
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Items:   s.items,
		Total:   s.total,
		Loading: s.loading,
		Filters: s.filters.Clone(),
	}
	if s.selection != nil {
		sel := s.selection.Clone()
		snap.Selection = &sel
	}
	return snap
}

// BeginLoad marks a load in flight. It returns false when a load is
// already outstanding; the caller must not issue a second fetch then.
func (s *Store) BeginLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

// FinishLoad replaces the collection with freshly fetched articles and
// clears the loading flag. A held selection is re-resolved against the
// new items by id and dropped when the article no longer exists.
func (s *Store) FinishLoad(items []models.Article, total int) {
	s.mu.Lock()
	if items == nil {
		items = []models.Article{}
	}
	s.items = items
	s.total = total
	s.loading = false
	s.refreshSelectionLocked()
	fn := s.notify
	s.mu.Unlock()
	s.emit(fn, EventArticlesLoaded, map[string]string{})
}

// FailLoad clears the loading flag after a failed fetch, leaving the
// collection as it was. Load failures are recoverable, never fatal.
func (s *Store) FailLoad() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Filters returns a copy of the active filters.
func (s *Store) Filters() filters.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// SetFilters merges a partial, JSON-shaped filter update into the active
// filters (per-field tolerant coercion) and returns the result.
func (s *Store) SetFilters(raw map[string]any) filters.Filters {
	s.mu.Lock()
	s.filters = s.filters.With(raw)
	out := s.filters.Clone()
	fn := s.notify
	s.mu.Unlock()
	s.emit(fn, EventFiltersChanged, map[string]string{"query": filters.Encode(out)})
	return out
}

// ReplaceFilters swaps in a complete filter set.
func (s *Store) ReplaceFilters(f filters.Filters) {
	s.mu.Lock()
	s.filters = f.Clone()
	fn := s.notify
	s.mu.Unlock()
	s.emit(fn, EventFiltersChanged, map[string]string{"query": filters.Encode(f)})
}

// ClearFilters resets the filters to defaults.
func (s *Store) ClearFilters() {
	s.ReplaceFilters(filters.Default())
}

// HydrateFromQuery seeds the filters from an ambient query string. It
// runs at most once per store lifetime: later calls are ignored so the
// URL mirror written back out by filter changes can never re-trigger
// hydration. Returns whether hydration happened.
func (s *Store) HydrateFromQuery(qs string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return false
	}
	s.hydrated = true
	if qs == "" || qs == "?" {
		return true
	}
	s.filters = filters.Decode(qs)
	return true
}

// Select sets the selection to the article with the given id. Returns
// false (selection unchanged) when the id does not resolve.
func (s *Store) Select(articleID string) bool {
	s.mu.Lock()
	var found *models.Article
	for i := range s.items {
		if s.items[i].ID == articleID {
			sel := s.items[i].Clone()
			found = &sel
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return false
	}
	s.selection = found
	fn := s.notify
	s.mu.Unlock()
	s.emit(fn, EventSelectionChanged, map[string]string{"article": articleID})
	return true
}

// ClearSelection drops the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selection = nil
	fn := s.notify
	s.mu.Unlock()
	s.emit(fn, EventSelectionChanged, map[string]string{})
}

// Selection returns a copy of the selected article, or nil.
func (s *Store) Selection() *models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return nil
	}
	sel := s.selection.Clone()
	return &sel
}

// SetEntityBlocked applies the blocked flag to (articleID, entityID).
// Missing ids are a silent no-op.
func (s *Store) SetEntityBlocked(articleID, entityID string, blocked bool) {
	s.annotate(articleID, entityID, func(items []models.Article) []models.Article {
		return SetEntityBlocked(items, articleID, entityID, blocked)
	})
}

// AddAlias appends an alias to (articleID, entityID) with exact-match
// dedup. Missing ids are a silent no-op.
func (s *Store) AddAlias(articleID, entityID, alias string) {
	s.annotate(articleID, entityID, func(items []models.Article) []models.Article {
		return AddAlias(items, articleID, entityID, alias)
	})
}

// RemoveAlias removes an alias from (articleID, entityID). Missing ids or
// an absent alias are a silent no-op.
func (s *Store) RemoveAlias(articleID, entityID, alias string) {
	s.annotate(articleID, entityID, func(items []models.Article) []models.Article {
		return RemoveAlias(items, articleID, entityID, alias)
	})
}

func (s *Store) annotate(articleID, entityID string, op func([]models.Article) []models.Article) {
	s.mu.Lock()
	s.items = op(s.items)
	s.refreshSelectionLocked()
	fn := s.notify
	s.mu.Unlock()
	s.emit(fn, EventEntityUpdated, map[string]string{
		"article": articleID,
		"entity":  entityID,
	})
}

// refreshSelectionLocked re-points the selection at the collection's
// current value for the same article id. Without this a held selection
// would keep showing the pre-mutation article value.
func (s *Store) refreshSelectionLocked() {
	if s.selection == nil {
		return
	}
	for i := range s.items {
		if s.items[i].ID == s.selection.ID {
			sel := s.items[i].Clone()
			s.selection = &sel
			return
		}
	}
	s.selection = nil
}
