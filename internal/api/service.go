package api

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sietev/posverdad/internal/apperr"
	"github.com/sietev/posverdad/internal/bulk"
	"github.com/sietev/posverdad/internal/csvexport"
	"github.com/sietev/posverdad/internal/filters"
	"github.com/sietev/posverdad/internal/models"
	"github.com/sietev/posverdad/internal/source"
	"github.com/sietev/posverdad/internal/state"
	"github.com/sietev/posverdad/internal/store"
	"github.com/sietev/posverdad/internal/view"
)

// Service coordinates the article store, the state DB, and the data
// source for the API layer. It also owns the query debouncer, so rapid
// PATCH /filters/q calls collapse into one committed filter change.
type Service struct {
	store    *store.Store
	db       *state.DB
	bulk     *bulk.Coordinator
	provider source.Provider
	logger   *slog.Logger
	query    *store.Debouncer
}

// NewService creates a new API service. db and coord may be nil
// (no persistence, bulk disabled).
func NewService(st *store.Store, db *state.DB, coord *bulk.Coordinator, p source.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{store: st, db: db, bulk: coord, provider: p, logger: logger}
	s.query = store.NewDebouncer(store.DefaultQuietWindow, func(q string) {
		st.SetFilters(map[string]any{"q": q})
		s.persistSession()
	})
	return s
}

// Close stops the query debouncer, dropping any pending commit.
func (s *Service) Close() {
	s.query.Stop()
}

// Bulk returns the bulk coordinator, or nil when the feature is off.
func (s *Service) Bulk() *bulk.Coordinator { return s.bulk }

// Articles derives the current page of articles. rawQuery seeds the
// store's filters on the first call only; afterwards the store's own
// filters rule and the query string is just the mirror written back out.
func (s *Service) Articles(rawQuery string, srt view.Sort, page view.Page) ArticlesPage {
	s.store.HydrateFromQuery(rawQuery)

	snap := s.store.Snapshot()
	if page.Size <= 0 {
		page.Size = s.Prefs().PageSize
	}
	v := view.Derive(snap.Items, snap.Filters, srt, page)
	return ArticlesPage{
		Articles:      v.Rows,
		TotalFiltered: v.TotalFiltered,
		Total:         snap.Total,
		Query:         snap.QueryString(),
	}
}

// Article resolves a single article by id.
func (s *Service) Article(id string) (models.Article, error) {
	snap := s.store.Snapshot()
	for _, a := range snap.Items {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Article{}, fmt.Errorf("article %q: %w", id, apperr.ErrNotFound)
}

// Filters returns the active filters and their canonical encoding.
func (s *Service) Filters() FiltersState {
	f := s.store.Filters()
	return FiltersState{Filters: f, Query: filters.Encode(f)}
}

// UpdateFilters merges a partial JSON-shaped update into the active
// filters and persists the session.
func (s *Service) UpdateFilters(raw map[string]any) FiltersState {
	f := s.store.SetFilters(raw)
	s.persistSession()
	return FiltersState{Filters: f, Query: filters.Encode(f)}
}

// ResetFilters restores the default filter set.
func (s *Service) ResetFilters() FiltersState {
	s.store.ClearFilters()
	s.persistSession()
	return s.Filters()
}

// SetQuery feeds one keystroke-level query value into the debouncer.
// Only the last value inside the quiet window commits.
func (s *Service) SetQuery(q string) {
	s.query.Set(q)
}

// FlushQuery commits a pending debounced query immediately.
func (s *Service) FlushQuery() {
	s.query.Flush()
}

// Sources returns the distinct source names in the collection, sorted.
func (s *Service) Sources() []string {
	snap := s.store.Snapshot()
	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range snap.Items {
		if _, ok := seen[a.Source]; ok {
			continue
		}
		seen[a.Source] = struct{}{}
		out = append(out, a.Source)
	}
	sort.Strings(out)
	return out
}

// Select marks an article as selected. Returns false when the id does
// not resolve against the collection.
func (s *Service) Select(articleID string) bool {
	if !s.store.Select(articleID) {
		return false
	}
	s.persistSession()
	return true
}

// ClearSelection drops the selection.
func (s *Service) ClearSelection() {
	s.store.ClearSelection()
	s.persistSession()
}

// Selection returns the selected article, or nil.
func (s *Service) Selection() *models.Article {
	return s.store.Selection()
}

// SetEntityBlocked flips the blocked flag on one entity. Unresolved ids
// leave the collection unchanged.
func (s *Service) SetEntityBlocked(articleID, entityID string, blocked bool) {
	s.store.SetEntityBlocked(articleID, entityID, blocked)
}

// AddAlias appends an alias to one entity, deduplicated by exact match.
func (s *Service) AddAlias(articleID, entityID, alias string) {
	s.store.AddAlias(articleID, entityID, alias)
}

// RemoveAlias removes an alias from one entity.
func (s *Service) RemoveAlias(articleID, entityID, alias string) {
	s.store.RemoveAlias(articleID, entityID, alias)
}

// ExportCSV renders the filtered and sorted collection (no pagination)
// as CSV.
func (s *Service) ExportCSV(srt view.Sort) string {
	snap := s.store.Snapshot()
	v := view.Derive(snap.Items, snap.Filters, srt, view.Page{Size: len(snap.Items) + 1})
	return csvexport.Marshal(v.Rows)
}

// Reload re-fetches the collection from the data source. The store's
// load gate rejects a second concurrent reload.
func (s *Service) Reload(ctx context.Context) error {
	if s.provider == nil {
		return fmt.Errorf("reload: no data source configured")
	}
	return source.Load(ctx, s.store, s.provider, s.logger)
}

// Prefs returns the persisted table preferences, or defaults.
func (s *Service) Prefs() state.Prefs {
	if s.db == nil {
		return state.DefaultPrefs()
	}
	return s.db.LoadPrefs(s.logger)
}

// SavePrefs persists table preferences to the state DB.
func (s *Service) SavePrefs(p state.Prefs) error {
	if s.db == nil {
		return nil
	}
	return s.db.SavePrefs(p)
}

// persistSession mirrors the filter and selection state into the state
// DB so the next session starts where this one left off.
func (s *Service) persistSession() {
	if s.db == nil {
		return
	}
	snap := s.store.Snapshot()
	selID := ""
	if snap.Selection != nil {
		selID = snap.Selection.ID
	}
	if err := s.db.SaveSession(snap.Filters, selID); err != nil {
		s.logger.Warn("session save failed", slog.String("error", err.Error()))
	}
}
