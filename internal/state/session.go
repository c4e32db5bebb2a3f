package state

import (
	"encoding/json"
	"log/slog"

	"github.com/sietev/posverdad/internal/filters"
)

// Session is the persisted slice of store state: the filters (as their
// canonical query-string encoding, which the codec can always decode
// tolerantly) and the selected article id. Items are not persisted; they
// are refetched from the data source, and the selection id is re-resolved
// against the fresh collection.
type Session struct {
	Query       string `json:"query"`
	SelectionID string `json:"selection_id,omitempty"`
}

// Prefs are small table preferences.
type Prefs struct {
	PageSize int             `json:"page_size"`
	Columns  map[string]bool `json:"columns,omitempty"`
}

// DefaultPrefs mirrors the UI defaults: 20 rows, every column visible.
func DefaultPrefs() Prefs {
	return Prefs{PageSize: 20, Columns: map[string]bool{}}
}

// SaveSession stores the session blob.
func (db *DB) SaveSession(f filters.Filters, selectionID string) error {
	blob, err := json.Marshal(Session{
		Query:       filters.Encode(f),
		SelectionID: selectionID,
	})
	if err != nil {
		return err
	}
	return db.Put(KeySession, blob)
}

// LoadSession restores persisted filters and selection id. Malformed or
// missing content degrades to defaults; stored-state corruption is never
// an error surfaced to the caller beyond a log line.
func (db *DB) LoadSession(logger *slog.Logger) (filters.Filters, string) {
	blob, ok, err := db.Get(KeySession)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("state: session read failed", slog.String("error", err.Error()))
		}
		return filters.Default(), ""
	}
	var s Session
	if err := json.Unmarshal(blob, &s); err != nil {
		logger.Warn("state: malformed session blob, using defaults",
			slog.String("error", err.Error()))
		return filters.Default(), ""
	}
	return filters.Decode(s.Query), s.SelectionID
}

// SavePrefs stores page size and column visibility.
func (db *DB) SavePrefs(p Prefs) error {
	size, err := json.Marshal(p.PageSize)
	if err != nil {
		return err
	}
	if err := db.Put(KeyPageSize, size); err != nil {
		return err
	}
	cols, err := json.Marshal(p.Columns)
	if err != nil {
		return err
	}
	return db.Put(KeyColumns, cols)
}

// LoadPrefs restores preferences, falling back per-field to defaults on
// malformed content.
func (db *DB) LoadPrefs(logger *slog.Logger) Prefs {
	p := DefaultPrefs()

	if blob, ok, err := db.Get(KeyPageSize); err == nil && ok {
		var size int
		if err := json.Unmarshal(blob, &size); err == nil && size > 0 {
			p.PageSize = size
		} else {
			logger.Warn("state: malformed page size, using default")
		}
	}
	if blob, ok, err := db.Get(KeyColumns); err == nil && ok {
		var cols map[string]bool
		if err := json.Unmarshal(blob, &cols); err == nil && cols != nil {
			p.Columns = cols
		} else {
			logger.Warn("state: malformed column prefs, using default")
		}
	}
	return p
}
