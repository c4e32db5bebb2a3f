// Package filters implements the article filter model and its
// query-string codec.
//
// A nil bound means "unconstrained on that dimension"; it is never the
// same thing as zero. The zero values that are not pointers (Q, Sources)
// use emptiness for the same purpose.
package filters

import (
	"time"
)

// Filters is the predicate set narrowing the article collection.
type Filters struct {
	Q       string   `json:"q"`
	Sources []string `json:"sources"`

	DateFrom *time.Time `json:"dateFrom"`
	DateTo   *time.Time `json:"dateTo"`

	LenMin *float64 `json:"lenMin"`
	LenMax *float64 `json:"lenMax"`
	PolMin *float64 `json:"polMin"`
	PolMax *float64 `json:"polMax"`
	SubMin *float64 `json:"subMin"`
	SubMax *float64 `json:"subMax"`
}

// Default returns the all-unconstrained filter set. Sources is a non-nil
// empty slice so that decoded and constructed values compare deep-equal.
func Default() Filters {
	return Filters{Sources: []string{}}
}

// Clone returns a deep copy. Pointer fields are re-boxed so the copy can
// never alias the original's bounds.
func (f Filters) Clone() Filters {
	out := f
	out.Sources = append([]string{}, f.Sources...)
	out.DateFrom = cloneTime(f.DateFrom)
	out.DateTo = cloneTime(f.DateTo)
	out.LenMin = cloneFloat(f.LenMin)
	out.LenMax = cloneFloat(f.LenMax)
	out.PolMin = cloneFloat(f.PolMin)
	out.PolMax = cloneFloat(f.PolMax)
	out.SubMin = cloneFloat(f.SubMin)
	out.SubMax = cloneFloat(f.SubMax)
	return out
}

// IsDefault reports whether every field is at its unconstrained value.
func (f Filters) IsDefault() bool {
	return f.Q == "" && len(f.Sources) == 0 &&
		f.DateFrom == nil && f.DateTo == nil &&
		f.LenMin == nil && f.LenMax == nil &&
		f.PolMin == nil && f.PolMax == nil &&
		f.SubMin == nil && f.SubMax == nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
