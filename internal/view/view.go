// Package view derives the renderable row set from raw collection state:
// filter, then sort, then paginate. Everything here is a pure function;
// the derived view is never stored.
package view

import (
	"sort"
	"strings"

	"github.com/sietev/posverdad/internal/filters"
	"github.com/sietev/posverdad/internal/models"
)

// DefaultPageSize matches the UI default.
const DefaultPageSize = 20

// Column identifies a sortable article column.
type Column string

// Sortable columns.
const (
	ColTitle        Column = "title"
	ColSource       Column = "source"
	ColPublishedAt  Column = "published_at"
	ColLenChars     Column = "len_chars"
	ColPolarity     Column = "polarity"
	ColSubjectivity Column = "subjectivity"
)

// Sort is a single-column sort spec. The zero value means "keep the
// collection's original order".
type Sort struct {
	Column Column
	Desc   bool
}

// Page selects a zero-based page of the filtered result.
type Page struct {
	Index int
	Size  int
}

// View is the derived row set plus the filtered-but-unpaginated count,
// exposed separately from the collection size for "showing N of M".
type View struct {
	Rows          []models.Article
	TotalFiltered int
}

// Derive filters, sorts, and paginates items. Unknown sort columns are
// ignored; a page past the end yields zero rows, never an error.
func Derive(items []models.Article, f filters.Filters, s Sort, p Page) View {
	rows := make([]models.Article, 0, len(items))
	for _, a := range items {
		if Matches(a, f) {
			rows = append(rows, a)
		}
	}
	total := len(rows)

	if less := lessFunc(s); less != nil {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	}

	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	start := p.Index * size
	if p.Index < 0 || start >= total {
		return View{Rows: []models.Article{}, TotalFiltered: total}
	}
	end := start + size
	if end > total {
		end = total
	}
	return View{Rows: rows[start:end], TotalFiltered: total}
}

// Matches reports whether a passes every active filter. All predicates
// are AND-combined; a nil or empty filter field is a no-op. All bounds,
// dates included, are inclusive, and dates compare as timestamps.
func Matches(a models.Article, f filters.Filters) bool {
	if f.Q != "" {
		hay := strings.ToLower(a.Title + " " + a.URL)
		if !strings.Contains(hay, strings.ToLower(f.Q)) {
			return false
		}
	}
	if len(f.Sources) > 0 && !contains(f.Sources, a.Source) {
		return false
	}
	if f.LenMin != nil && float64(a.LenChars) < *f.LenMin {
		return false
	}
	if f.LenMax != nil && float64(a.LenChars) > *f.LenMax {
		return false
	}
	if f.PolMin != nil && a.Polarity < *f.PolMin {
		return false
	}
	if f.PolMax != nil && a.Polarity > *f.PolMax {
		return false
	}
	if f.SubMin != nil && a.Subjectivity < *f.SubMin {
		return false
	}
	if f.SubMax != nil && a.Subjectivity > *f.SubMax {
		return false
	}
	if f.DateFrom != nil && a.PublishedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && a.PublishedAt.After(*f.DateTo) {
		return false
	}
	return true
}

func lessFunc(s Sort) func(a, b models.Article) bool {
	var asc func(a, b models.Article) bool
	switch s.Column {
	case ColTitle:
		asc = func(a, b models.Article) bool { return a.Title < b.Title }
	case ColSource:
		asc = func(a, b models.Article) bool { return a.Source < b.Source }
	case ColPublishedAt:
		asc = func(a, b models.Article) bool { return a.PublishedAt.Before(b.PublishedAt) }
	case ColLenChars:
		asc = func(a, b models.Article) bool { return a.LenChars < b.LenChars }
	case ColPolarity:
		asc = func(a, b models.Article) bool { return a.Polarity < b.Polarity }
	case ColSubjectivity:
		asc = func(a, b models.Article) bool { return a.Subjectivity < b.Subjectivity }
	default:
		return nil
	}
	if !s.Desc {
		return asc
	}
	return func(a, b models.Article) bool { return asc(b, a) }
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
