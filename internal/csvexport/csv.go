// Package csvexport serializes article rows for download.
package csvexport

import (
	"strconv"
	"strings"
	"time"

	"github.com/sietev/posverdad/internal/models"
)

// Header is the fixed export column order. It is part of the external
// contract: downstream spreadsheets key on these names.
var Header = []string{
	"id", "title", "url", "source", "published_at",
	"len_chars", "polarity", "subjectivity",
}

// Marshal renders one CSV line per article in Header order. Any field
// containing a comma, quote, or newline is quoted with doubled internal
// quotes.
func Marshal(rows []models.Article) string {
	var b strings.Builder
	b.WriteString(strings.Join(Header, ","))
	b.WriteByte('\n')
	for _, a := range rows {
		fields := []string{
			escape(a.ID),
			escape(a.Title),
			escape(a.URL),
			escape(a.Source),
			a.PublishedAt.Format(time.RFC3339),
			strconv.Itoa(a.LenChars),
			strconv.FormatFloat(a.Polarity, 'f', -1, 64),
			strconv.FormatFloat(a.Subjectivity, 'f', -1, 64),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func escape(val string) string {
	if !strings.ContainsAny(val, ",\"\n\r") {
		return val
	}
	return `"` + strings.ReplaceAll(val, `"`, `""`) + `"`
}
