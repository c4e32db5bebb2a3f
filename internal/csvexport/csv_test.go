package csvexport

import (
	"strings"
	"testing"
	"time"

	"github.com/sietev/posverdad/internal/models"
)

func TestMarshalHeaderAndOrder(t *testing.T) {
	got := Marshal(nil)
	want := "id,title,url,source,published_at,len_chars,polarity,subjectivity\n"
	if got != want {
		t.Fatalf("empty export = %q, want header only", got)
	}
}

func TestMarshalRow(t *testing.T) {
	a := models.Article{
		ID: "a-1", Title: "Prueba 1", URL: "https://ejemplo.cl/nota/1",
		Source: "Fuente X", PublishedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		LenChars: 1200, Polarity: 0.1, Subjectivity: 0.3,
	}
	got := Marshal([]models.Article{a})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	want := "a-1,Prueba 1,https://ejemplo.cl/nota/1,Fuente X,2024-05-10T12:00:00Z,1200,0.1,0.3"
	if lines[1] != want {
		t.Fatalf("row = %q, want %q", lines[1], want)
	}
}

func TestMarshalQuoting(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`plain`, `plain`},
		{`has,comma`, `"has,comma"`},
		{`has "quotes"`, `"has ""quotes"""`},
		{"line\nbreak", "\"line\nbreak\""},
		{"carriage\rreturn", "\"carriage\rreturn\""},
	}
	for _, tc := range cases {
		if got := escape(tc.in); got != tc.want {
			t.Errorf("escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
