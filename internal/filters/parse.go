package filters

import (
	"encoding/json"
	"fmt"
	"time"
)

// Parse coerces a JSON-shaped object into a complete Filters value.
// Coercion is per-field: a malformed field degrades to its default
// instead of failing the whole object. Only a structurally impossible
// input (raw == nil, i.e. not an object) is a hard error.
func Parse(raw map[string]any) (Filters, error) {
	if raw == nil {
		return Default(), fmt.Errorf("filters: input is not an object")
	}
	return Default().With(raw), nil
}

// With returns a copy of f with the fields present in raw applied on top.
// Absent keys keep their current value; present-but-malformed values
// degrade to that field's default. Unknown keys are ignored.
func (f Filters) With(raw map[string]any) Filters {
	out := f.Clone()
	for key, v := range raw {
		switch key {
		case "q":
			out.Q = coerceString(v)
		case "sources":
			out.Sources = coerceStrings(v)
		case "dateFrom":
			out.DateFrom = coerceTime(v)
		case "dateTo":
			out.DateTo = coerceTime(v)
		case "lenMin":
			out.LenMin = coerceNumber(v)
		case "lenMax":
			out.LenMax = coerceNumber(v)
		case "polMin":
			out.PolMin = coerceNumber(v)
		case "polMax":
			out.PolMax = coerceNumber(v)
		case "subMin":
			out.SubMin = coerceNumber(v)
		case "subMax":
			out.SubMax = coerceNumber(v)
		}
	}
	return out
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func coerceStrings(v any) []string {
	out := []string{}
	switch vv := v.(type) {
	case []string:
		out = append(out, vv...)
	case []any:
		for _, it := range vv {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceNumber(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func coerceTime(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return parseTimestamp(s)
}

// parseTimestamp accepts RFC 3339 or a bare calendar date. Anything else
// decodes to nil rather than an error.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}
