package filters

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query-string parameter names. These are a public contract: shared and
// bookmarked URLs must stay valid across releases, so the names never
// change.
const (
	ParamQ        = "q"
	ParamSource   = "source"
	ParamDateFrom = "from"
	ParamDateTo   = "to"
	ParamLenMin   = "lenMin"
	ParamLenMax   = "lenMax"
	ParamPolMin   = "polMin"
	ParamPolMax   = "polMax"
	ParamSubMin   = "subMin"
	ParamSubMax   = "subMax"
)

// Encode serializes f as a query string with a leading "?". Fields at
// their default value are omitted, so Encode(Default()) returns the empty
// string. Sources are encoded as repeated source= parameters. Parameter
// order is fixed rather than alphabetical so encoded URLs are stable.
func Encode(f Filters) string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	if f.Q != "" {
		add(ParamQ, f.Q)
	}
	for _, s := range f.Sources {
		add(ParamSource, s)
	}
	if f.DateFrom != nil {
		add(ParamDateFrom, f.DateFrom.Format(time.RFC3339))
	}
	if f.DateTo != nil {
		add(ParamDateTo, f.DateTo.Format(time.RFC3339))
	}
	addNum := func(key string, v *float64) {
		if v != nil {
			add(key, strconv.FormatFloat(*v, 'f', -1, 64))
		}
	}
	addNum(ParamLenMin, f.LenMin)
	addNum(ParamLenMax, f.LenMax)
	addNum(ParamPolMin, f.PolMin)
	addNum(ParamPolMax, f.PolMax)
	addNum(ParamSubMin, f.SubMin)
	addNum(ParamSubMax, f.SubMax)

	return b.String()
}

// Decode parses a query string (with or without the leading "?") into a
// complete Filters value. Decoding is permissive and never fails: a
// malformed numeric or date parameter decodes to nil, unknown keys are
// ignored, and an unparsable query string yields whatever url.ParseQuery
// salvaged.
func Decode(qs string) Filters {
	qs = strings.TrimPrefix(qs, "?")
	values, _ := url.ParseQuery(qs)
	return FromValues(values)
}

// FromValues builds Filters from already-parsed URL parameters.
func FromValues(values url.Values) Filters {
	f := Default()
	f.Q = values.Get(ParamQ)
	if srcs, ok := values[ParamSource]; ok {
		f.Sources = append(f.Sources, srcs...)
	}
	f.DateFrom = parseTimestamp(values.Get(ParamDateFrom))
	f.DateTo = parseTimestamp(values.Get(ParamDateTo))
	f.LenMin = parseNumber(values.Get(ParamLenMin))
	f.LenMax = parseNumber(values.Get(ParamLenMax))
	f.PolMin = parseNumber(values.Get(ParamPolMin))
	f.PolMax = parseNumber(values.Get(ParamPolMax))
	f.SubMin = parseNumber(values.Get(ParamSubMin))
	f.SubMax = parseNumber(values.Get(ParamSubMax))
	return f
}

// parseNumber accepts finite numbers only. ParseFloat also recognizes
// "NaN" and "Inf" tokens; those make useless bounds and decode to nil.
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}
