package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Layouts accepted when re-parsing date cells loaded from a CSV layer.
var parseLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate coerces a cell to a calendar date. Coercion helpers are total:
// unparseable input reports !ok, never an error.
func ParseDate(v Value) (time.Time, bool) {
	if t, ok := v.Time(); ok {
		return t, true
	}
	if v.Kind() != KindString {
		return time.Time{}, false
	}

	s := strings.TrimSpace(v.Str())
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseBool coerces a cell to the strict boolean domain. Null and
// unrecognized text coerce to false; numeric cells are truthy when non-zero.
func ParseBool(v Value) bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.s))
		if err != nil {
			return false
		}
		return b
	default:
		return false
	}
}

// ParseFloat coerces a cell to a numeric value; missing or unparseable
// cells become 0.
func ParseFloat(v Value) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	if v.Kind() != KindString {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseFloatOK is like ParseFloat but distinguishes absent/unparseable cells,
// for aggregations that skip nulls instead of zero-filling them.
func ParseFloatOK(v Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	if v.Kind() != KindString {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
