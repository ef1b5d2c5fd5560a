// Package normalize maps provider-specific raw records onto the canonical
// project record. Each provider's field quirks live in one accessor table;
// the first accessor returning a non-empty value wins.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/nepaldata/projectgraph/internal/models"
)

// accessor extracts one candidate string value from a raw record.
type accessor func(raw map[string]any) string

// key reads a top-level key.
func key(name string) accessor {
	return func(raw map[string]any) string {
		return stringify(raw[name])
	}
}

// nested reads a path of object keys, e.g. nested("ministry", "name").
func nested(path ...string) accessor {
	return func(raw map[string]any) string {
		cur := any(raw)
		for _, p := range path {
			obj, ok := cur.(map[string]any)
			if !ok {
				return ""
			}
			cur = obj[p]
		}
		return stringify(cur)
	}
}

// first evaluates accessors in order and returns the first non-empty value.
func first(raw map[string]any, accessors []accessor) string {
	for _, acc := range accessors {
		if v := strings.TrimSpace(acc(raw)); v != "" {
			return v
		}
	}
	return ""
}

// firstOr is first with a default when every accessor comes up empty.
func firstOr(raw map[string]any, accessors []accessor, def string) string {
	if v := first(raw, accessors); v != "" {
		return v
	}
	return def
}

// stringify coerces scalar JSON values to their string form. Budgets,
// amounts and progress percentages stay strings on purpose: parsing them as
// numbers would lose provider-specific formatting.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// listField returns the first present list value among the given keys.
func listField(raw map[string]any, keys ...string) []any {
	for _, k := range keys {
		if v, ok := raw[k].([]any); ok {
			return v
		}
	}
	return []any{}
}

// mapField returns the first present object value among the given keys.
func mapField(raw map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := raw[k].(map[string]any); ok {
			return v
		}
	}
	return map[string]any{}
}

func toUpper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// CleanTitle collapses runs of whitespace and trims the result.
func CleanTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

// InScope reports whether a canonical record belongs to this pipeline:
// country code NP, or country name "Nepal" in any casing.
func InScope(rec *models.CanonicalProject) bool {
	return rec.Location.CountryCode == "NP" ||
		strings.EqualFold(strings.TrimSpace(rec.Location.Country), "Nepal")
}

// stamp is the normalization-time value for last_updated.
func stamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
