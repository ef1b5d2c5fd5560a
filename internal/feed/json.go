package feed

import "encoding/json"

// collectionKeys are the conventional envelope keys API responses nest their
// record arrays under, tried in order.
var collectionKeys = []string{"data", "projects", "results", "items", "entities", "result"}

// ExtractJSONRecords locates the per-record objects in a JSON API payload.
//
// A top-level array is a batch of records; a bare object with no recognized
// envelope key is a single-record batch. Otherwise the first envelope key
// present wins, including the NPBMIS double nesting where "projects" holds
// another {"projects": [...]} object. Non-object elements are dropped.
func ExtractJSONRecords(provider string, payload []byte) ([]map[string]any, error) {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, &ParseError{Provider: provider, Err: err}
	}
	return recordsFromValue(data), nil
}

func recordsFromValue(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		return objectsOf(v)
	case map[string]any:
		for _, key := range collectionKeys {
			nested, ok := v[key]
			if !ok {
				continue
			}
			switch inner := nested.(type) {
			case []any:
				return objectsOf(inner)
			case map[string]any:
				// NPBMIS wraps the list one level deeper under the same key.
				if deeper, ok := inner[key].([]any); ok {
					return objectsOf(deeper)
				}
				return []map[string]any{inner}
			}
		}
		// No envelope: the object itself is one record.
		return []map[string]any{v}
	}
	return nil
}

func objectsOf(items []any) []map[string]any {
	var out []map[string]any
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
