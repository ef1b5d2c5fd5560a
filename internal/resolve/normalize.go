// Package resolve normalizes free-text administrative names and resolves
// them against an in-memory index of existing location entities.
package resolve

import "strings"

// nameSuffixes are the administrative suffixes stripped during name
// normalization, English and Nepali forms, in match order. Only the first
// matching suffix is stripped, and only once.
var nameSuffixes = []string{
	"province",
	"pradesh",
	"प्रदेश",
	"district",
	"जिल्ला",
	"metropolitan city",
	"महानगरपालिका",
	"sub metropolitan city",
	"sub-metropolitan city",
	"उपमहानगरपालिका",
	"municipality",
	"नगरपालिका",
	"rural municipality",
	"गाउँपालिका",
}

// nameAliases corrects known misspellings and variants. Keys and values are
// both in normalized form; lookup is exact match only.
var nameAliases = map[string]string{
	"sankhuwasava":    "sankhuwasabha",
	"panchthar":       "pachthar",
	"madesh":          "madhesh",
	"sidhupalchowk":   "sindhupalchok",
	"kavrepalanchowk": "kavrepalanchok",
	"makawanpur":      "makwanpur",
	"chitawan":        "chitwan",
	"parbat":          "parwat",
	"rukumkot":        "eastern rukum",
	"arghakhachi":     "arghakhanchi",
	"nawalparasi":     "nawalpur",
	"rukum":           "western rukum",
	"sudurpashchim":   "sudur paschimanchal",
	"achham":          "acham",
}

// NormalizeName lowercases, trims, replaces commas with spaces, collapses
// internal whitespace and strips at most one administrative suffix. The
// procedure is idempotent: normalizing a normalized name is a no-op.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.Join(strings.Fields(s), " ")
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			s = strings.Join(strings.Fields(s), " ")
			break
		}
	}
	return s
}

// CanonicalKey normalizes a name and applies the alias table.
func CanonicalKey(name string) string {
	key := NormalizeName(name)
	if alias, ok := nameAliases[key]; ok {
		return alias
	}
	return key
}

// rawKey is the non-normalized fallback key: lowercased and trimmed only.
func rawKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
