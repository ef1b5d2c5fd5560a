package builder

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

const (
	// maxSlugLength bounds every generated slug.
	maxSlugLength = 100
	// truncMarker tags slugs that were cut to fit the length bound.
	truncMarker = "-trunc"
	// maxSlugAttempts bounds the collision retry loop.
	maxSlugAttempts = 1000
)

// DeriveSlug builds the base slug for a project. The cleaned title is
// slugified; if that yields fewer than 3 characters the provider-prefixed
// project ID is used, and failing that a prefixed "unknown" slug.
func DeriveSlug(title, providerPrefix, projectID string) string {
	s := slug.Make(title)
	if len(s) < 3 {
		s = slug.Make(providerPrefix + "-" + projectID)
	}
	if len(s) < 3 {
		s = slug.Make(providerPrefix + "-unknown")
	}
	return truncateSlug(s)
}

// truncateSlug enforces the length bound, marking truncated slugs.
func truncateSlug(s string) string {
	if len(s) <= maxSlugLength {
		return s
	}
	cut := s[:maxSlugLength-len(truncMarker)]
	cut = strings.TrimRight(cut, "-")
	return cut + truncMarker
}

// candidateSlug returns the slug to try on the given attempt (1-based).
// Attempts past the first append an incrementing numeric suffix, re-truncating
// the base so the result never exceeds the bound.
func candidateSlug(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	suffix := fmt.Sprintf("-%d", attempt)
	if len(base)+len(suffix) > maxSlugLength {
		base = strings.TrimRight(base[:maxSlugLength-len(suffix)], "-")
	}
	return base + suffix
}
