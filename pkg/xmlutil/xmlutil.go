// Package xmlutil provides XML escaping utilities for repairing feed
// payloads that contain unescaped markup characters in text content.
package xmlutil

import (
	"regexp"
	"strings"
)

// entityOrAmp matches either an already-valid XML entity (the five
// predefined names plus decimal and hex character references) or a bare
// ampersand. Matching valid entities first keeps them from being escaped a
// second time.
var entityOrAmp = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#[0-9]+|#x[0-9a-fA-F]+);|&`)

// EscapeText escapes &, < and > in XML text content while leaving
// already-valid entities untouched. It must only be applied to text spans,
// never to markup.
func EscapeText(s string) string {
	s = entityOrAmp.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
