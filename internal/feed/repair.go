package feed

import (
	"regexp"
	"strings"

	"github.com/nepaldata/projectgraph/pkg/xmlutil"
)

// tagSpan matches one markup span. Everything between matches is text
// content and is the only part the repair pass may touch.
var tagSpan = regexp.MustCompile(`<[^>]*>`)

// RepairXML escapes stray &, < and > inside text content so that feeds with
// sloppy escaping parse. Markup spans pass through untouched and
// already-valid entities are preserved, so repairing well-formed XML is a
// no-op on meaning.
func RepairXML(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))

	last := 0
	for _, span := range tagSpan.FindAllStringIndex(content, -1) {
		if text := content[last:span[0]]; text != "" {
			sb.WriteString(xmlutil.EscapeText(text))
		}
		sb.WriteString(content[span[0]:span[1]])
		last = span[1]
	}
	if rest := content[last:]; rest != "" {
		sb.WriteString(xmlutil.EscapeText(rest))
	}
	return sb.String()
}
