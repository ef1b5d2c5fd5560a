package xmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeTextBareCharacters(t *testing.T) {
	assert.Equal(t, "Cost &amp; benefit &gt; analysis", EscapeText("Cost & benefit > analysis"))
	assert.Equal(t, "a &lt; b", EscapeText("a < b"))
}

func TestEscapeTextPreservesValidEntities(t *testing.T) {
	in := "&amp; &lt; &gt; &quot; &apos; &#169; &#x00A9;"
	assert.Equal(t, in, EscapeText(in))
}

func TestEscapeTextMixed(t *testing.T) {
	assert.Equal(t, "Roads &amp; Bridges &amp; more", EscapeText("Roads &amp; Bridges & more"))
}

func TestEscapeTextEmpty(t *testing.T) {
	assert.Equal(t, "", EscapeText(""))
}
