package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairXML_StrayAmpersandAndAngleBracket(t *testing.T) {
	broken := `<iati-activities>
  <iati-activity>
    <title><narrative>Roads &amp; Bridges</narrative></title>
    <description><narrative>Cost & benefit > analysis</narrative></description>
  </iati-activity>
</iati-activities>`

	activities, err := ParseIATIXML("adb", broken)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Roads & Bridges", activities[0].Title)
	assert.Equal(t, "Cost & benefit > analysis", activities[0].Description)
}

func TestRepairXML_DoesNotDoubleEscapeEntities(t *testing.T) {
	in := `<a>fish &amp; chips &lt;cheap&gt; &quot;daily&quot; &apos;special&apos; &#233; &#x41;</a>`
	assert.Equal(t, in, RepairXML(in))
}

func TestRepairXML_EscapesOnlyTextSpans(t *testing.T) {
	in := `<a attr="x & y">m & n</a>`
	out := RepairXML(in)
	assert.Equal(t, `<a attr="x & y">m &amp; n</a>`, out)
}

func TestRepairXML_TrailingTextOutsideTags(t *testing.T) {
	assert.Equal(t, `<a>ok</a> tail &amp; end`, RepairXML(`<a>ok</a> tail & end`))
}

func TestRepairXML_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RepairXML(""))
}
