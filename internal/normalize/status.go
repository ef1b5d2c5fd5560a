package normalize

// iatiStatusText maps IATI activity-status codes to readable status text.
// Unknown codes pass through unmapped.
var iatiStatusText = map[string]string{
	"1": "Pipeline/identification",
	"2": "Implementation",
	"3": "Completion",
	"4": "Closed",
	"5": "Cancelled",
	"6": "Suspended",
}

// MapIATIStatus translates an IATI status code; unrecognized codes are
// returned unchanged.
func MapIATIStatus(code string) string {
	if text, ok := iatiStatusText[code]; ok {
		return text
	}
	return code
}
