package migrate

import (
	"github.com/nepaldata/projectgraph/internal/models"
	"github.com/nepaldata/projectgraph/internal/normalize"
)

// PayloadKind distinguishes how a source's cached payload is parsed.
type PayloadKind string

const (
	PayloadJSON PayloadKind = "json"
	PayloadIATI PayloadKind = "iati"
)

// Source describes one upstream data feed: where its cached payload lives,
// how to parse it, and how each raw record becomes a canonical project.
type Source struct {
	Name        string
	Prefix      string
	PayloadFile string
	Kind        PayloadKind
	// NormalizeJSON maps one raw JSON record to a canonical project. For
	// IATI sources it serves the JSON fallback payload only.
	NormalizeJSON func(map[string]any) *models.CanonicalProject
	// JSONFallbackFile, when set on an IATI source, is a cached JSON
	// payload used if the XML payload is absent.
	JSONFallbackFile string
	Attribution      models.Attribution
}

// Sources is the fixed set of feeds processed per run, in order.
var Sources = []Source{
	{
		Name:          "world_bank",
		Prefix:        "wb",
		PayloadFile:   "world_bank_projects.json",
		Kind:          PayloadJSON,
		NormalizeJSON: normalize.NormalizeWorldBank,
		Attribution: models.Attribution{
			TitleEN:   "World Bank Projects & Operations",
			DetailsEN: "Imported from the World Bank projects API for Nepal.",
		},
	},
	{
		Name:             "adb",
		Prefix:           "adb",
		PayloadFile:      "adb_nepal_iati.xml",
		Kind:             PayloadIATI,
		NormalizeJSON:    normalize.NormalizeADBJSON,
		JSONFallbackFile: "adb_projects.json",
		Attribution: models.Attribution{
			TitleEN:   "Asian Development Bank IATI Feed",
			DetailsEN: "Imported from ADB's IATI activity feed for Nepal.",
		},
	},
	{
		Name:          "npc",
		Prefix:        "npc",
		PayloadFile:   "npc_projects.json",
		Kind:          PayloadJSON,
		NormalizeJSON: normalize.NormalizeNPC,
		Attribution: models.Attribution{
			TitleEN:   "National Planning Commission Project Bank",
			TitleNE:   "राष्ट्रिय योजना आयोग परियोजना बैंक",
			DetailsEN: "Imported from the NPBMIS project bank of Nepal's National Planning Commission.",
			DetailsNE: "नेपालको राष्ट्रिय योजना आयोगको परियोजना बैंकबाट आयात गरिएको।",
		},
	},
}

// SourceByName returns the source descriptor for name, or nil.
func SourceByName(name string) *Source {
	for i := range Sources {
		if Sources[i].Name == name {
			return &Sources[i]
		}
	}
	return nil
}
