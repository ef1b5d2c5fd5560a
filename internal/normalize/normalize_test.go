package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepaldata/projectgraph/internal/feed"
	"github.com/nepaldata/projectgraph/internal/models"
)

func TestNormalizeADBJSON_TitleFallbackChain(t *testing.T) {
	rec := NormalizeADBJSON(map[string]any{
		"title":        "",
		"name":         "Irrigation Scheme",
		"country_code": "NP",
	})
	require.NotNil(t, rec)
	assert.Equal(t, "Irrigation Scheme", rec.Title)
	assert.Equal(t, "NP", rec.Location.CountryCode)
	assert.Equal(t, "Asian Development Bank", rec.FundingSource)
}

func TestNormalizeADBJSON_NoTitleDropsRecord(t *testing.T) {
	assert.Nil(t, NormalizeADBJSON(map[string]any{"description": "no name at all"}))
}

func TestNormalizeADBJSON_NumericIDCoercedToString(t *testing.T) {
	rec := NormalizeADBJSON(map[string]any{"id": float64(53124), "title": "Bridge Works"})
	require.NotNil(t, rec)
	assert.Equal(t, "53124", rec.ProjectID)
	assert.Equal(t, "https://www.adb.org/projects/53124", rec.URL)
}

func TestNormalizeADBJSON_BudgetStaysString(t *testing.T) {
	rec := NormalizeADBJSON(map[string]any{
		"title":        "Hydropower",
		"total_amount": "120.50 million USD",
	})
	require.NotNil(t, rec)
	assert.Equal(t, "120.50 million USD", rec.TotalAllocatedBudget)
}

func TestNormalizeNPC_NestedMinistryAndLocationInfo(t *testing.T) {
	rec := NormalizeNPC(map[string]any{
		"project_name_in_english": "Kathmandu Ring Road Expansion",
		"ministry":                map[string]any{"name": "Ministry of Urban Development"},
		"locationInfo": map[string]any{
			"province": "Bagmati Province",
			"district": "Kathmandu",
		},
	})
	require.NotNil(t, rec)
	assert.Equal(t, "Ministry of Urban Development", rec.ImplementingAgency)
	assert.Equal(t, "Bagmati Province", rec.Location.Province)
	assert.Equal(t, "Kathmandu", rec.Location.District)
	assert.Equal(t, "Government of Nepal", rec.FundingSource)
	assert.Equal(t, "NP", rec.Location.CountryCode)
}

func TestNormalizeWorldBank_Canonical(t *testing.T) {
	rec := NormalizeWorldBank(map[string]any{
		"project_id": "P12345",
		"title":      "  Rural   Electrification  ",
		"location": map[string]any{
			"country":      "Nepal",
			"country_code": "NP",
			"province":     "Gandaki Province",
		},
		"total_allocated_budget": "100000000",
	})
	require.NotNil(t, rec)
	assert.Equal(t, "Rural Electrification", rec.Title)
	assert.Equal(t, "Gandaki Province", rec.Location.Province)
	assert.Equal(t, "World Bank", rec.FundingSource)
	assert.Equal(t, "https://projects.worldbank.org/en/projects/P12345", rec.URL)
}

func TestMapIATIStatus(t *testing.T) {
	assert.Equal(t, "Implementation", MapIATIStatus("2"))
	assert.Equal(t, "Pipeline/identification", MapIATIStatus("1"))
	assert.Equal(t, "Suspended", MapIATIStatus("6"))
	assert.Equal(t, "9", MapIATIStatus("9"))
	assert.Equal(t, "", MapIATIStatus(""))
}

func TestNormalizeIATIActivity_EndToEnd(t *testing.T) {
	lat, lon := 27.7, 85.3
	act := feed.Activity{
		IATIIdentifier:        "XM-DAC-46004-P99",
		Title:                 "Road Upgrade Project",
		ReportingOrgNarrative: "Asian Development Bank",
		ActivityStatus:        "2",
		RecipientCountry:      "NP",
		ParticipatingOrgs: []feed.ParticipatingOrg{
			{Ref: "XM-DAC-46004", Role: "Funding", Type: "40", Name: "Asian Development Bank"},
			{Ref: "NP-MOF", Role: "Implementing", Type: "10", Name: "Department of Roads"},
		},
		ActivityDates: []feed.ActivityDate{
			{ISODate: "2021-01-15", Type: "1"},
			{ISODate: "2026-06-30", Type: "3"},
		},
		Locations: []feed.ActivityLocation{{Name: "Kathmandu", Lat: &lat, Lon: &lon}},
		Sectors:   []feed.Sector{{Code: "21010", Vocabulary: "1"}, {Code: "21020"}},
	}

	rec := NormalizeIATIActivity(act)
	require.NotNil(t, rec)
	assert.Equal(t, "Road Upgrade Project", rec.Title)
	assert.Equal(t, "Implementation", rec.ImplementationStatus)
	assert.Equal(t, "Department of Roads", rec.ImplementingAgency)
	assert.Equal(t, "2021-01-15", rec.StartDate)
	assert.Equal(t, "2026-06-30", rec.EndDate)
	assert.Equal(t, "Kathmandu", rec.Location.Region)
	assert.Equal(t, "1:21010,21020", rec.Sector)
	assert.Equal(t, "Asian Development Bank", rec.FundingSource)
	assert.Equal(t, "https://www.adb.org/projects/XM-DAC-46004-P99", rec.URL)
}

func TestNormalizeIATIActivity_TitleFallsBackToIdentifier(t *testing.T) {
	rec := NormalizeIATIActivity(feed.Activity{IATIIdentifier: "XM-1"})
	require.NotNil(t, rec)
	assert.Equal(t, "XM-1", rec.Title)

	assert.Nil(t, NormalizeIATIActivity(feed.Activity{}))
}

func TestImplementingAgency_FallbackSkipsReportingOrgs(t *testing.T) {
	orgs := []feed.ParticipatingOrg{
		{Role: "Funding", Type: "Reporting Organisation", Name: "ADB"},
		{Role: "Accountable", Type: "10", Name: "Ministry of Finance"},
	}
	assert.Equal(t, "Ministry of Finance", implementingAgency(orgs))

	assert.Equal(t, "", implementingAgency(nil))
}

func TestActivityDateRange_FirstMatchWins(t *testing.T) {
	start, end := activityDateRange([]feed.ActivityDate{
		{ISODate: "2020-01-01", Type: "planned-start"},
		{ISODate: "2020-02-02", Type: "1"},
		{ISODate: "2030-01-01", Type: "actual-end"},
		{ISODate: "2031-01-01", Type: "3"},
	})
	assert.Equal(t, "2020-01-01", start)
	assert.Equal(t, "2030-01-01", end)
}

func TestInScope_CountryFilter(t *testing.T) {
	in := models.NewCanonicalProject()
	in.Location.CountryCode = "NP"
	assert.True(t, InScope(in))

	byName := models.NewCanonicalProject()
	byName.Location.Country = "nepal"
	assert.True(t, InScope(byName))

	out := models.NewCanonicalProject()
	out.Location.CountryCode = "IN"
	out.Location.Country = "India"
	out.Title = "Anything"
	assert.False(t, InScope(out))
}

func TestCanonicalRecordMarshalsEveryField(t *testing.T) {
	rec := NormalizeADBJSON(map[string]any{"title": "Minimal"})
	require.NotNil(t, rec)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	for _, field := range []string{
		"project_id", "title", "description", "implementing_agency",
		"start_date", "end_date", "location", "funding_source",
		"total_allocated_budget", "real_time_spending", "loan_amount",
		"grant_amount", "physical_progress", "financial_progress",
		"borrower", "sector", "major_theme", "environmental_category",
		"implementation_status", "url", "project_document_url",
		"milestones", "yearly_budget_breakdown", "cost_overruns",
		"reports", "verification_documents", "photos",
		"contractor_change_log", "last_updated", "source", "source_api",
	} {
		_, present := asMap[field]
		assert.True(t, present, "missing field %s", field)
	}
	assert.Equal(t, []any{}, asMap["milestones"])
	assert.Equal(t, map[string]any{}, asMap["cost_overruns"])
}
