package normalize

import (
	"strings"

	"github.com/nepaldata/projectgraph/internal/feed"
	"github.com/nepaldata/projectgraph/internal/models"
)

// implementerRoleKeywords mark a participating-org role as the implementing
// agency, matched as case-insensitive substrings.
var implementerRoleKeywords = []string{"implement", "executing", "extending"}

// NormalizeIATIActivity maps one parsed IATI activity to the canonical form.
// Title precedence is explicit title, then the IATI identifier; with neither
// the record is dropped (nil).
func NormalizeIATIActivity(act feed.Activity) *models.CanonicalProject {
	projectID := act.IATIIdentifier
	if projectID == "" && len(act.OtherIdentifiers) > 0 {
		projectID = act.OtherIdentifiers[0].Ref
	}

	title := CleanTitle(act.Title)
	if title == "" {
		title = CleanTitle(act.IATIIdentifier)
	}
	if title == "" {
		return nil
	}

	description := act.Description
	if description == "" {
		description = title
	}

	rec := models.NewCanonicalProject()
	rec.ProjectID = projectID
	rec.Title = title
	rec.Description = description
	rec.ImplementingAgency = implementingAgency(act.ParticipatingOrgs)
	rec.StartDate, rec.EndDate = activityDateRange(act.ActivityDates)

	region := ""
	if len(act.Locations) > 0 {
		region = act.Locations[0].Name
	}
	countryCode := act.RecipientCountry
	if countryCode == "" {
		countryCode = "NP"
	}
	rec.Location = models.ProjectLocation{
		Country:     "Nepal",
		CountryCode: countryCode,
		Region:      region,
	}

	rec.FundingSource = act.ReportingOrgNarrative
	if rec.FundingSource == "" {
		rec.FundingSource = act.ReportingOrgRef
	}
	if rec.FundingSource == "" {
		rec.FundingSource = "Asian Development Bank"
	}

	rec.Sector = sectorString(act.Sectors)
	rec.ImplementationStatus = MapIATIStatus(act.ActivityStatus)
	if strings.Contains(projectID, "P") {
		rec.URL = "https://www.adb.org/projects/" + projectID
	}

	rec.LastUpdated = stamp()
	rec.Source = "ADB (Asian Development Bank)"
	rec.SourceAPI = "ADB IATI XML Feed"
	return rec
}

// implementingAgency scans participating orgs for an implementer-like role,
// then falls back to the first org whose type is not a reporting org.
func implementingAgency(orgs []feed.ParticipatingOrg) string {
	for _, org := range orgs {
		role := strings.ToLower(org.Role)
		for _, kw := range implementerRoleKeywords {
			if strings.Contains(role, kw) {
				if org.Name != "" {
					return org.Name
				}
				return org.Ref
			}
		}
	}
	for _, org := range orgs {
		name := org.Name
		if name == "" {
			name = org.Ref
		}
		if name != "" && !strings.Contains(strings.ToLower(org.Type), "reporting") {
			return name
		}
	}
	return ""
}

// activityDateRange picks the start and end dates from typed activity dates.
// A date is a start when its type contains "start" or is code "1", an end
// when it contains "end" or is code "3". The first match per category wins.
func activityDateRange(dates []feed.ActivityDate) (start, end string) {
	for _, d := range dates {
		if d.ISODate == "" {
			continue
		}
		dt := strings.ToLower(d.Type)
		switch {
		case start == "" && (strings.Contains(dt, "start") || dt == "1"):
			start = d.ISODate
		case end == "" && (strings.Contains(dt, "end") || dt == "3"):
			end = d.ISODate
		}
	}
	return start, end
}

// sectorString joins sector codes as "vocabulary:code" comma separated;
// codes without a vocabulary stand alone.
func sectorString(sectors []feed.Sector) string {
	var sb strings.Builder
	for _, s := range sectors {
		if s.Code == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		if s.Vocabulary != "" {
			sb.WriteString(s.Vocabulary)
			sb.WriteString(":")
		}
		sb.WriteString(s.Code)
	}
	return sb.String()
}
