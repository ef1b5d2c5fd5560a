// Package feed converts raw provider payloads — IATI activity XML or JSON
// API responses — into flat per-record structures for normalization.
package feed

import "fmt"

// ParseError indicates a payload that could not be parsed even after the
// repair pass. The source yields zero records for the run; the error is
// logged by the orchestrator, never fatal to the overall migration.
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s payload: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParticipatingOrg is one participating-org element of an activity.
type ParticipatingOrg struct {
	Ref  string `json:"ref"`
	Role string `json:"role"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// OtherIdentifier is one other-identifier element of an activity.
type OtherIdentifier struct {
	Ref      string `json:"ref"`
	Type     string `json:"type"`
	OwnerOrg string `json:"owner_org"`
}

// ActivityDate is one typed activity-date element.
type ActivityDate struct {
	ISODate string `json:"iso_date"`
	Type    string `json:"type"`
}

// Contact is the contact-info block of an activity.
type Contact struct {
	Organisation string `json:"organisation"`
	PersonName   string `json:"person_name"`
	Website      string `json:"website"`
}

// ActivityLocation is one location element. Lat/Lon are nil when the pos
// text is missing or unparseable; coordinate parse failures never error.
type ActivityLocation struct {
	Name       string   `json:"name"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	LocationID string   `json:"location_id"`
	Exactness  string   `json:"exactness"`
	Reach      string   `json:"reach"`
}

// Sector is one sector code with its vocabulary.
type Sector struct {
	Code       string `json:"code"`
	Vocabulary string `json:"vocabulary"`
}

// PolicyMarker is one policy-marker element.
type PolicyMarker struct {
	Code          string `json:"code"`
	Vocabulary    string `json:"vocabulary"`
	VocabularyURI string `json:"vocabulary_uri"`
	Narrative     string `json:"narrative"`
}

// Activity is the flat form of one iati-activity element.
type Activity struct {
	DefaultCurrency       string             `json:"default_currency"`
	Hierarchy             string             `json:"hierarchy"`
	LastUpdated           string             `json:"last_updated"`
	IATIIdentifier        string             `json:"iati_identifier"`
	ReportingOrgRef       string             `json:"reporting_org_ref"`
	ReportingOrgType      string             `json:"reporting_org_type"`
	ReportingOrgNarrative string             `json:"reporting_org_narrative"`
	Title                 string             `json:"title"`
	Description           string             `json:"description"`
	ParticipatingOrgs     []ParticipatingOrg `json:"participating_orgs"`
	OtherIdentifiers      []OtherIdentifier  `json:"other_identifiers"`
	ActivityStatus        string             `json:"activity_status"`
	ActivityDates         []ActivityDate     `json:"activity_dates"`
	Contact               *Contact           `json:"contact"`
	RecipientCountry      string             `json:"recipient_country"`
	Locations             []ActivityLocation `json:"locations"`
	Sectors               []Sector           `json:"sectors"`
	PolicyMarkers         []PolicyMarker     `json:"policy_markers"`
}
