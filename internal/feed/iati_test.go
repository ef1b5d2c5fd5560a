package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleActivityXML = `<?xml version="1.0" encoding="UTF-8"?>
<iati-activities version="2.03">
  <iati-activity default-currency="USD" hierarchy="1" last-updated-datetime="2024-05-01T00:00:00Z">
    <iati-identifier>XM-DAC-46004-P12345</iati-identifier>
    <reporting-org ref="XM-DAC-46004" type="40">
      <narrative>Asian Development Bank</narrative>
    </reporting-org>
    <title>
      <narrative>Road Upgrade Project</narrative>
    </title>
    <description>
      <narrative>Upgrading rural roads in the hill districts.</narrative>
    </description>
    <participating-org ref="XM-DAC-46004" role="Funding" type="40">
      <narrative>Asian Development Bank</narrative>
    </participating-org>
    <participating-org ref="NP-MOF" role="Implementing" type="10">
      <narrative>Ministry of Physical Infrastructure</narrative>
    </participating-org>
    <activity-status code="2"/>
    <activity-date iso-date="2021-01-15" type="1"/>
    <activity-date iso-date="2026-06-30" type="3"/>
    <contact-info>
      <organisation><narrative>ADB Nepal Resident Mission</narrative></organisation>
      <person-name><narrative>Project Officer</narrative></person-name>
      <website>https://www.adb.org</website>
    </contact-info>
    <recipient-country code="NP"/>
    <location>
      <location-reach code="1"/>
      <location-id code="KTM"/>
      <name><narrative>Kathmandu</narrative></name>
      <point srsName="http://www.opengis.net/def/crs/EPSG/0/4326">
        <pos>27.7 85.3</pos>
      </point>
      <exactness code="1"/>
    </location>
    <sector code="21010" vocabulary="1"/>
    <sector code="21020" vocabulary="1"/>
    <policy-marker code="2" vocabulary="1" vocabulary-uri="http://example.org/v">
      <narrative>Gender Equality</narrative>
    </policy-marker>
  </iati-activity>
</iati-activities>`

func TestParseIATIXML_SampleActivity(t *testing.T) {
	activities, err := ParseIATIXML("adb", sampleActivityXML)
	require.NoError(t, err)
	require.Len(t, activities, 1)

	a := activities[0]
	assert.Equal(t, "XM-DAC-46004-P12345", a.IATIIdentifier)
	assert.Equal(t, "Road Upgrade Project", a.Title)
	assert.Equal(t, "Upgrading rural roads in the hill districts.", a.Description)
	assert.Equal(t, "Asian Development Bank", a.ReportingOrgNarrative)
	assert.Equal(t, "XM-DAC-46004", a.ReportingOrgRef)
	assert.Equal(t, "40", a.ReportingOrgType)
	assert.Equal(t, "2", a.ActivityStatus)
	assert.Equal(t, "NP", a.RecipientCountry)
	assert.Equal(t, "USD", a.DefaultCurrency)

	require.Len(t, a.ParticipatingOrgs, 2)
	assert.Equal(t, "Funding", a.ParticipatingOrgs[0].Role)
	assert.Equal(t, "Ministry of Physical Infrastructure", a.ParticipatingOrgs[1].Name)

	require.Len(t, a.ActivityDates, 2)
	assert.Equal(t, "2021-01-15", a.ActivityDates[0].ISODate)
	assert.Equal(t, "1", a.ActivityDates[0].Type)

	require.NotNil(t, a.Contact)
	assert.Equal(t, "ADB Nepal Resident Mission", a.Contact.Organisation)
	assert.Equal(t, "https://www.adb.org", a.Contact.Website)

	require.Len(t, a.Locations, 1)
	loc := a.Locations[0]
	assert.Equal(t, "Kathmandu", loc.Name)
	require.NotNil(t, loc.Lat)
	require.NotNil(t, loc.Lon)
	assert.InDelta(t, 27.7, *loc.Lat, 1e-9)
	assert.InDelta(t, 85.3, *loc.Lon, 1e-9)
	assert.Equal(t, "KTM", loc.LocationID)
	assert.Equal(t, "1", loc.Exactness)
	assert.Equal(t, "1", loc.Reach)

	require.Len(t, a.Sectors, 2)
	assert.Equal(t, "21010", a.Sectors[0].Code)
	assert.Equal(t, "1", a.Sectors[0].Vocabulary)

	require.Len(t, a.PolicyMarkers, 1)
	assert.Equal(t, "Gender Equality", a.PolicyMarkers[0].Narrative)
	assert.Equal(t, "http://example.org/v", a.PolicyMarkers[0].VocabularyURI)
}

func TestParseIATIXML_NamespacePrefixes(t *testing.T) {
	xmlText := `<?xml version="1.0"?>
<iati:iati-activities xmlns:iati="http://example.org/iati">
  <iati:iati-activity>
    <iati:iati-identifier>NS-1</iati:iati-identifier>
    <iati:title><iati:narrative>Namespaced Project</iati:narrative></iati:title>
    <iati:recipient-country code="NP"/>
  </iati:iati-activity>
</iati:iati-activities>`

	activities, err := ParseIATIXML("adb", xmlText)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "NS-1", activities[0].IATIIdentifier)
	assert.Equal(t, "Namespaced Project", activities[0].Title)
	assert.Equal(t, "NP", activities[0].RecipientCountry)
}

func TestParseIATIXML_UnparseablePosYieldsNilCoordinates(t *testing.T) {
	xmlText := `<iati-activities>
  <iati-activity>
    <iati-identifier>POS-1</iati-identifier>
    <title><narrative>Bad Pos</narrative></title>
    <location>
      <name><narrative>Somewhere</narrative></name>
      <point><pos>not numbers</pos></point>
    </location>
    <location>
      <name><narrative>Short</narrative></name>
      <point><pos>27.7</pos></point>
    </location>
  </iati-activity>
</iati-activities>`

	activities, err := ParseIATIXML("adb", xmlText)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Len(t, activities[0].Locations, 2)
	for _, loc := range activities[0].Locations {
		assert.Nil(t, loc.Lat)
		assert.Nil(t, loc.Lon)
	}
}

func TestParseIATIXML_TitleFallsBackToElementText(t *testing.T) {
	xmlText := `<iati-activities>
  <iati-activity>
    <title>Plain Text Title</title>
  </iati-activity>
</iati-activities>`

	activities, err := ParseIATIXML("adb", xmlText)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Plain Text Title", activities[0].Title)
}

func TestParseIATIXML_SkipsNonActivityElements(t *testing.T) {
	xmlText := `<iati-activities>
  <generated-note>not an activity</generated-note>
  <iati-activity><iati-identifier>A-1</iati-identifier></iati-activity>
</iati-activities>`

	activities, err := ParseIATIXML("adb", xmlText)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "A-1", activities[0].IATIIdentifier)
}

func TestParseIATIXML_IrreparablePayloadReturnsParseError(t *testing.T) {
	_, err := ParseIATIXML("adb", `<iati-activities><iati-activity>`)
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "adb", perr.Provider)
}
