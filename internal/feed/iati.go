package feed

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// xmlNode is a generic element tree. Matching on XMLName.Local makes the
// walk namespace-agnostic: <iati:title> and <title> are the same element.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []xmlNode  `xml:",any"`
	Text    string     `xml:",chardata"`
}

func (n *xmlNode) local() string { return n.XMLName.Local }

// attr returns the named attribute by local name, or "".
func (n *xmlNode) attr(name string) string {
	for i := range n.Attrs {
		if n.Attrs[i].Name.Local == name {
			return n.Attrs[i].Value
		}
	}
	return ""
}

// child returns the first direct child with the given local name.
func (n *xmlNode) child(name string) *xmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].local() == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

// children returns all direct children with the given local name, in order.
func (n *xmlNode) children(name string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Nodes {
		if n.Nodes[i].local() == name {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// find returns the first descendant with the given local name, depth first.
func (n *xmlNode) find(name string) *xmlNode {
	for i := range n.Nodes {
		if n.Nodes[i].local() == name {
			return &n.Nodes[i]
		}
		if found := n.Nodes[i].find(name); found != nil {
			return found
		}
	}
	return nil
}

// firstText extracts the text of an element, preferring the first nested
// <narrative> with non-empty content over the element's own text.
func firstText(n *xmlNode) string {
	if n == nil {
		return ""
	}
	if narr := n.find("narrative"); narr != nil {
		if t := strings.TrimSpace(narr.Text); t != "" {
			return t
		}
	}
	return strings.TrimSpace(n.Text)
}

// ParseIATIXML parses an IATI activities document into flat activity
// records. On a parse failure the payload is run through the repair pass and
// parsed once more; if that also fails, a *ParseError is returned.
func ParseIATIXML(provider, xmlText string) ([]Activity, error) {
	var root xmlNode
	if err := xml.Unmarshal([]byte(xmlText), &root); err != nil {
		repaired := RepairXML(xmlText)
		root = xmlNode{}
		if err2 := xml.Unmarshal([]byte(repaired), &root); err2 != nil {
			return nil, &ParseError{Provider: provider, Err: err2}
		}
	}

	var activities []Activity
	for i := range root.Nodes {
		act := &root.Nodes[i]
		if act.local() != "iati-activity" {
			continue
		}
		activities = append(activities, parseActivity(act))
	}
	return activities, nil
}

func parseActivity(act *xmlNode) Activity {
	a := Activity{
		DefaultCurrency: act.attr("default-currency"),
		Hierarchy:       act.attr("hierarchy"),
		LastUpdated:     act.attr("last-updated-datetime"),
		IATIIdentifier:  firstText(act.child("iati-identifier")),
		Title:           firstText(act.child("title")),
		Description:     firstText(act.child("description")),
	}

	if rep := act.child("reporting-org"); rep != nil {
		a.ReportingOrgRef = rep.attr("ref")
		a.ReportingOrgType = rep.attr("type")
		a.ReportingOrgNarrative = firstText(rep)
	}

	for _, p := range act.children("participating-org") {
		a.ParticipatingOrgs = append(a.ParticipatingOrgs, ParticipatingOrg{
			Ref:  p.attr("ref"),
			Role: p.attr("role"),
			Type: p.attr("type"),
			Name: firstText(p),
		})
	}

	for _, o := range act.children("other-identifier") {
		a.OtherIdentifiers = append(a.OtherIdentifiers, OtherIdentifier{
			Ref:      o.attr("ref"),
			Type:     o.attr("type"),
			OwnerOrg: firstText(o.find("owner-org")),
		})
	}

	if status := act.child("activity-status"); status != nil {
		a.ActivityStatus = status.attr("code")
	}

	for _, d := range act.children("activity-date") {
		a.ActivityDates = append(a.ActivityDates, ActivityDate{
			ISODate: d.attr("iso-date"),
			Type:    d.attr("type"),
		})
	}

	if contact := act.child("contact-info"); contact != nil {
		a.Contact = &Contact{
			Organisation: firstText(contact.find("organisation")),
			PersonName:   firstText(contact.find("person-name")),
			Website:      firstText(contact.find("website")),
		}
	}

	if rc := act.child("recipient-country"); rc != nil {
		a.RecipientCountry = rc.attr("code")
	}

	for _, loc := range act.children("location") {
		a.Locations = append(a.Locations, parseLocation(loc))
	}

	for _, s := range act.children("sector") {
		a.Sectors = append(a.Sectors, Sector{
			Code:       s.attr("code"),
			Vocabulary: s.attr("vocabulary"),
		})
	}

	for _, p := range act.children("policy-marker") {
		a.PolicyMarkers = append(a.PolicyMarkers, PolicyMarker{
			Code:          p.attr("code"),
			Vocabulary:    p.attr("vocabulary"),
			VocabularyURI: p.attr("vocabulary-uri"),
			Narrative:     firstText(p),
		})
	}

	return a
}

func parseLocation(loc *xmlNode) ActivityLocation {
	l := ActivityLocation{
		Name: firstText(loc.find("name")),
	}

	// IATI pos text is "lat lon", whitespace separated. Anything that does
	// not parse leaves the coordinates nil.
	if pos := loc.find("pos"); pos != nil {
		fields := strings.Fields(pos.Text)
		if len(fields) >= 2 {
			lat, errLat := strconv.ParseFloat(fields[0], 64)
			lon, errLon := strconv.ParseFloat(fields[1], 64)
			if errLat == nil && errLon == nil {
				l.Lat = &lat
				l.Lon = &lon
			}
		}
	}

	if id := loc.child("location-id"); id != nil {
		l.LocationID = id.attr("code")
	}
	if ex := loc.find("exactness"); ex != nil {
		l.Exactness = ex.attr("code")
	}
	if reach := loc.child("location-reach"); reach != nil {
		l.Reach = reach.attr("code")
	}
	return l
}
