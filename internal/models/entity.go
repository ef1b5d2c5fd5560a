package models

import "time"

// EntityType classifies the kind of entity.
type EntityType string

const (
	EntityTypeProject      EntityType = "project"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeLocation     EntityType = "location"
)

// ValidEntityTypes is the set of all valid entity types.
var ValidEntityTypes = []EntityType{
	EntityTypeProject,
	EntityTypeOrganization,
	EntityTypeLocation,
}

// IsValid returns true if the entity type is recognized.
func (et EntityType) IsValid() bool {
	for i := range ValidEntityTypes {
		if et == ValidEntityTypes[i] {
			return true
		}
	}
	return false
}

// EntitySubType refines an entity type.
type EntitySubType string

const (
	SubTypeDevelopmentProject        EntitySubType = "development_project"
	SubTypeInternationalOrganization EntitySubType = "international_organization"
	SubTypeGovernmentAgency          EntitySubType = "government_agency"
	SubTypeProvince                  EntitySubType = "province"
	SubTypeDistrict                  EntitySubType = "district"
	SubTypeMetropolitanCity          EntitySubType = "metropolitan_city"
	SubTypeSubMetropolitanCity       EntitySubType = "sub_metropolitan_city"
	SubTypeMunicipality              EntitySubType = "municipality"
	SubTypeRuralMunicipality         EntitySubType = "rural_municipality"
)

// MunicipalSubTypes are the location subtypes grouped as municipality-class
// for resolution purposes.
var MunicipalSubTypes = []EntitySubType{
	SubTypeMetropolitanCity,
	SubTypeSubMetropolitanCity,
	SubTypeMunicipality,
	SubTypeRuralMunicipality,
}

// IsMunicipal returns true for any municipality-class location subtype.
func (st EntitySubType) IsMunicipal() bool {
	for i := range MunicipalSubTypes {
		if st == MunicipalSubTypes[i] {
			return true
		}
	}
	return false
}

// Name is one bilingual name of an entity. Full forms only; the resolver
// indexes both language variants.
type Name struct {
	Kind string `json:"kind,omitempty"`
	EN   string `json:"en,omitempty"`
	NE   string `json:"ne,omitempty"`
}

// Entity is a node in the published graph. The persistence layer owns these;
// the pipeline only constructs creation requests and holds non-owning
// references obtained from lookups.
type Entity struct {
	ID        string         `json:"id"`
	Slug      string         `json:"slug"`
	Type      EntityType     `json:"type"`
	SubType   EntitySubType  `json:"sub_type,omitempty"`
	Names     []Name         `json:"names"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PrimaryName returns the first English full name, falling back to Nepali.
func (e *Entity) PrimaryName() string {
	for i := range e.Names {
		if e.Names[i].EN != "" {
			return e.Names[i].EN
		}
	}
	for i := range e.Names {
		if e.Names[i].NE != "" {
			return e.Names[i].NE
		}
	}
	return e.Slug
}

// RelationshipType is the typed kind of a relationship edge.
type RelationshipType string

const (
	RelLocatedIn  RelationshipType = "LOCATED_IN"
	RelFundedBy   RelationshipType = "FUNDED_BY"
	RelImplements RelationshipType = "IMPLEMENTS"
)

// Relationship links two entities by ID. Relationships are append-only; the
// pipeline never updates or deletes them.
type Relationship struct {
	ID                string           `json:"id"`
	SourceID          string           `json:"source_id"`
	TargetID          string           `json:"target_id"`
	Type              RelationshipType `json:"type"`
	AuthorID          string           `json:"author_id,omitempty"`
	ChangeDescription string           `json:"change_description,omitempty"`
	Attributes        map[string]any   `json:"attributes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// Author identifies who committed a migration run; its ID stamps every
// created entity and relationship.
type Author struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Attribution records where imported data came from, in both languages.
type Attribution struct {
	TitleEN   string `json:"title_en"`
	TitleNE   string `json:"title_ne,omitempty"`
	DetailsEN string `json:"details_en"`
	DetailsNE string `json:"details_ne,omitempty"`
}
