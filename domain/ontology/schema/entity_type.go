package schema

import "ontology-resolver/domain/ontology/valueobjects"

// LinkConstraint pairs a link-type entity type with the entity types it is
// allowed to terminate at. An empty Destinations means "any destination is
// legal", matching the source schema's optional destination constraint.
type LinkConstraint struct {
	LinkTypeID   valueobjects.VersionedURL
	Destinations []valueobjects.VersionedURL
}

// EntityTypeSchema is the self-describing JSON-shaped value for one entity
// type version: its own identity, the property types it constrains, the
// entity types it inherits from, and its link constraints.
type EntityTypeSchema struct {
	ID                 valueobjects.VersionedURL
	Title              string
	PropertyReferences []valueobjects.VersionedURL
	InheritsFrom       []valueobjects.VersionedURL
	LinkConstraints    []LinkConstraint
	LabelProperty      *valueobjects.VersionedURL
	Icon               string
}

// EntityTypeRecord is the full materialized row: schema plus metadata plus
// the store-internal surrogate key.
type EntityTypeRecord struct {
	OntologyID valueobjects.OntologyID
	Schema     EntityTypeSchema
	Metadata   OntologyMetadata
}

// OntologyIdentity implements Record.
func (r *EntityTypeRecord) OntologyIdentity() valueobjects.OntologyID {
	return r.OntologyID
}
