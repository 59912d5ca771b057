package schema

import "ontology-resolver/domain/ontology/valueobjects"

// DataTypeReference names a data type a property type's values may take;
// data types are leaves (they never constrain anything further) and so are
// addressed here only by VersionedURL, never expanded as a separate record
// kind in the traversal.
type DataTypeReference = valueobjects.VersionedURL

// PropertyTypeSchema is the self-describing value for one property type
// version: its own identity plus the data types and nested property types
// its values may take.
type PropertyTypeSchema struct {
	ID                     valueobjects.VersionedURL
	Title                  string
	DataTypeReferences     []DataTypeReference
	PropertyTypeReferences []valueobjects.VersionedURL
}

// PropertyTypeRecord is the full materialized row.
type PropertyTypeRecord struct {
	OntologyID valueobjects.OntologyID
	Schema     PropertyTypeSchema
	Metadata   OntologyMetadata
}

// OntologyIdentity implements Record.
func (r *PropertyTypeRecord) OntologyIdentity() valueobjects.OntologyID {
	return r.OntologyID
}

// Record is implemented by every materialized ontology row that can occupy
// a subgraph vertex.
type Record interface {
	OntologyIdentity() valueobjects.OntologyID
}
