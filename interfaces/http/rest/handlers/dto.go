package handlers

import (
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/subgraph"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"

	"github.com/google/uuid"
)

// VersionedURLDTO is the wire shape of a valueobjects.VersionedURL.
type VersionedURLDTO struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	Version uint32 `json:"version,omitempty"`
}

func (d VersionedURLDTO) toDomain() (valueobjects.VersionedURL, error) {
	base, err := valueobjects.NewBaseURL(d.BaseURL)
	if err != nil {
		return valueobjects.VersionedURL{}, err
	}
	if d.Version == 0 {
		return valueobjects.VersionedURL{BaseURL: base}, nil
	}
	return valueobjects.NewVersionedURL(base, d.Version)
}

func fromVersionedURL(url valueobjects.VersionedURL) VersionedURLDTO {
	return VersionedURLDTO{BaseURL: url.BaseURL.String(), Version: url.Version}
}

// LinkConstraintDTO is the wire shape of a schema.LinkConstraint.
type LinkConstraintDTO struct {
	LinkTypeID   VersionedURLDTO   `json:"link_type_id" validate:"required"`
	Destinations []VersionedURLDTO `json:"destinations,omitempty"`
}

func (d LinkConstraintDTO) toDomain() (schema.LinkConstraint, error) {
	linkTypeID, err := d.LinkTypeID.toDomain()
	if err != nil {
		return schema.LinkConstraint{}, err
	}
	destinations := make([]valueobjects.VersionedURL, 0, len(d.Destinations))
	for _, dest := range d.Destinations {
		url, err := dest.toDomain()
		if err != nil {
			return schema.LinkConstraint{}, err
		}
		destinations = append(destinations, url)
	}
	return schema.LinkConstraint{LinkTypeID: linkTypeID, Destinations: destinations}, nil
}

// EntityTypeSchemaDTO is the wire shape of a schema.EntityTypeSchema.
type EntityTypeSchemaDTO struct {
	ID                 VersionedURLDTO     `json:"id" validate:"required"`
	Title              string              `json:"title" validate:"required,min=1,max=200"`
	PropertyReferences []VersionedURLDTO   `json:"property_references,omitempty"`
	InheritsFrom       []VersionedURLDTO   `json:"inherits_from,omitempty"`
	LinkConstraints    []LinkConstraintDTO `json:"link_constraints,omitempty"`
	LabelProperty      *VersionedURLDTO    `json:"label_property,omitempty"`
	Icon               string              `json:"icon,omitempty"`
}

func (d EntityTypeSchemaDTO) toDomain() (schema.EntityTypeSchema, error) {
	id, err := d.ID.toDomain()
	if err != nil {
		return schema.EntityTypeSchema{}, appErrors.NewValidationError("invalid id: " + err.Error())
	}

	propertyRefs := make([]valueobjects.VersionedURL, 0, len(d.PropertyReferences))
	for _, ref := range d.PropertyReferences {
		url, err := ref.toDomain()
		if err != nil {
			return schema.EntityTypeSchema{}, appErrors.NewValidationError("invalid property reference: " + err.Error())
		}
		propertyRefs = append(propertyRefs, url)
	}

	inheritsFrom := make([]valueobjects.VersionedURL, 0, len(d.InheritsFrom))
	for _, ref := range d.InheritsFrom {
		url, err := ref.toDomain()
		if err != nil {
			return schema.EntityTypeSchema{}, appErrors.NewValidationError("invalid inherits_from reference: " + err.Error())
		}
		inheritsFrom = append(inheritsFrom, url)
	}

	linkConstraints := make([]schema.LinkConstraint, 0, len(d.LinkConstraints))
	for _, lc := range d.LinkConstraints {
		constraint, err := lc.toDomain()
		if err != nil {
			return schema.EntityTypeSchema{}, appErrors.NewValidationError("invalid link constraint: " + err.Error())
		}
		linkConstraints = append(linkConstraints, constraint)
	}

	var labelProperty *valueobjects.VersionedURL
	if d.LabelProperty != nil {
		url, err := d.LabelProperty.toDomain()
		if err != nil {
			return schema.EntityTypeSchema{}, appErrors.NewValidationError("invalid label property: " + err.Error())
		}
		labelProperty = &url
	}

	return schema.EntityTypeSchema{
		ID:                 id,
		Title:              d.Title,
		PropertyReferences: propertyRefs,
		InheritsFrom:       inheritsFrom,
		LinkConstraints:    linkConstraints,
		LabelProperty:      labelProperty,
		Icon:               d.Icon,
	}, nil
}

func fromEntityTypeSchema(s schema.EntityTypeSchema) EntityTypeSchemaDTO {
	propertyRefs := make([]VersionedURLDTO, 0, len(s.PropertyReferences))
	for _, ref := range s.PropertyReferences {
		propertyRefs = append(propertyRefs, fromVersionedURL(ref))
	}
	inheritsFrom := make([]VersionedURLDTO, 0, len(s.InheritsFrom))
	for _, ref := range s.InheritsFrom {
		inheritsFrom = append(inheritsFrom, fromVersionedURL(ref))
	}
	linkConstraints := make([]LinkConstraintDTO, 0, len(s.LinkConstraints))
	for _, lc := range s.LinkConstraints {
		destinations := make([]VersionedURLDTO, 0, len(lc.Destinations))
		for _, dest := range lc.Destinations {
			destinations = append(destinations, fromVersionedURL(dest))
		}
		linkConstraints = append(linkConstraints, LinkConstraintDTO{
			LinkTypeID:   fromVersionedURL(lc.LinkTypeID),
			Destinations: destinations,
		})
	}
	var labelProperty *VersionedURLDTO
	if s.LabelProperty != nil {
		dto := fromVersionedURL(*s.LabelProperty)
		labelProperty = &dto
	}
	return EntityTypeSchemaDTO{
		ID:                 fromVersionedURL(s.ID),
		Title:              s.Title,
		PropertyReferences: propertyRefs,
		InheritsFrom:       inheritsFrom,
		LinkConstraints:    linkConstraints,
		LabelProperty:      labelProperty,
		Icon:               s.Icon,
	}
}

// PropertyTypeSchemaDTO is the wire shape of a schema.PropertyTypeSchema.
type PropertyTypeSchemaDTO struct {
	ID                     VersionedURLDTO   `json:"id" validate:"required"`
	Title                  string            `json:"title" validate:"required,min=1,max=200"`
	DataTypeReferences     []VersionedURLDTO `json:"data_type_references,omitempty"`
	PropertyTypeReferences []VersionedURLDTO `json:"property_type_references,omitempty"`
}

func (d PropertyTypeSchemaDTO) toDomain() (schema.PropertyTypeSchema, error) {
	id, err := d.ID.toDomain()
	if err != nil {
		return schema.PropertyTypeSchema{}, appErrors.NewValidationError("invalid id: " + err.Error())
	}

	dataTypeRefs := make([]valueobjects.VersionedURL, 0, len(d.DataTypeReferences))
	for _, ref := range d.DataTypeReferences {
		url, err := ref.toDomain()
		if err != nil {
			return schema.PropertyTypeSchema{}, appErrors.NewValidationError("invalid data type reference: " + err.Error())
		}
		dataTypeRefs = append(dataTypeRefs, url)
	}

	propertyTypeRefs := make([]valueobjects.VersionedURL, 0, len(d.PropertyTypeReferences))
	for _, ref := range d.PropertyTypeReferences {
		url, err := ref.toDomain()
		if err != nil {
			return schema.PropertyTypeSchema{}, appErrors.NewValidationError("invalid property type reference: " + err.Error())
		}
		propertyTypeRefs = append(propertyTypeRefs, url)
	}

	return schema.PropertyTypeSchema{
		ID:                     id,
		Title:                  d.Title,
		DataTypeReferences:     dataTypeRefs,
		PropertyTypeReferences: propertyTypeRefs,
	}, nil
}

func fromPropertyTypeSchema(s schema.PropertyTypeSchema) PropertyTypeSchemaDTO {
	dataTypeRefs := make([]VersionedURLDTO, 0, len(s.DataTypeReferences))
	for _, ref := range s.DataTypeReferences {
		dataTypeRefs = append(dataTypeRefs, fromVersionedURL(ref))
	}
	propertyTypeRefs := make([]VersionedURLDTO, 0, len(s.PropertyTypeReferences))
	for _, ref := range s.PropertyTypeReferences {
		propertyTypeRefs = append(propertyTypeRefs, fromVersionedURL(ref))
	}
	return PropertyTypeSchemaDTO{
		ID:                     fromVersionedURL(s.ID),
		Title:                  s.Title,
		DataTypeReferences:     dataTypeRefs,
		PropertyTypeReferences: propertyTypeRefs,
	}
}

// OntologyMetadataDTO is the wire shape of a schema.OntologyMetadata.
type OntologyMetadataDTO struct {
	RecordID             string  `json:"record_id,omitempty"`
	Custom               bool    `json:"custom"`
	CreatedBy            string  `json:"created_by"`
	ArchivedBy           *string `json:"archived_by,omitempty"`
	TransactionTimeStart string  `json:"transaction_time_start"`
	TransactionTimeEnd   *string `json:"transaction_time_end,omitempty"`
	DecisionTimeStart    string  `json:"decision_time_start"`
	DecisionTimeEnd      *string `json:"decision_time_end,omitempty"`
}

func fromOntologyMetadata(m schema.OntologyMetadata) OntologyMetadataDTO {
	dto := OntologyMetadataDTO{
		Custom:               m.Custom,
		CreatedBy:            m.Provenance.CreatedBy.String(),
		TransactionTimeStart: m.Temporal.TransactionTime.Start.Format(timeLayout),
		DecisionTimeStart:    m.Temporal.DecisionTime.Start.Format(timeLayout),
	}
	if m.RecordID != uuid.Nil {
		dto.RecordID = m.RecordID.String()
	}
	if m.Provenance.ArchivedBy != nil {
		s := m.Provenance.ArchivedBy.String()
		dto.ArchivedBy = &s
	}
	if m.Temporal.TransactionTime.End != nil {
		s := m.Temporal.TransactionTime.End.Format(timeLayout)
		dto.TransactionTimeEnd = &s
	}
	if m.Temporal.DecisionTime.End != nil {
		s := m.Temporal.DecisionTime.End.Format(timeLayout)
		dto.DecisionTimeEnd = &s
	}
	return dto
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// conflictBehaviorFromString defaults an absent or unrecognized value to
// Fail, the safer of the two: a batch that silently drops items on a typo
// is worse than one that rejects the request outright.
func conflictBehaviorFromString(s string) valueobjects.ConflictBehavior {
	if valueobjects.ConflictBehavior(s) == valueobjects.Skip {
		return valueobjects.Skip
	}
	return valueobjects.Fail
}

// CreateEntityTypeItemDTO is one item of a batch entity type creation
// request.
type CreateEntityTypeItemDTO struct {
	Schema EntityTypeSchemaDTO `json:"schema" validate:"required"`
	Custom bool                `json:"custom,omitempty"`
}

// CreateEntityTypesRequest is the request body for POST /entity-types.
type CreateEntityTypesRequest struct {
	Items      []CreateEntityTypeItemDTO `json:"items" validate:"required,min=1,dive"`
	OnConflict string                    `json:"on_conflict,omitempty" validate:"omitempty,oneof=skip fail"`
}

// CreatePropertyTypeItemDTO is one item of a batch property type creation
// request.
type CreatePropertyTypeItemDTO struct {
	Schema PropertyTypeSchemaDTO `json:"schema" validate:"required"`
	Custom bool                  `json:"custom,omitempty"`
}

// CreatePropertyTypesRequest is the request body for POST /property-types.
type CreatePropertyTypesRequest struct {
	Items      []CreatePropertyTypeItemDTO `json:"items" validate:"required,min=1,dive"`
	OnConflict string                      `json:"on_conflict,omitempty" validate:"omitempty,oneof=skip fail"`
}

// ArchiveRequest is the request body for the archive/unarchive endpoints.
type ArchiveRequest struct {
	URL VersionedURLDTO `json:"url" validate:"required"`
}

// CreateTypesResponse wraps the metadata for every type that was actually
// created (skipped items under ConflictBehavior Skip are simply absent).
type CreateTypesResponse struct {
	Created []OntologyMetadataDTO `json:"created"`
}

func fromOntologyMetadataList(items []schema.OntologyMetadata) []OntologyMetadataDTO {
	out := make([]OntologyMetadataDTO, 0, len(items))
	for _, m := range items {
		out = append(out, fromOntologyMetadata(m))
	}
	return out
}

// VertexDTO is the wire shape of one subgraph vertex: its position (base
// url plus the timestamp it was resolved at on the query's time axis) and
// the record materialized there.
type VertexDTO struct {
	BaseURL   string      `json:"base_url"`
	Timestamp string      `json:"timestamp"`
	Record    interface{} `json:"record"`
}

// EdgeDTO is the wire shape of one subgraph edge.
type EdgeDTO struct {
	SourceBaseURL string `json:"source_base_url"`
	Kind          string `json:"kind"`
	Direction     string `json:"direction"`
	TargetBaseURL string `json:"target_base_url"`
}

// SubgraphDTO is the wire shape of a resolved subgraph.Subgraph.
type SubgraphDTO struct {
	Roots    []string    `json:"roots"`
	Vertices []VertexDTO `json:"vertices"`
	Edges    []EdgeDTO   `json:"edges"`
}

func recordToDTO(record schema.Record) interface{} {
	switch rec := record.(type) {
	case *schema.EntityTypeRecord:
		return struct {
			Schema   EntityTypeSchemaDTO `json:"schema"`
			Metadata OntologyMetadataDTO `json:"metadata"`
		}{Schema: fromEntityTypeSchema(rec.Schema), Metadata: fromOntologyMetadata(rec.Metadata)}
	case *schema.PropertyTypeRecord:
		return struct {
			Schema   PropertyTypeSchemaDTO `json:"schema"`
			Metadata OntologyMetadataDTO   `json:"metadata"`
		}{Schema: fromPropertyTypeSchema(rec.Schema), Metadata: fromOntologyMetadata(rec.Metadata)}
	default:
		return nil
	}
}

func fromSubgraph(sg *subgraph.Subgraph) SubgraphDTO {
	roots := make([]string, 0, len(sg.Roots()))
	for _, id := range sg.Roots() {
		roots = append(roots, id.BaseURL.String())
	}

	vertices := make([]VertexDTO, 0, sg.VertexCount())
	for _, id := range sg.Vertices() {
		record, ok := sg.Vertex(id)
		if !ok {
			continue
		}
		vertices = append(vertices, VertexDTO{
			BaseURL:   id.BaseURL.String(),
			Timestamp: id.Timestamp.Format(timeLayout),
			Record:    recordToDTO(record),
		})
	}

	edges := make([]EdgeDTO, 0, sg.EdgeCount())
	for _, e := range sg.Edges() {
		edges = append(edges, EdgeDTO{
			SourceBaseURL: e.Source.BaseURL.String(),
			Kind:          string(e.Kind),
			Direction:     string(e.Direction),
			TargetBaseURL: e.Target.BaseURL.String(),
		})
	}

	return SubgraphDTO{Roots: roots, Vertices: vertices, Edges: edges}
}
