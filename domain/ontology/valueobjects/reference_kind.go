package valueobjects

// ReferenceKind is the closed set of relations between types. It is
// represented as a tagged string rather than per-kind subclasses; key
// selection within the single table dispatches off it through pure
// functions (see referencePK and referenceKindGSIPK in
// infrastructure/persistence/dynamodb/keys.go).
type ReferenceKind string

const (
	// ConstrainsPropertiesOn is an entity-type -> property-type edge.
	ConstrainsPropertiesOn ReferenceKind = "CONSTRAINS_PROPERTIES_ON"
	// ConstrainsValuesOn is a property-type -> data-type or nested
	// property-type -> property-type edge.
	ConstrainsValuesOn ReferenceKind = "CONSTRAINS_VALUES_ON"
	// InheritsFrom is an entity-type -> entity-type edge.
	InheritsFrom ReferenceKind = "INHERITS_FROM"
	// ConstrainsLinksOn is an entity-type -> entity-type (link type) edge.
	ConstrainsLinksOn ReferenceKind = "CONSTRAINS_LINKS_ON"
	// ConstrainsLinkDestinationsOn is an entity-type -> entity-type
	// (allowed link destination) edge.
	ConstrainsLinkDestinationsOn ReferenceKind = "CONSTRAINS_LINK_DESTINATIONS_ON"
)

// EntityTypeEdgeKinds returns the edge kinds a traversal expands from an
// entity type, in the fixed processing order the resolver's layered driver
// requires: ConstrainsPropertiesOn results are diverted into the
// property-type queue; the remaining three continue the entity-type queue.
func EntityTypeEdgeKinds() []ReferenceKind {
	return []ReferenceKind{
		ConstrainsPropertiesOn,
		InheritsFrom,
		ConstrainsLinksOn,
		ConstrainsLinkDestinationsOn,
	}
}

// PropertyTypeEdgeKinds returns the edge kinds a traversal expands from a
// property type.
func PropertyTypeEdgeKinds() []ReferenceKind {
	return []ReferenceKind{
		ConstrainsValuesOn,
	}
}

// EdgeDirection records whether an outward edge is observed in its native
// (outgoing) orientation or as a reversed (incoming) view of the same
// reference row. The resolver only ever walks Outgoing edges; Incoming is
// retained on Edge for subgraph consumers that want to render both views.
type EdgeDirection string

const (
	Outgoing EdgeDirection = "outgoing"
	Incoming EdgeDirection = "incoming"
)
