// Package resolver implements the layered, batched, de-duplicating graph
// traversal described for the ontology subgraph resolver: one bulk edge
// read per edge kind per iteration, entity-type and property-type layers
// processed in separate passes, traversal-context dominance suppressing
// redundant work, and a final batch read attaching records to every visited
// vertex.
package resolver

import (
	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/valueobjects"
)

// StructuralQuery is the Resolver's sole input: a filter selecting roots, a
// per-edge-kind resolve-depth budget, the time axis to query on, and the
// temporal window the roots themselves must be visible within.
type StructuralQuery struct {
	Kind          ports.TypeKind
	Filter        ports.Filter
	ResolveDepths valueobjects.GraphResolveDepths
	Axis          valueobjects.TimeAxis
	Interval      valueobjects.TemporalInterval
}
