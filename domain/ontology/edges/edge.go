// Package edges holds the traversal-time edge representation produced by
// the Edge Reader and consumed by the Resolver and Subgraph Builder.
package edges

import (
	"ontology-resolver/domain/ontology/valueobjects"
)

// Edge is one traversal step returned by an Edge Reader bulk read. Depths
// and the interval are already decremented/intersected for this edge kind;
// the resolver only needs to feed them into the traversal context.
type Edge struct {
	Kind              valueobjects.ReferenceKind
	LeftEndpoint      valueobjects.VertexID
	LeftOntologyID    valueobjects.OntologyID
	RightEndpoint     valueobjects.VertexID
	RightOntologyID   valueobjects.OntologyID
	ResolveDepths     valueobjects.GraphResolveDepths
	TraversalInterval valueobjects.TemporalInterval
}

// WorkItem is one pending traversal source: an ontology id together with
// the resolve-depth budget and temporal interval it is still owed. It flows
// through the Resolver's queues, the Edge Reader's batch argument, and the
// TraversalContext's dominance memo.
type WorkItem struct {
	OntologyID valueobjects.OntologyID
	Endpoint   valueobjects.VertexID
	Depths     valueobjects.GraphResolveDepths
	Interval   valueobjects.TemporalInterval
}
