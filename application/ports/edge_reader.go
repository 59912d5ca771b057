package ports

import (
	"context"
	"iter"

	"ontology-resolver/domain/ontology/edges"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

// EdgeReader issues one bulk read per call: given a batch of sources
// pending expansion through one ReferenceKind, it returns every outbound
// edge of that kind for that batch, already decremented and temporally
// intersected. The sequence is finite, unordered, and not restartable; the
// Resolver drains it fully before moving to the next edge kind.
type EdgeReader interface {
	ReadEdges(ctx context.Context, kind valueobjects.ReferenceKind, sources []edges.WorkItem, axis valueobjects.TimeAxis) (iter.Seq[edges.Edge], error)
}

// VertexReader is the final bulk materialization read: given every ontology
// id the traversal ever admitted, attach the full record and its vertex id.
type VertexReader interface {
	ReadEntityTypeVertices(ctx context.Context, work []edges.WorkItem, axis valueobjects.TimeAxis) (map[valueobjects.VertexID]VertexRecord, error)
	ReadPropertyTypeVertices(ctx context.Context, work []edges.WorkItem, axis valueobjects.TimeAxis) (map[valueobjects.VertexID]VertexRecord, error)
}

// VertexRecord pairs a materialized schema record with the ontology id it
// was read for, so callers can cross-check without re-deriving identity
// from the record itself.
type VertexRecord struct {
	OntologyID valueobjects.OntologyID
	Record     schema.Record
}
