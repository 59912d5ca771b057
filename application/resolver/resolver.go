package resolver

import (
	"context"

	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/edges"
	"ontology-resolver/domain/ontology/subgraph"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// Resolver is the driver that consumes a query's resolve-depths budget,
// batches expansion across edge kinds, and alternates entity-type /
// property-type layers. It owns no state across calls to Resolve; Subgraph
// and TraversalContext are allocated fresh per query.
type Resolver struct {
	store        ports.OntologyStore
	edgeReader   ports.EdgeReader
	vertexReader ports.VertexReader
	logger       *zap.Logger
}

func New(store ports.OntologyStore, edgeReader ports.EdgeReader, vertexReader ports.VertexReader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, edgeReader: edgeReader, vertexReader: vertexReader, logger: logger}
}

// Resolve runs one query to completion and returns its materialized
// subgraph. It never retries; callers may safely retry the whole call since
// de-duplication is idempotent.
func (r *Resolver) Resolve(ctx context.Context, query StructuralQuery) (*subgraph.Subgraph, error) {
	sg := subgraph.New()
	tc := subgraph.NewTraversalContext()

	matches, err := r.store.ResolveFilter(ctx, query.Kind, query.Filter, query.Axis)
	if err != nil {
		return nil, appErrors.Wrap(err, "resolving structural query filter")
	}
	for _, m := range matches {
		sg.InsertRoot(m.Endpoint)
	}

	if query.ResolveDepths.IsEmpty() {
		return sg, r.materializeFastPath(ctx, query, matches, sg)
	}

	var entityQueue, propertyQueue []edges.WorkItem
	for _, m := range matches {
		switch query.Kind {
		case ports.EntityType:
			if item, residual := tc.AddEntityTypeID(m.OntologyID, m.Endpoint, query.ResolveDepths, query.Interval); residual {
				entityQueue = append(entityQueue, item)
			}
		case ports.PropertyType:
			if item, residual := tc.AddPropertyTypeID(m.OntologyID, m.Endpoint, query.ResolveDepths, query.Interval); residual {
				propertyQueue = append(propertyQueue, item)
			}
		}
	}

	for len(entityQueue) > 0 {
		batch := entityQueue
		entityQueue = nil

		buckets := bucketByKind(batch, valueobjects.EntityTypeEdgeKinds())
		for _, kind := range valueobjects.EntityTypeEdgeKinds() {
			sources := buckets[kind]
			if len(sources) == 0 {
				continue
			}
			if err := r.expandLayer(ctx, query.Axis, kind, sources, sg, tc, &entityQueue, &propertyQueue); err != nil {
				return nil, err
			}
		}
	}

	for len(propertyQueue) > 0 {
		batch := propertyQueue
		propertyQueue = nil

		buckets := bucketByKind(batch, valueobjects.PropertyTypeEdgeKinds())
		for _, kind := range valueobjects.PropertyTypeEdgeKinds() {
			sources := buckets[kind]
			if len(sources) == 0 {
				continue
			}
			if err := r.expandPropertyLayer(ctx, query.Axis, kind, sources, sg, tc, &propertyQueue); err != nil {
				return nil, err
			}
		}
	}

	if err := r.materializeVertices(ctx, query.Axis, tc, sg); err != nil {
		return nil, err
	}

	r.logger.Debug("resolved structural query",
		zap.Int("vertices", sg.VertexCount()),
		zap.Int("edges", sg.EdgeCount()),
	)
	return sg, nil
}

// bucketByKind decrements every item's depth for every edge kind an entity
// (or property) type can expand through, and groups the still-eligible
// residuals by kind in the fixed processing order the caller iterates in:
// group pending sources by edge kind before issuing one bulk read per kind.
func bucketByKind(batch []edges.WorkItem, kinds []valueobjects.ReferenceKind) map[valueobjects.ReferenceKind][]edges.WorkItem {
	buckets := make(map[valueobjects.ReferenceKind][]edges.WorkItem, len(kinds))
	for _, item := range batch {
		for _, kind := range kinds {
			newDepths, ok := item.Depths.Decrement(kind)
			if !ok {
				continue
			}
			buckets[kind] = append(buckets[kind], edges.WorkItem{
				OntologyID: item.OntologyID,
				Endpoint:   item.Endpoint,
				Depths:     newDepths,
				Interval:   item.Interval,
			})
		}
	}
	return buckets
}

// expandLayer issues one Edge Reader call for kind and routes every
// returned edge's residual work into the entity-type queue, except for
// ConstrainsPropertiesOn edges which are diverted into the property-type
// queue.
func (r *Resolver) expandLayer(ctx context.Context, axis valueobjects.TimeAxis, kind valueobjects.ReferenceKind, sources []edges.WorkItem, sg *subgraph.Subgraph, tc *subgraph.TraversalContext, entityQueue, propertyQueue *[]edges.WorkItem) error {
	seq, err := r.edgeReader.ReadEdges(ctx, kind, sources, axis)
	if err != nil {
		return appErrors.Wrapf(err, "reading %s edges", kind)
	}
	for edge := range seq {
		sg.InsertEdge(edge.LeftEndpoint, kind, valueobjects.Outgoing, edge.RightEndpoint)

		if kind == valueobjects.ConstrainsPropertiesOn {
			if item, residual := tc.AddPropertyTypeID(edge.RightOntologyID, edge.RightEndpoint, edge.ResolveDepths, edge.TraversalInterval); residual {
				*propertyQueue = append(*propertyQueue, item)
			}
			continue
		}
		if item, residual := tc.AddEntityTypeID(edge.RightOntologyID, edge.RightEndpoint, edge.ResolveDepths, edge.TraversalInterval); residual {
			*entityQueue = append(*entityQueue, item)
		}
	}
	return nil
}

// expandPropertyLayer is the property-type sub-traversal analogue of
// expandLayer: structurally identical, but over property-type edge kinds,
// which only ever feed back into the property-type queue.
func (r *Resolver) expandPropertyLayer(ctx context.Context, axis valueobjects.TimeAxis, kind valueobjects.ReferenceKind, sources []edges.WorkItem, sg *subgraph.Subgraph, tc *subgraph.TraversalContext, propertyQueue *[]edges.WorkItem) error {
	seq, err := r.edgeReader.ReadEdges(ctx, kind, sources, axis)
	if err != nil {
		return appErrors.Wrapf(err, "reading %s edges", kind)
	}
	for edge := range seq {
		sg.InsertEdge(edge.LeftEndpoint, kind, valueobjects.Outgoing, edge.RightEndpoint)
		if item, residual := tc.AddPropertyTypeID(edge.RightOntologyID, edge.RightEndpoint, edge.ResolveDepths, edge.TraversalInterval); residual {
			*propertyQueue = append(*propertyQueue, item)
		}
	}
	return nil
}

func (r *Resolver) materializeVertices(ctx context.Context, axis valueobjects.TimeAxis, tc *subgraph.TraversalContext, sg *subgraph.Subgraph) error {
	entityWork := tc.AdmittedEntityTypeIDs()
	if len(entityWork) > 0 {
		vertices, err := r.vertexReader.ReadEntityTypeVertices(ctx, entityWork, axis)
		if err != nil {
			return appErrors.Wrap(err, "materializing entity type vertices")
		}
		for id, v := range vertices {
			sg.InsertVertex(id, v.Record)
		}
	}

	propertyWork := tc.AdmittedPropertyTypeIDs()
	if len(propertyWork) > 0 {
		vertices, err := r.vertexReader.ReadPropertyTypeVertices(ctx, propertyWork, axis)
		if err != nil {
			return appErrors.Wrap(err, "materializing property type vertices")
		}
		for id, v := range vertices {
			sg.InsertVertex(id, v.Record)
		}
	}
	return nil
}

// materializeFastPath is the zero-depth short-circuit: when the query's
// resolve depths are entirely exhausted, the traversal loop never runs and
// the roots are the only vertices returned.
func (r *Resolver) materializeFastPath(ctx context.Context, query StructuralQuery, matches []ports.FilterMatch, sg *subgraph.Subgraph) error {
	work := make([]edges.WorkItem, 0, len(matches))
	for _, m := range matches {
		work = append(work, edges.WorkItem{OntologyID: m.OntologyID, Endpoint: m.Endpoint, Depths: query.ResolveDepths, Interval: query.Interval})
	}
	if len(work) == 0 {
		return nil
	}

	switch query.Kind {
	case ports.EntityType:
		vertices, err := r.vertexReader.ReadEntityTypeVertices(ctx, work, query.Axis)
		if err != nil {
			return appErrors.Wrap(err, "materializing fast-path entity type roots")
		}
		for id, v := range vertices {
			sg.InsertVertex(id, v.Record)
		}
	case ports.PropertyType:
		vertices, err := r.vertexReader.ReadPropertyTypeVertices(ctx, work, query.Axis)
		if err != nil {
			return appErrors.Wrap(err, "materializing fast-path property type roots")
		}
		for id, v := range vertices {
			sg.InsertVertex(id, v.Record)
		}
	}
	return nil
}
