package resolver_test

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontology-resolver/application/ports"
	"ontology-resolver/application/resolver"
	"ontology-resolver/domain/ontology/edges"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

// storeStub implements only the ResolveFilter surface the Resolver actually
// calls; every other OntologyStore method panics if reached, since the
// Resolver never mutates the store.
type storeStub struct {
	matches []ports.FilterMatch
	err     error
}

func (s *storeStub) CreateEntityType(context.Context, schema.EntityTypeSchema, schema.PartialMetadata, uuid.UUID, valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	panic("not used by resolver tests")
}
func (s *storeStub) CreatePropertyType(context.Context, schema.PropertyTypeSchema, schema.PartialMetadata, uuid.UUID, valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	panic("not used by resolver tests")
}
func (s *storeStub) UpdateEntityType(context.Context, schema.EntityTypeSchema, uuid.UUID) (*ports.UpdateTypeResult, error) {
	panic("not used by resolver tests")
}
func (s *storeStub) UpdatePropertyType(context.Context, schema.PropertyTypeSchema, uuid.UUID) (*ports.UpdateTypeResult, error) {
	panic("not used by resolver tests")
}
func (s *storeStub) InsertReferenceRows(context.Context, valueobjects.ReferenceKind, valueobjects.OntologyID, []ports.ReferenceRow) error {
	panic("not used by resolver tests")
}
func (s *storeStub) ResolveOntologyID(context.Context, ports.TypeKind, valueobjects.VersionedURL) (valueobjects.OntologyID, bool, error) {
	panic("not used by resolver tests")
}
func (s *storeStub) Archive(context.Context, ports.TypeKind, valueobjects.VersionedURL, uuid.UUID) (schema.OntologyMetadata, error) {
	panic("not used by resolver tests")
}
func (s *storeStub) Unarchive(context.Context, ports.TypeKind, valueobjects.VersionedURL, uuid.UUID) (schema.OntologyMetadata, error) {
	panic("not used by resolver tests")
}
func (s *storeStub) DeleteAll(context.Context) error {
	panic("not used by resolver tests")
}

func (s *storeStub) ResolveFilter(ctx context.Context, kind ports.TypeKind, filter ports.Filter, axis valueobjects.TimeAxis) ([]ports.FilterMatch, error) {
	return s.matches, s.err
}

type fakeEdgeReader struct {
	byKind map[valueobjects.ReferenceKind][]edges.Edge
}

func (r *fakeEdgeReader) ReadEdges(ctx context.Context, kind valueobjects.ReferenceKind, sources []edges.WorkItem, axis valueobjects.TimeAxis) (iter.Seq[edges.Edge], error) {
	batch := r.byKind[kind]
	return func(yield func(edges.Edge) bool) {
		for _, e := range batch {
			if !yield(e) {
				return
			}
		}
	}, nil
}

type fakeVertexReader struct {
	entityVertices   map[valueobjects.VertexID]ports.VertexRecord
	propertyVertices map[valueobjects.VertexID]ports.VertexRecord
}

func (r *fakeVertexReader) ReadEntityTypeVertices(ctx context.Context, work []edges.WorkItem, axis valueobjects.TimeAxis) (map[valueobjects.VertexID]ports.VertexRecord, error) {
	out := make(map[valueobjects.VertexID]ports.VertexRecord)
	for _, item := range work {
		if v, ok := r.entityVertices[item.Endpoint]; ok {
			out[item.Endpoint] = v
		}
	}
	return out, nil
}

func (r *fakeVertexReader) ReadPropertyTypeVertices(ctx context.Context, work []edges.WorkItem, axis valueobjects.TimeAxis) (map[valueobjects.VertexID]ports.VertexRecord, error) {
	out := make(map[valueobjects.VertexID]ports.VertexRecord)
	for _, item := range work {
		if v, ok := r.propertyVertices[item.Endpoint]; ok {
			out[item.Endpoint] = v
		}
	}
	return out, nil
}

func testVertex(raw string) valueobjects.VertexID {
	base := valueobjects.MustBaseURL(raw)
	return valueobjects.NewVertexID(base, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestResolver_Resolve_ZeroDepthFastPathReturnsOnlyRoots(t *testing.T) {
	rootVertex := testVertex("https://example.com/types/entity-type/person")
	store := &storeStub{matches: []ports.FilterMatch{{OntologyID: 1, Endpoint: rootVertex}}}
	edgeReader := &fakeEdgeReader{}
	vertexReader := &fakeVertexReader{entityVertices: map[valueobjects.VertexID]ports.VertexRecord{
		rootVertex: {OntologyID: 1, Record: &schema.EntityTypeRecord{OntologyID: 1}},
	}}

	r := resolver.New(store, edgeReader, vertexReader, nil)
	query := resolver.StructuralQuery{
		Kind:          ports.EntityType,
		ResolveDepths: valueobjects.NewGraphResolveDepths(nil),
		Axis:          valueobjects.TransactionTime,
		Interval:      valueobjects.NewUnboundedInterval(time.Now()),
	}

	sg, err := r.Resolve(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, sg.VertexCount())
	assert.Equal(t, 0, sg.EdgeCount())
	assert.Len(t, sg.Roots(), 1)
}

func TestResolver_Resolve_OneHopInheritsFromExpandsToSecondVertex(t *testing.T) {
	rootVertex := testVertex("https://example.com/types/entity-type/employee")
	parentVertex := testVertex("https://example.com/types/entity-type/person")

	store := &storeStub{matches: []ports.FilterMatch{{OntologyID: 1, Endpoint: rootVertex}}}
	edgeReader := &fakeEdgeReader{byKind: map[valueobjects.ReferenceKind][]edges.Edge{
		valueobjects.InheritsFrom: {
			{
				Kind:              valueobjects.InheritsFrom,
				LeftEndpoint:      rootVertex,
				LeftOntologyID:    1,
				RightEndpoint:     parentVertex,
				RightOntologyID:   2,
				ResolveDepths:     valueobjects.NewGraphResolveDepths(nil),
				TraversalInterval: valueobjects.NewUnboundedInterval(time.Now()),
			},
		},
	}}
	vertexReader := &fakeVertexReader{entityVertices: map[valueobjects.VertexID]ports.VertexRecord{
		rootVertex:   {OntologyID: 1, Record: &schema.EntityTypeRecord{OntologyID: 1}},
		parentVertex: {OntologyID: 2, Record: &schema.EntityTypeRecord{OntologyID: 2}},
	}}

	r := resolver.New(store, edgeReader, vertexReader, nil)
	query := resolver.StructuralQuery{
		Kind:          ports.EntityType,
		ResolveDepths: valueobjects.NewGraphResolveDepths(map[valueobjects.ReferenceKind]uint8{valueobjects.InheritsFrom: 1}),
		Axis:          valueobjects.TransactionTime,
		Interval:      valueobjects.NewUnboundedInterval(time.Now()),
	}

	sg, err := r.Resolve(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 2, sg.VertexCount())
	assert.Equal(t, 1, sg.EdgeCount())
	assert.True(t, sg.ReferentialClosure())
}

func TestResolver_Resolve_FilterErrorPropagates(t *testing.T) {
	store := &storeStub{err: assertionErr("store unavailable")}
	r := resolver.New(store, &fakeEdgeReader{}, &fakeVertexReader{}, nil)

	_, err := r.Resolve(context.Background(), resolver.StructuralQuery{
		Kind:          ports.EntityType,
		ResolveDepths: valueobjects.NewGraphResolveDepths(nil),
		Axis:          valueobjects.TransactionTime,
	})
	assert.Error(t, err)
}

type assertionErr string

func (e assertionErr) Error() string { return string(e) }
