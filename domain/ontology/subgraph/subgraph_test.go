package subgraph_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/subgraph"
	"ontology-resolver/domain/ontology/valueobjects"
)

func testVertexID(raw string) valueobjects.VertexID {
	base := valueobjects.MustBaseURL(raw)
	return valueobjects.NewVertexID(base, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestSubgraph_InsertVertex_IdempotentFirstWins(t *testing.T) {
	s := subgraph.New()
	id := testVertexID("https://example.com/types/entity-type/person")
	first := &schema.EntityTypeRecord{OntologyID: 1}
	second := &schema.EntityTypeRecord{OntologyID: 2}

	s.InsertVertex(id, first)
	s.InsertVertex(id, second)

	record, ok := s.Vertex(id)
	assert.True(t, ok)
	assert.Same(t, first, record)
	assert.Equal(t, 1, s.VertexCount())
}

func TestSubgraph_InsertEdge_Idempotent(t *testing.T) {
	s := subgraph.New()
	source := testVertexID("https://example.com/types/entity-type/person")
	target := testVertexID("https://example.com/types/property-type/name")

	s.InsertEdge(source, valueobjects.ConstrainsPropertiesOn, valueobjects.Outgoing, target)
	s.InsertEdge(source, valueobjects.ConstrainsPropertiesOn, valueobjects.Outgoing, target)

	assert.Equal(t, 1, s.EdgeCount())
}

func TestSubgraph_InsertRoot_Idempotent(t *testing.T) {
	s := subgraph.New()
	id := testVertexID("https://example.com/types/entity-type/person")

	s.InsertRoot(id)
	s.InsertRoot(id)

	assert.Len(t, s.Roots(), 1)
}

func TestSubgraph_HasVertex(t *testing.T) {
	s := subgraph.New()
	id := testVertexID("https://example.com/types/entity-type/person")
	assert.False(t, s.HasVertex(id))

	s.InsertVertex(id, &schema.EntityTypeRecord{OntologyID: 1})
	assert.True(t, s.HasVertex(id))
}

func TestSubgraph_ReferentialClosure(t *testing.T) {
	s := subgraph.New()
	source := testVertexID("https://example.com/types/entity-type/person")
	target := testVertexID("https://example.com/types/property-type/name")

	s.InsertEdge(source, valueobjects.ConstrainsPropertiesOn, valueobjects.Outgoing, target)
	assert.False(t, s.ReferentialClosure(), "edge endpoints not yet inserted as vertices")

	s.InsertVertex(source, &schema.EntityTypeRecord{OntologyID: 1})
	s.InsertVertex(target, &schema.PropertyTypeRecord{OntologyID: 2})
	assert.True(t, s.ReferentialClosure())
}

func TestSubgraph_Edges_ReturnsEveryDistinctTriple(t *testing.T) {
	s := subgraph.New()
	source := testVertexID("https://example.com/types/entity-type/person")
	target1 := testVertexID("https://example.com/types/property-type/name")
	target2 := testVertexID("https://example.com/types/property-type/age")

	s.InsertEdge(source, valueobjects.ConstrainsPropertiesOn, valueobjects.Outgoing, target1)
	s.InsertEdge(source, valueobjects.ConstrainsPropertiesOn, valueobjects.Outgoing, target2)

	assert.Len(t, s.Edges(), 2)
}
