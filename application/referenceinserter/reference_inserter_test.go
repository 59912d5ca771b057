package referenceinserter

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

// fakeReferenceStore implements only ResolveOntologyID and
// InsertReferenceRows, the two ports.OntologyStore methods the Inserter
// actually calls; every other method panics if reached.
type fakeReferenceStore struct {
	resolved map[string]valueobjects.OntologyID

	insertedRows map[valueobjects.ReferenceKind][]ports.ReferenceRow
	insertErr    error
}

func newFakeReferenceStore() *fakeReferenceStore {
	return &fakeReferenceStore{
		resolved:     make(map[string]valueobjects.OntologyID),
		insertedRows: make(map[valueobjects.ReferenceKind][]ports.ReferenceRow),
	}
}

func (s *fakeReferenceStore) CreateEntityType(context.Context, schema.EntityTypeSchema, schema.PartialMetadata, uuid.UUID, valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	panic("not used by reference inserter tests")
}
func (s *fakeReferenceStore) CreatePropertyType(context.Context, schema.PropertyTypeSchema, schema.PartialMetadata, uuid.UUID, valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	panic("not used by reference inserter tests")
}
func (s *fakeReferenceStore) UpdateEntityType(context.Context, schema.EntityTypeSchema, uuid.UUID) (*ports.UpdateTypeResult, error) {
	panic("not used by reference inserter tests")
}
func (s *fakeReferenceStore) UpdatePropertyType(context.Context, schema.PropertyTypeSchema, uuid.UUID) (*ports.UpdateTypeResult, error) {
	panic("not used by reference inserter tests")
}
func (s *fakeReferenceStore) Archive(context.Context, ports.TypeKind, valueobjects.VersionedURL, uuid.UUID) (schema.OntologyMetadata, error) {
	panic("not used by reference inserter tests")
}
func (s *fakeReferenceStore) Unarchive(context.Context, ports.TypeKind, valueobjects.VersionedURL, uuid.UUID) (schema.OntologyMetadata, error) {
	panic("not used by reference inserter tests")
}
func (s *fakeReferenceStore) ResolveFilter(context.Context, ports.TypeKind, ports.Filter, valueobjects.TimeAxis) ([]ports.FilterMatch, error) {
	panic("not used by reference inserter tests")
}
func (s *fakeReferenceStore) DeleteAll(context.Context) error {
	panic("not used by reference inserter tests")
}

func (s *fakeReferenceStore) ResolveOntologyID(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL) (valueobjects.OntologyID, bool, error) {
	id, ok := s.resolved[url.String()]
	return id, ok, nil
}

func (s *fakeReferenceStore) InsertReferenceRows(ctx context.Context, kind valueobjects.ReferenceKind, sourceID valueobjects.OntologyID, rows []ports.ReferenceRow) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.insertedRows[kind] = rows
	return nil
}

func mustVersionedURL(t *testing.T, raw string, version uint32) valueobjects.VersionedURL {
	t.Helper()
	base := valueobjects.MustBaseURL(raw)
	url, err := valueobjects.NewVersionedURL(base, version)
	require.NoError(t, err)
	return url
}

func TestInserter_InsertEntityTypeReferences_ResolvesAndGroupsByKind(t *testing.T) {
	store := newFakeReferenceStore()
	propertyRef := mustVersionedURL(t, "https://example.com/types/property-type/name", 1)
	parentRef := mustVersionedURL(t, "https://example.com/types/entity-type/animal", 1)
	store.resolved[propertyRef.String()] = valueobjects.OntologyID(10)
	store.resolved[parentRef.String()] = valueobjects.OntologyID(20)

	ri := New(store, nil)
	s := schema.EntityTypeSchema{
		PropertyReferences: []valueobjects.VersionedURL{propertyRef},
		InheritsFrom:       []valueobjects.VersionedURL{parentRef},
	}

	err := ri.InsertEntityTypeReferences(context.Background(), valueobjects.OntologyID(1), s)
	require.NoError(t, err)

	require.Len(t, store.insertedRows[valueobjects.ConstrainsPropertiesOn], 1)
	assert.Equal(t, valueobjects.OntologyID(10), store.insertedRows[valueobjects.ConstrainsPropertiesOn][0].TargetOntologyID)
	require.Len(t, store.insertedRows[valueobjects.InheritsFrom], 1)
	assert.Equal(t, valueobjects.OntologyID(20), store.insertedRows[valueobjects.InheritsFrom][0].TargetOntologyID)
}

func TestInserter_InsertEntityTypeReferences_DedupesPropertyReferences(t *testing.T) {
	store := newFakeReferenceStore()
	ref := mustVersionedURL(t, "https://example.com/types/property-type/name", 1)
	store.resolved[ref.String()] = valueobjects.OntologyID(10)

	ri := New(store, nil)
	s := schema.EntityTypeSchema{PropertyReferences: []valueobjects.VersionedURL{ref, ref}}

	err := ri.InsertEntityTypeReferences(context.Background(), valueobjects.OntologyID(1), s)
	require.NoError(t, err)
	assert.Len(t, store.insertedRows[valueobjects.ConstrainsPropertiesOn], 1)
}

func TestInserter_InsertEntityTypeReferences_UnresolvedReferenceErrors(t *testing.T) {
	store := newFakeReferenceStore()
	ref := mustVersionedURL(t, "https://example.com/types/property-type/missing", 1)

	ri := New(store, nil)
	s := schema.EntityTypeSchema{PropertyReferences: []valueobjects.VersionedURL{ref}}

	err := ri.InsertEntityTypeReferences(context.Background(), valueobjects.OntologyID(1), s)
	assert.Error(t, err)
}

func TestInserter_InsertEntityTypeReferences_LinkConstraints(t *testing.T) {
	store := newFakeReferenceStore()
	linkType := mustVersionedURL(t, "https://example.com/types/entity-type/works-at", 1)
	dest := mustVersionedURL(t, "https://example.com/types/entity-type/company", 1)
	store.resolved[linkType.String()] = valueobjects.OntologyID(30)
	store.resolved[dest.String()] = valueobjects.OntologyID(40)

	ri := New(store, nil)
	s := schema.EntityTypeSchema{
		LinkConstraints: []schema.LinkConstraint{
			{LinkTypeID: linkType, Destinations: []valueobjects.VersionedURL{dest}},
		},
	}

	err := ri.InsertEntityTypeReferences(context.Background(), valueobjects.OntologyID(1), s)
	require.NoError(t, err)
	assert.Len(t, store.insertedRows[valueobjects.ConstrainsLinksOn], 1)
	assert.Len(t, store.insertedRows[valueobjects.ConstrainsLinkDestinationsOn], 1)
}

func TestInserter_InsertPropertyTypeReferences_MergesDataAndPropertyRefs(t *testing.T) {
	store := newFakeReferenceStore()
	dataRef := mustVersionedURL(t, "https://example.com/types/data-type/text", 1)
	nestedRef := mustVersionedURL(t, "https://example.com/types/property-type/nested", 1)
	store.resolved[dataRef.String()] = valueobjects.OntologyID(50)
	store.resolved[nestedRef.String()] = valueobjects.OntologyID(60)

	ri := New(store, nil)
	s := schema.PropertyTypeSchema{
		DataTypeReferences:     []valueobjects.VersionedURL{dataRef},
		PropertyTypeReferences: []valueobjects.VersionedURL{nestedRef},
	}

	err := ri.InsertPropertyTypeReferences(context.Background(), valueobjects.OntologyID(2), s)
	require.NoError(t, err)
	assert.Len(t, store.insertedRows[valueobjects.ConstrainsValuesOn], 2)
}

func TestInserter_InsertPropertyTypeReferences_NoReferencesInsertsNothing(t *testing.T) {
	store := newFakeReferenceStore()
	ri := New(store, nil)

	err := ri.InsertPropertyTypeReferences(context.Background(), valueobjects.OntologyID(2), schema.PropertyTypeSchema{})
	require.NoError(t, err)
	assert.Empty(t, store.insertedRows)
}

// TestInserter_ResolvesBatchMateFromPendingResolutionWithoutStoreLookup covers
// the case a create batch creates two mutually-referencing types in the same
// command: the referenced type's id was only just allocated, not committed,
// so a live store read would not find it. PendingResolution must resolve it
// from memory instead.
func TestInserter_ResolvesBatchMateFromPendingResolutionWithoutStoreLookup(t *testing.T) {
	store := newFakeReferenceStore()
	ref := mustVersionedURL(t, "https://example.com/types/property-type/batch-mate", 1)

	pending := NewPendingResolution()
	pending.Add(ports.PropertyType, ref.BaseURL.String(), valueobjects.OntologyID(99))

	ri := NewWithPending(store, pending, nil)
	s := schema.EntityTypeSchema{PropertyReferences: []valueobjects.VersionedURL{ref}}

	err := ri.InsertEntityTypeReferences(context.Background(), valueobjects.OntologyID(1), s)
	require.NoError(t, err)

	require.Len(t, store.insertedRows[valueobjects.ConstrainsPropertiesOn], 1)
	assert.Equal(t, valueobjects.OntologyID(99), store.insertedRows[valueobjects.ConstrainsPropertiesOn][0].TargetOntologyID)
	assert.Empty(t, store.resolved, "pending resolution must be checked before falling back to a store lookup")
}

func TestInserter_PendingResolution_FallsBackToStoreWhenNotPending(t *testing.T) {
	store := newFakeReferenceStore()
	ref := mustVersionedURL(t, "https://example.com/types/property-type/already-committed", 1)
	store.resolved[ref.String()] = valueobjects.OntologyID(7)

	pending := NewPendingResolution()
	ri := NewWithPending(store, pending, nil)
	s := schema.EntityTypeSchema{PropertyReferences: []valueobjects.VersionedURL{ref}}

	err := ri.InsertEntityTypeReferences(context.Background(), valueobjects.OntologyID(1), s)
	require.NoError(t, err)
	require.Len(t, store.insertedRows[valueobjects.ConstrainsPropertiesOn], 1)
	assert.Equal(t, valueobjects.OntologyID(7), store.insertedRows[valueobjects.ConstrainsPropertiesOn][0].TargetOntologyID)
}
