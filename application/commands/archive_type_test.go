package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

func testVersionedURL(t *testing.T, raw string) valueobjects.VersionedURL {
	t.Helper()
	base := valueobjects.MustBaseURL(raw)
	id, err := valueobjects.NewVersionedURL(base, 1)
	require.NoError(t, err)
	return id
}

func TestArchiveTypeHandler_HandleArchive_Success(t *testing.T) {
	store := &fakeStore{archiveMetadata: schema.OntologyMetadata{
		Temporal: schema.TemporalVersioning{TransactionTime: valueobjects.NewUnboundedInterval(time.Now())},
	}}
	authz := &fakeAuthorizationClient{}
	uow := newFakeUnitOfWork(store, authz)
	handler := NewArchiveTypeHandler(uow, nil)

	cmd := ArchiveTypeCommand{Actor: uuid.New(), Kind: ports.EntityType, URL: testVersionedURL(t, "https://example.com/types/entity-type/person")}
	_, err := handler.HandleArchive(context.Background(), cmd)

	require.NoError(t, err)
	assert.True(t, uow.committed)
	require.Len(t, authz.requests, 1)
	assert.Equal(t, "archive", authz.requests[0].Action)
	assert.Equal(t, ports.EntityType, authz.requests[0].Kind)
}

func TestArchiveTypeHandler_HandleArchive_ValidationError(t *testing.T) {
	uow := newFakeUnitOfWork(&fakeStore{}, &fakeAuthorizationClient{})
	handler := NewArchiveTypeHandler(uow, nil)

	_, err := handler.HandleArchive(context.Background(), ArchiveTypeCommand{})
	assert.Error(t, err)
	assert.False(t, uow.began)
}

func TestArchiveTypeHandler_HandleArchive_StoreErrorRollsBack(t *testing.T) {
	store := &fakeStore{archiveErr: assertionError("record not found")}
	uow := newFakeUnitOfWork(store, &fakeAuthorizationClient{})
	handler := NewArchiveTypeHandler(uow, nil)

	cmd := ArchiveTypeCommand{Actor: uuid.New(), Kind: ports.PropertyType, URL: testVersionedURL(t, "https://example.com/types/property-type/name")}
	_, err := handler.HandleArchive(context.Background(), cmd)

	assert.Error(t, err)
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestArchiveTypeHandler_HandleArchive_AuthorizationFailureCompensates(t *testing.T) {
	store := &fakeStore{archiveMetadata: schema.OntologyMetadata{
		Temporal: schema.TemporalVersioning{TransactionTime: valueobjects.NewUnboundedInterval(time.Now())},
	}}
	authz := &fakeAuthorizationClient{failOn: "archive", err: assertionError("authorization denied")}
	uow := newFakeUnitOfWork(store, authz)
	handler := NewArchiveTypeHandler(uow, nil)

	url := testVersionedURL(t, "https://example.com/types/entity-type/person")
	cmd := ArchiveTypeCommand{Actor: uuid.New(), Kind: ports.EntityType, URL: url}
	_, err := handler.HandleArchive(context.Background(), cmd)

	assert.Error(t, err)
	require.Len(t, store.archivedURLs, 1)
	assert.Equal(t, url, store.archivedURLs[0])
}

func TestArchiveTypeHandler_HandleUnarchive_Success(t *testing.T) {
	store := &fakeStore{unarchiveMetadata: schema.OntologyMetadata{
		Temporal: schema.TemporalVersioning{TransactionTime: valueobjects.NewUnboundedInterval(time.Now())},
	}}
	authz := &fakeAuthorizationClient{}
	uow := newFakeUnitOfWork(store, authz)
	handler := NewArchiveTypeHandler(uow, nil)

	cmd := UnarchiveTypeCommand{Actor: uuid.New(), Kind: ports.PropertyType, URL: testVersionedURL(t, "https://example.com/types/property-type/name")}
	_, err := handler.HandleUnarchive(context.Background(), cmd)

	require.NoError(t, err)
	assert.True(t, uow.committed)
	require.Len(t, authz.requests, 1)
	assert.Equal(t, "unarchive", authz.requests[0].Action)
}

func TestArchiveTypeHandler_HandleUnarchive_ValidationError(t *testing.T) {
	uow := newFakeUnitOfWork(&fakeStore{}, &fakeAuthorizationClient{})
	handler := NewArchiveTypeHandler(uow, nil)

	_, err := handler.HandleUnarchive(context.Background(), UnarchiveTypeCommand{})
	assert.Error(t, err)
	assert.False(t, uow.began)
}
