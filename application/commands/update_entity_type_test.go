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
)

func TestUpdateEntityTypeHandler_Handle_Success(t *testing.T) {
	url := testVersionedURL(t, "https://example.com/types/entity-type/person")
	store := &fakeStore{updateEntityResult: &ports.UpdateTypeResult{
		OntologyID: 1,
		NewVersion: 2,
		TxnTime:    time.Now(),
		NewSchema:  schema.EntityTypeSchema{ID: url, Title: "Person"},
	}}
	authz := &fakeAuthorizationClient{}
	uow := newFakeUnitOfWork(store, authz)
	handler := NewUpdateEntityTypeHandler(uow, nil)

	cmd := UpdateEntityTypeCommand{Actor: uuid.New(), Schema: schema.EntityTypeSchema{ID: url, Title: "Person v2"}}
	_, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	assert.True(t, uow.committed)
	require.Len(t, authz.requests, 1)
	assert.Equal(t, "update", authz.requests[0].Action)
	assert.Equal(t, url, authz.requests[0].URL)
}

func TestUpdateEntityTypeHandler_Handle_ValidationError(t *testing.T) {
	uow := newFakeUnitOfWork(&fakeStore{}, &fakeAuthorizationClient{})
	handler := NewUpdateEntityTypeHandler(uow, nil)

	_, err := handler.Handle(context.Background(), UpdateEntityTypeCommand{})
	assert.Error(t, err)
	assert.False(t, uow.began)
}

func TestUpdateEntityTypeHandler_Handle_StoreErrorRollsBack(t *testing.T) {
	store := &fakeStore{updateEntityErr: assertionError("version conflict")}
	uow := newFakeUnitOfWork(store, &fakeAuthorizationClient{})
	handler := NewUpdateEntityTypeHandler(uow, nil)

	url := testVersionedURL(t, "https://example.com/types/entity-type/person")
	cmd := UpdateEntityTypeCommand{Actor: uuid.New(), Schema: schema.EntityTypeSchema{ID: url}}
	_, err := handler.Handle(context.Background(), cmd)

	assert.Error(t, err)
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestUpdateEntityTypeHandler_Handle_AuthorizationFailureCompensates(t *testing.T) {
	url := testVersionedURL(t, "https://example.com/types/entity-type/person")
	store := &fakeStore{updateEntityResult: &ports.UpdateTypeResult{
		OntologyID: 1,
		NewVersion: 2,
		TxnTime:    time.Now(),
		NewSchema:  schema.EntityTypeSchema{ID: url},
	}}
	authz := &fakeAuthorizationClient{failOn: "update", err: assertionError("authorization denied")}
	uow := newFakeUnitOfWork(store, authz)
	handler := NewUpdateEntityTypeHandler(uow, nil)

	cmd := UpdateEntityTypeCommand{Actor: uuid.New(), Schema: schema.EntityTypeSchema{ID: url}}
	_, err := handler.Handle(context.Background(), cmd)

	assert.Error(t, err)
	require.Len(t, store.archivedURLs, 1)
	assert.Equal(t, url, store.archivedURLs[0])
}
