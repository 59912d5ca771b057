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

func TestUpdatePropertyTypeHandler_Handle_Success(t *testing.T) {
	url := testVersionedURL(t, "https://example.com/types/property-type/name")
	store := &fakeStore{updatePropResult: &ports.UpdateTypeResult{
		OntologyID: 1,
		NewVersion: 2,
		TxnTime:    time.Now(),
		NewSchema:  schema.EntityTypeSchema{ID: url},
	}}
	authz := &fakeAuthorizationClient{}
	uow := newFakeUnitOfWork(store, authz)
	handler := NewUpdatePropertyTypeHandler(uow, nil)

	cmd := UpdatePropertyTypeCommand{Actor: uuid.New(), Schema: schema.PropertyTypeSchema{ID: url, Title: "Name v2"}}
	_, err := handler.Handle(context.Background(), cmd)

	require.NoError(t, err)
	assert.True(t, uow.committed)
	require.Len(t, authz.requests, 1)
	assert.Equal(t, "update", authz.requests[0].Action)
	assert.Equal(t, ports.PropertyType, authz.requests[0].Kind)
}

func TestUpdatePropertyTypeHandler_Handle_ValidationError(t *testing.T) {
	uow := newFakeUnitOfWork(&fakeStore{}, &fakeAuthorizationClient{})
	handler := NewUpdatePropertyTypeHandler(uow, nil)

	_, err := handler.Handle(context.Background(), UpdatePropertyTypeCommand{})
	assert.Error(t, err)
	assert.False(t, uow.began)
}

func TestUpdatePropertyTypeHandler_Handle_StoreErrorRollsBack(t *testing.T) {
	store := &fakeStore{updatePropErr: assertionError("version conflict")}
	uow := newFakeUnitOfWork(store, &fakeAuthorizationClient{})
	handler := NewUpdatePropertyTypeHandler(uow, nil)

	url := testVersionedURL(t, "https://example.com/types/property-type/name")
	cmd := UpdatePropertyTypeCommand{Actor: uuid.New(), Schema: schema.PropertyTypeSchema{ID: url}}
	_, err := handler.Handle(context.Background(), cmd)

	assert.Error(t, err)
	assert.True(t, uow.rolledBack)
}
