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

func newTestPropertyTypeSchema(t *testing.T, rawURL string) schema.PropertyTypeSchema {
	t.Helper()
	base := valueobjects.MustBaseURL(rawURL)
	id, err := valueobjects.NewVersionedURL(base, 1)
	require.NoError(t, err)
	return schema.PropertyTypeSchema{ID: id, Title: "Name"}
}

func TestCreatePropertyTypesHandler_Handle_Success(t *testing.T) {
	store := &fakeStore{createPropResult: &ports.CreateTypeResult{
		OntologyID: ptrOntologyID(1),
		TxnTime:    time.Now(),
	}}
	authz := &fakeAuthorizationClient{}
	uow := newFakeUnitOfWork(store, authz)
	handler := NewCreatePropertyTypesHandler(uow, nil)

	cmd := CreatePropertyTypesCommand{
		Actor:      uuid.New(),
		Items:      []PropertyTypeInput{{Schema: newTestPropertyTypeSchema(t, "https://example.com/types/property-type/name")}},
		OnConflict: valueobjects.Fail,
	}

	results, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.True(t, uow.committed)
	require.Len(t, authz.requests, 1)
	assert.Equal(t, ports.PropertyType, authz.requests[0].Kind)
}

func TestCreatePropertyTypesHandler_Handle_ValidationError(t *testing.T) {
	uow := newFakeUnitOfWork(&fakeStore{}, &fakeAuthorizationClient{})
	handler := NewCreatePropertyTypesHandler(uow, nil)

	_, err := handler.Handle(context.Background(), CreatePropertyTypesCommand{})
	assert.Error(t, err)
	assert.False(t, uow.began)
}

func TestCreatePropertyTypesHandler_Handle_StoreErrorRollsBack(t *testing.T) {
	store := &fakeStore{createPropErr: assertionError("store unavailable")}
	uow := newFakeUnitOfWork(store, &fakeAuthorizationClient{})
	handler := NewCreatePropertyTypesHandler(uow, nil)

	cmd := CreatePropertyTypesCommand{
		Actor:      uuid.New(),
		Items:      []PropertyTypeInput{{Schema: newTestPropertyTypeSchema(t, "https://example.com/types/property-type/name")}},
		OnConflict: valueobjects.Fail,
	}

	_, err := handler.Handle(context.Background(), cmd)
	assert.Error(t, err)
	assert.True(t, uow.rolledBack)
}
