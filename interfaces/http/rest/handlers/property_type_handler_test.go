package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ontology-resolver/application/commands"
	"ontology-resolver/application/commands/bus"
	"ontology-resolver/application/queries"
	querybus "ontology-resolver/application/queries/bus"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/subgraph"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

func testPropertyTypeSchemaDTO() PropertyTypeSchemaDTO {
	return PropertyTypeSchemaDTO{
		ID:    VersionedURLDTO{BaseURL: "https://example.com/types/property-type/name", Version: 1},
		Title: "Name",
	}
}

func TestPropertyTypeHandler_Create_Success(t *testing.T) {
	commandBus, queryBus, errHandler := newTestHandlerDeps()
	actor := uuid.New()
	want := []schema.OntologyMetadata{{Provenance: schema.NewProvenance(actor)}}

	var gotCmd commands.CreatePropertyTypesCommand
	commandBus.Register(commands.CreatePropertyTypesCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			gotCmd = cmd.(commands.CreatePropertyTypesCommand)
			return want, nil
		},
	))

	handler := NewPropertyTypeHandler(commandBus, queryBus, zap.NewNop(), errHandler)

	body, err := json.Marshal(CreatePropertyTypesRequest{
		Items: []CreatePropertyTypeItemDTO{{Schema: testPropertyTypeSchemaDTO()}},
	})
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/property-types", bytes.NewReader(body))
	r = withAuthenticatedActor(r, actor)
	w := httptest.NewRecorder()

	handler.Create(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, actor, gotCmd.Actor)
}

func TestPropertyTypeHandler_Create_UnauthenticatedReturnsUnauthorized(t *testing.T) {
	commandBus, queryBus, errHandler := newTestHandlerDeps()
	handler := NewPropertyTypeHandler(commandBus, queryBus, zap.NewNop(), errHandler)

	body, err := json.Marshal(CreatePropertyTypesRequest{
		Items: []CreatePropertyTypeItemDTO{{Schema: testPropertyTypeSchemaDTO()}},
	})
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/property-types", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPropertyTypeHandler_Update_Success(t *testing.T) {
	commandBus, queryBus, errHandler := newTestHandlerDeps()
	actor := uuid.New()
	want := schema.OntologyMetadata{Provenance: schema.NewProvenance(actor)}

	commandBus.Register(commands.UpdatePropertyTypeCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			return want, nil
		},
	))

	handler := NewPropertyTypeHandler(commandBus, queryBus, zap.NewNop(), errHandler)

	body, err := json.Marshal(testPropertyTypeSchemaDTO())
	require.NoError(t, err)

	r := httptest.NewRequest("PUT", "/property-types", bytes.NewReader(body))
	r = withAuthenticatedActor(r, actor)
	w := httptest.NewRecorder()

	handler.Update(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPropertyTypeHandler_Unarchive_Success(t *testing.T) {
	commandBus, queryBus, errHandler := newTestHandlerDeps()
	actor := uuid.New()
	want := schema.OntologyMetadata{Provenance: schema.NewProvenance(actor)}

	commandBus.Register(commands.UnarchiveTypeCommand{}, bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			return want, nil
		},
	))

	handler := NewPropertyTypeHandler(commandBus, queryBus, zap.NewNop(), errHandler)

	body, err := json.Marshal(ArchiveRequest{
		URL: VersionedURLDTO{BaseURL: "https://example.com/types/property-type/name", Version: 1},
	})
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/property-types/unarchive", bytes.NewReader(body))
	r = withAuthenticatedActor(r, actor)
	w := httptest.NewRecorder()

	handler.Unarchive(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPropertyTypeHandler_Get_Success(t *testing.T) {
	commandBus, queryBus, errHandler := newTestHandlerDeps()
	sg := subgraph.New()
	base := valueobjects.MustBaseURL("https://example.com/types/property-type/name")

	queryBus.Register(queries.GetEntityTypeQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return sg, nil
		},
	))

	handler := NewPropertyTypeHandler(commandBus, queryBus, zap.NewNop(), errHandler)

	r := httptest.NewRequest("GET", "/property-types?base_url="+base.String(), nil)
	w := httptest.NewRecorder()

	handler.Get(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPropertyTypeHandler_Get_QueryHandlerErrorPropagates(t *testing.T) {
	commandBus, queryBus, errHandler := newTestHandlerDeps()
	base := valueobjects.MustBaseURL("https://example.com/types/property-type/name")

	queryBus.Register(queries.GetEntityTypeQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			return nil, appErrors.NewInternalError("resolve failed")
		},
	))

	handler := NewPropertyTypeHandler(commandBus, queryBus, zap.NewNop(), errHandler)

	r := httptest.NewRequest("GET", "/property-types?base_url="+base.String(), nil)
	w := httptest.NewRecorder()

	handler.Get(w, r)

	assert.NotEqual(t, http.StatusOK, w.Code)
}
