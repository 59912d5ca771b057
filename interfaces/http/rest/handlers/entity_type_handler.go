package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ontology-resolver/application/commands"
	"ontology-resolver/application/commands/bus"
	"ontology-resolver/application/ports"
	"ontology-resolver/application/queries"
	querybus "ontology-resolver/application/queries/bus"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/subgraph"
	"ontology-resolver/pkg/auth"
	"ontology-resolver/pkg/common"
	appErrors "ontology-resolver/pkg/errors"
	"ontology-resolver/pkg/utils"
)

// EntityTypeHandler handles the entity-type caller-facing operations:
// create, update, archive, unarchive, and resolve-by-filter.
type EntityTypeHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	logger       *zap.Logger
	errorHandler *appErrors.ErrorHandler
}

func NewEntityTypeHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger, errorHandler *appErrors.ErrorHandler) *EntityTypeHandler {
	return &EntityTypeHandler{commandBus: commandBus, queryBus: queryBus, logger: logger, errorHandler: errorHandler}
}

func actorFromRequest(r *http.Request) (uuid.UUID, error) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		return uuid.Nil, appErrors.NewUnauthorizedError("unauthorized")
	}
	actor, err := uuid.Parse(userCtx.UserID)
	if err != nil {
		return uuid.Nil, appErrors.NewUnauthorizedError("invalid actor identity")
	}
	return actor, nil
}

// Create handles POST /entity-types.
func (h *EntityTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntityTypesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("validation error: "+err.Error()))
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	items := make([]commands.EntityTypeInput, 0, len(req.Items))
	for _, item := range req.Items {
		s, err := item.Schema.toDomain()
		if err != nil {
			h.errorHandler.Handle(w, r, appErrors.NewValidationError(err.Error()))
			return
		}
		items = append(items, commands.EntityTypeInput{
			Schema:          s,
			PartialMetadata: schema.PartialMetadata{Custom: item.Custom},
		})
	}

	cmd := commands.CreateEntityTypesCommand{
		Actor:      actor,
		Items:      items,
		OnConflict: conflictBehaviorFromString(req.OnConflict),
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to create entity types", zap.Error(err))
		h.errorHandler.Handle(w, r, err)
		return
	}

	created, ok := result.([]schema.OntologyMetadata)
	if !ok {
		h.errorHandler.Handle(w, r, appErrors.NewInternalError("unexpected command result shape"))
		return
	}

	common.RespondJSON(w, http.StatusCreated, CreateTypesResponse{Created: fromOntologyMetadataList(created)})
}

// Update handles PUT /entity-types.
func (h *EntityTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req EntityTypeSchemaDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("validation error: "+err.Error()))
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	s, err := req.toDomain()
	if err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError(err.Error()))
		return
	}

	cmd := commands.UpdateEntityTypeCommand{Actor: actor, Schema: s}
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to update entity type", zap.String("baseURL", s.ID.BaseURL.String()), zap.Error(err))
		h.errorHandler.Handle(w, r, err)
		return
	}

	metadata, ok := result.(schema.OntologyMetadata)
	if !ok {
		h.errorHandler.Handle(w, r, appErrors.NewInternalError("unexpected command result shape"))
		return
	}
	common.RespondJSON(w, http.StatusOK, fromOntologyMetadata(metadata))
}

// Archive handles POST /entity-types/archive.
func (h *EntityTypeHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.archiveOrUnarchive(w, r, true)
}

// Unarchive handles POST /entity-types/unarchive.
func (h *EntityTypeHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.archiveOrUnarchive(w, r, false)
}

func (h *EntityTypeHandler) archiveOrUnarchive(w http.ResponseWriter, r *http.Request, archive bool) {
	var req ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("validation error: "+err.Error()))
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	url, err := req.URL.toDomain()
	if err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError(err.Error()))
		return
	}

	var result interface{}
	if archive {
		result, err = h.commandBus.Send(r.Context(), commands.ArchiveTypeCommand{Actor: actor, Kind: ports.EntityType, URL: url})
	} else {
		result, err = h.commandBus.Send(r.Context(), commands.UnarchiveTypeCommand{Actor: actor, Kind: ports.EntityType, URL: url})
	}
	if err != nil {
		h.logger.Error("failed to archive/unarchive entity type", zap.String("url", url.String()), zap.Error(err))
		h.errorHandler.Handle(w, r, err)
		return
	}

	metadata, ok := result.(schema.OntologyMetadata)
	if !ok {
		h.errorHandler.Handle(w, r, appErrors.NewInternalError("unexpected command result shape"))
		return
	}
	common.RespondJSON(w, http.StatusOK, fromOntologyMetadata(metadata))
}

// Get handles GET /entity-types: resolves the structural query described by
// the request's filter and traversal query params into a subgraph.
func (h *EntityTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	axis, err := parseAxis(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	interval, err := parseInterval(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	depths, err := parseResolveDepths(r, ports.EntityType)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	query := queries.GetEntityTypeQuery{
		Kind:          ports.EntityType,
		Filter:        filter,
		ResolveDepths: depths,
		Axis:          axis,
		Interval:      interval,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to resolve entity type query", zap.Error(err))
		h.errorHandler.Handle(w, r, err)
		return
	}

	sg, ok := result.(*subgraph.Subgraph)
	if !ok {
		h.errorHandler.Handle(w, r, appErrors.NewInternalError("unexpected query result shape"))
		return
	}
	common.RespondJSON(w, http.StatusOK, fromSubgraph(sg))
}
