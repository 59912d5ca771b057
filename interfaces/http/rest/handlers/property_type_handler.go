package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"ontology-resolver/application/commands"
	"ontology-resolver/application/commands/bus"
	"ontology-resolver/application/ports"
	"ontology-resolver/application/queries"
	querybus "ontology-resolver/application/queries/bus"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/subgraph"
	"ontology-resolver/pkg/common"
	appErrors "ontology-resolver/pkg/errors"
	"ontology-resolver/pkg/utils"
)

// PropertyTypeHandler mirrors EntityTypeHandler over property types.
type PropertyTypeHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	logger       *zap.Logger
	errorHandler *appErrors.ErrorHandler
}

func NewPropertyTypeHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger, errorHandler *appErrors.ErrorHandler) *PropertyTypeHandler {
	return &PropertyTypeHandler{commandBus: commandBus, queryBus: queryBus, logger: logger, errorHandler: errorHandler}
}

// Create handles POST /property-types.
func (h *PropertyTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyTypesRequest
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

	items := make([]commands.PropertyTypeInput, 0, len(req.Items))
	for _, item := range req.Items {
		s, err := item.Schema.toDomain()
		if err != nil {
			h.errorHandler.Handle(w, r, appErrors.NewValidationError(err.Error()))
			return
		}
		items = append(items, commands.PropertyTypeInput{
			Schema:          s,
			PartialMetadata: schema.PartialMetadata{Custom: item.Custom},
		})
	}

	cmd := commands.CreatePropertyTypesCommand{
		Actor:      actor,
		Items:      items,
		OnConflict: conflictBehaviorFromString(req.OnConflict),
	}

	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to create property types", zap.Error(err))
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

// Update handles PUT /property-types.
func (h *PropertyTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req PropertyTypeSchemaDTO
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

	cmd := commands.UpdatePropertyTypeCommand{Actor: actor, Schema: s}
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to update property type", zap.String("baseURL", s.ID.BaseURL.String()), zap.Error(err))
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

// Archive handles POST /property-types/archive.
func (h *PropertyTypeHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.archiveOrUnarchive(w, r, true)
}

// Unarchive handles POST /property-types/unarchive.
func (h *PropertyTypeHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.archiveOrUnarchive(w, r, false)
}

func (h *PropertyTypeHandler) archiveOrUnarchive(w http.ResponseWriter, r *http.Request, archive bool) {
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
		result, err = h.commandBus.Send(r.Context(), commands.ArchiveTypeCommand{Actor: actor, Kind: ports.PropertyType, URL: url})
	} else {
		result, err = h.commandBus.Send(r.Context(), commands.UnarchiveTypeCommand{Actor: actor, Kind: ports.PropertyType, URL: url})
	}
	if err != nil {
		h.logger.Error("failed to archive/unarchive property type", zap.String("url", url.String()), zap.Error(err))
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

// Get handles GET /property-types.
func (h *PropertyTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	depths, err := parseResolveDepths(r, ports.PropertyType)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	query := queries.GetEntityTypeQuery{
		Kind:          ports.PropertyType,
		Filter:        filter,
		ResolveDepths: depths,
		Axis:          axis,
		Interval:      interval,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to resolve property type query", zap.Error(err))
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
