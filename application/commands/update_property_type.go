package commands

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/application/referenceinserter"
	"ontology-resolver/domain/events"
	"ontology-resolver/domain/ontology/schema"
	appErrors "ontology-resolver/pkg/errors"
)

// UpdatePropertyTypeCommand is the property-type analogue of
// UpdateEntityTypeCommand.
type UpdatePropertyTypeCommand struct {
	Actor  uuid.UUID
	Schema schema.PropertyTypeSchema
}

// Validate implements bus.Command.
func (c UpdatePropertyTypeCommand) Validate() error {
	if c.Actor == uuid.Nil {
		return appErrors.NewValidationError("actor is required")
	}
	if c.Schema.ID.BaseURL.IsZero() {
		return appErrors.NewValidationError("schema base url is required")
	}
	return nil
}

// UpdatePropertyTypeHandler handles UpdatePropertyTypeCommand.
type UpdatePropertyTypeHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

func NewUpdatePropertyTypeHandler(uow ports.UnitOfWork, logger *zap.Logger) *UpdatePropertyTypeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdatePropertyTypeHandler{uow: uow, logger: logger}
}

// Handle mirrors UpdateEntityTypeHandler.Handle over property types.
func (h *UpdatePropertyTypeHandler) Handle(ctx context.Context, cmd UpdatePropertyTypeCommand) (schema.OntologyMetadata, error) {
	if err := cmd.Validate(); err != nil {
		return schema.OntologyMetadata{}, err
	}

	if err := h.uow.Begin(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "beginning update property type transaction")
	}
	defer h.uow.Rollback(ctx)

	store := h.uow.Store()
	result, err := store.UpdatePropertyType(ctx, cmd.Schema, cmd.Actor)
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrapf(err, "updating property type %s", cmd.Schema.ID.BaseURL.String())
	}

	inserter := referenceinserter.New(store, h.logger)
	if err := inserter.InsertPropertyTypeReferences(ctx, result.OntologyID, cmd.Schema); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrapf(err, "inserting references for %s", cmd.Schema.ID.String())
	}

	h.uow.PublishOnCommit(events.NewPropertyTypeUpdated(cmd.Schema.ID.BaseURL.String(), result.NewVersion, cmd.Actor, result.TxnTime))
	newURL := cmd.Schema.ID
	newURL.Version = result.NewVersion
	h.uow.AuthorizeOnCommit(ports.AuthorizationRequest{Actor: cmd.Actor, Kind: ports.PropertyType, URL: newURL, Action: "update"})

	if err := h.uow.Commit(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "committing update property type transaction")
	}
	return result.NewMetadata, nil
}
