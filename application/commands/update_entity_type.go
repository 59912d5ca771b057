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

// UpdateEntityTypeCommand allocates the next version of an existing entity
// type. LabelProperty and Icon travel as part of Schema, matching the
// caller-facing signature's optional label-property/icon update.
type UpdateEntityTypeCommand struct {
	Actor  uuid.UUID
	Schema schema.EntityTypeSchema
}

// Validate implements bus.Command.
func (c UpdateEntityTypeCommand) Validate() error {
	if c.Actor == uuid.Nil {
		return appErrors.NewValidationError("actor is required")
	}
	if c.Schema.ID.BaseURL.IsZero() {
		return appErrors.NewValidationError("schema base url is required")
	}
	return nil
}

// UpdateEntityTypeHandler handles UpdateEntityTypeCommand.
type UpdateEntityTypeHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

func NewUpdateEntityTypeHandler(uow ports.UnitOfWork, logger *zap.Logger) *UpdateEntityTypeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateEntityTypeHandler{uow: uow, logger: logger}
}

// Handle writes the new version row, then inserts its reference rows, all
// within one unit of work.
func (h *UpdateEntityTypeHandler) Handle(ctx context.Context, cmd UpdateEntityTypeCommand) (schema.OntologyMetadata, error) {
	if err := cmd.Validate(); err != nil {
		return schema.OntologyMetadata{}, err
	}

	if err := h.uow.Begin(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "beginning update entity type transaction")
	}
	defer h.uow.Rollback(ctx)

	store := h.uow.Store()
	result, err := store.UpdateEntityType(ctx, cmd.Schema, cmd.Actor)
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrapf(err, "updating entity type %s", cmd.Schema.ID.BaseURL.String())
	}

	inserter := referenceinserter.New(store, h.logger)
	if err := inserter.InsertEntityTypeReferences(ctx, result.OntologyID, result.NewSchema); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrapf(err, "inserting references for %s", result.NewSchema.ID.String())
	}

	h.uow.PublishOnCommit(events.NewEntityTypeUpdated(cmd.Schema.ID.BaseURL.String(), result.NewVersion, cmd.Actor, result.TxnTime))
	h.uow.AuthorizeOnCommit(ports.AuthorizationRequest{Actor: cmd.Actor, Kind: ports.EntityType, URL: result.NewSchema.ID, Action: "update"})

	if err := h.uow.Commit(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "committing update entity type transaction")
	}
	return result.NewMetadata, nil
}
