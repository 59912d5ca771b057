package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/application/referenceinserter"
	"ontology-resolver/domain/events"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// PropertyTypeInput is one item of a CreatePropertyTypesCommand batch.
type PropertyTypeInput struct {
	Schema          schema.PropertyTypeSchema
	PartialMetadata schema.PartialMetadata
}

// CreatePropertyTypesCommand is the property-type analogue of
// CreateEntityTypesCommand.
type CreatePropertyTypesCommand struct {
	Actor      uuid.UUID
	Items      []PropertyTypeInput
	OnConflict valueobjects.ConflictBehavior
}

// Validate implements bus.Command.
func (c CreatePropertyTypesCommand) Validate() error {
	if c.Actor == uuid.Nil {
		return appErrors.NewValidationError("actor is required")
	}
	if len(c.Items) == 0 {
		return appErrors.NewValidationError("at least one property type is required")
	}
	return nil
}

// CreatePropertyTypesHandler handles CreatePropertyTypesCommand.
type CreatePropertyTypesHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

func NewCreatePropertyTypesHandler(uow ports.UnitOfWork, logger *zap.Logger) *CreatePropertyTypesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreatePropertyTypesHandler{uow: uow, logger: logger}
}

// Handle mirrors CreateEntityTypesHandler.Handle over property types.
func (h *CreatePropertyTypesHandler) Handle(ctx context.Context, cmd CreatePropertyTypesCommand) ([]schema.OntologyMetadata, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.uow.Begin(ctx); err != nil {
		return nil, appErrors.Wrap(err, "beginning create property types transaction")
	}
	defer h.uow.Rollback(ctx)

	store := h.uow.Store()

	type createdItem struct {
		id      valueobjects.OntologyID
		schema  schema.PropertyTypeSchema
		txnTime time.Time
	}
	created := make([]createdItem, 0, len(cmd.Items))
	pending := referenceinserter.NewPendingResolution()

	for _, item := range cmd.Items {
		result, err := store.CreatePropertyType(ctx, item.Schema, item.PartialMetadata, cmd.Actor, cmd.OnConflict)
		if err != nil {
			return nil, appErrors.Wrapf(err, "creating property type %s", item.Schema.ID.String())
		}
		if result.OntologyID == nil {
			continue
		}
		created = append(created, createdItem{id: *result.OntologyID, schema: item.Schema, txnTime: result.TxnTime})
		pending.Add(ports.PropertyType, item.Schema.ID.BaseURL.String(), *result.OntologyID)
	}

	inserter := referenceinserter.NewWithPending(store, pending, h.logger)
	for _, c := range created {
		if err := inserter.InsertPropertyTypeReferences(ctx, c.id, c.schema); err != nil {
			return nil, appErrors.Wrapf(err, "inserting references for %s", c.schema.ID.String())
		}
	}

	for _, c := range created {
		h.uow.PublishOnCommit(events.NewPropertyTypeCreated(c.schema.ID.String(), cmd.Actor, c.txnTime))
		h.uow.AuthorizeOnCommit(ports.AuthorizationRequest{Actor: cmd.Actor, Kind: ports.PropertyType, URL: c.schema.ID, Action: "create"})
	}

	if err := h.uow.Commit(ctx); err != nil {
		return nil, appErrors.Wrap(err, "committing create property types transaction")
	}

	results := make([]schema.OntologyMetadata, 0, len(created))
	for _, c := range created {
		results = append(results, schema.OntologyMetadata{
			Provenance: schema.NewProvenance(cmd.Actor),
			Temporal: schema.TemporalVersioning{
				TransactionTime: valueobjects.NewUnboundedInterval(c.txnTime),
				DecisionTime:    valueobjects.NewUnboundedInterval(c.txnTime),
			},
		})
	}
	return results, nil
}
