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

// EntityTypeInput is one item of a CreateEntityTypesCommand batch.
type EntityTypeInput struct {
	Schema          schema.EntityTypeSchema
	PartialMetadata schema.PartialMetadata
}

// CreateEntityTypesCommand creates one or more entity type versions in a
// single unit of work; reference rows for every item are inserted only
// after every item's type row has landed, so entity types in the same batch
// may reference each other.
type CreateEntityTypesCommand struct {
	Actor      uuid.UUID
	Items      []EntityTypeInput
	OnConflict valueobjects.ConflictBehavior
}

// Validate implements bus.Command.
func (c CreateEntityTypesCommand) Validate() error {
	if c.Actor == uuid.Nil {
		return appErrors.NewValidationError("actor is required")
	}
	if len(c.Items) == 0 {
		return appErrors.NewValidationError("at least one entity type is required")
	}
	return nil
}

// CreateEntityTypesHandler handles CreateEntityTypesCommand.
type CreateEntityTypesHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

func NewCreateEntityTypesHandler(uow ports.UnitOfWork, logger *zap.Logger) *CreateEntityTypesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateEntityTypesHandler{uow: uow, logger: logger}
}

// Handle runs the full create-then-insert-references transaction and
// returns the metadata for every item that was not skipped under
// ConflictBehavior Skip.
func (h *CreateEntityTypesHandler) Handle(ctx context.Context, cmd CreateEntityTypesCommand) ([]schema.OntologyMetadata, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.uow.Begin(ctx); err != nil {
		return nil, appErrors.Wrap(err, "beginning create entity types transaction")
	}
	defer h.uow.Rollback(ctx)

	store := h.uow.Store()

	type createdItem struct {
		id      valueobjects.OntologyID
		schema  schema.EntityTypeSchema
		txnTime time.Time
	}
	created := make([]createdItem, 0, len(cmd.Items))
	pending := referenceinserter.NewPendingResolution()

	for _, item := range cmd.Items {
		result, err := store.CreateEntityType(ctx, item.Schema, item.PartialMetadata, cmd.Actor, cmd.OnConflict)
		if err != nil {
			return nil, appErrors.Wrapf(err, "creating entity type %s", item.Schema.ID.String())
		}
		if result.OntologyID == nil {
			continue
		}
		created = append(created, createdItem{id: *result.OntologyID, schema: item.Schema, txnTime: result.TxnTime})
		pending.Add(ports.EntityType, item.Schema.ID.BaseURL.String(), *result.OntologyID)
	}

	inserter := referenceinserter.NewWithPending(store, pending, h.logger)
	for _, c := range created {
		if err := inserter.InsertEntityTypeReferences(ctx, c.id, c.schema); err != nil {
			return nil, appErrors.Wrapf(err, "inserting references for %s", c.schema.ID.String())
		}
	}

	for _, c := range created {
		h.uow.PublishOnCommit(events.NewEntityTypeCreated(c.schema.ID.String(), cmd.Actor, c.txnTime))
		h.uow.AuthorizeOnCommit(ports.AuthorizationRequest{Actor: cmd.Actor, Kind: ports.EntityType, URL: c.schema.ID, Action: "create"})
	}

	if err := h.uow.Commit(ctx); err != nil {
		return nil, appErrors.Wrap(err, "committing create entity types transaction")
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
