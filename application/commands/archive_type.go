package commands

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/events"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// ArchiveTypeCommand marks a type version archived; Kind selects whether
// URL addresses an entity type or a property type, one caller-facing
// operation shared symmetrically across both.
type ArchiveTypeCommand struct {
	Actor uuid.UUID
	Kind  ports.TypeKind
	URL   valueobjects.VersionedURL
}

// Validate implements bus.Command.
func (c ArchiveTypeCommand) Validate() error {
	if c.Actor == uuid.Nil {
		return appErrors.NewValidationError("actor is required")
	}
	if c.URL.IsZero() {
		return appErrors.NewValidationError("versioned url is required")
	}
	return nil
}

// UnarchiveTypeCommand is the inverse of ArchiveTypeCommand.
type UnarchiveTypeCommand struct {
	Actor uuid.UUID
	Kind  ports.TypeKind
	URL   valueobjects.VersionedURL
}

// Validate implements bus.Command.
func (c UnarchiveTypeCommand) Validate() error {
	if c.Actor == uuid.Nil {
		return appErrors.NewValidationError("actor is required")
	}
	if c.URL.IsZero() {
		return appErrors.NewValidationError("versioned url is required")
	}
	return nil
}

// ArchiveTypeHandler handles both ArchiveTypeCommand and
// UnarchiveTypeCommand; the two differ only in which store method and
// domain event they invoke.
type ArchiveTypeHandler struct {
	uow    ports.UnitOfWork
	logger *zap.Logger
}

func NewArchiveTypeHandler(uow ports.UnitOfWork, logger *zap.Logger) *ArchiveTypeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveTypeHandler{uow: uow, logger: logger}
}

// HandleArchive implements the ArchiveEntityType/ArchiveEntityType(property)
// caller-facing operation.
func (h *ArchiveTypeHandler) HandleArchive(ctx context.Context, cmd ArchiveTypeCommand) (schema.OntologyMetadata, error) {
	if err := cmd.Validate(); err != nil {
		return schema.OntologyMetadata{}, err
	}
	if err := h.uow.Begin(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "beginning archive transaction")
	}
	defer h.uow.Rollback(ctx)

	metadata, err := h.uow.Store().Archive(ctx, cmd.Kind, cmd.URL, cmd.Actor)
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrapf(err, "archiving %s", cmd.URL.String())
	}
	if cmd.Kind == ports.PropertyType {
		h.uow.PublishOnCommit(events.NewPropertyTypeArchived(cmd.URL.String(), cmd.Actor, metadata.Temporal.TransactionTime.Start))
	} else {
		h.uow.PublishOnCommit(events.NewEntityTypeArchived(cmd.URL.String(), cmd.Actor, metadata.Temporal.TransactionTime.Start))
	}
	h.uow.AuthorizeOnCommit(ports.AuthorizationRequest{Actor: cmd.Actor, Kind: cmd.Kind, URL: cmd.URL, Action: "archive"})

	if err := h.uow.Commit(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "committing archive transaction")
	}
	return metadata, nil
}

// HandleUnarchive implements the UnarchiveEntityType/UnarchiveEntityType
// (property) caller-facing operation.
func (h *ArchiveTypeHandler) HandleUnarchive(ctx context.Context, cmd UnarchiveTypeCommand) (schema.OntologyMetadata, error) {
	if err := cmd.Validate(); err != nil {
		return schema.OntologyMetadata{}, err
	}
	if err := h.uow.Begin(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "beginning unarchive transaction")
	}
	defer h.uow.Rollback(ctx)

	metadata, err := h.uow.Store().Unarchive(ctx, cmd.Kind, cmd.URL, cmd.Actor)
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrapf(err, "unarchiving %s", cmd.URL.String())
	}
	if cmd.Kind == ports.PropertyType {
		h.uow.PublishOnCommit(events.NewPropertyTypeUnarchived(cmd.URL.String(), cmd.Actor, metadata.Temporal.TransactionTime.Start))
	} else {
		h.uow.PublishOnCommit(events.NewEntityTypeUnarchived(cmd.URL.String(), cmd.Actor, metadata.Temporal.TransactionTime.Start))
	}
	h.uow.AuthorizeOnCommit(ports.AuthorizationRequest{Actor: cmd.Actor, Kind: cmd.Kind, URL: cmd.URL, Action: "unarchive"})

	if err := h.uow.Commit(ctx); err != nil {
		return schema.OntologyMetadata{}, appErrors.Wrap(err, "committing unarchive transaction")
	}
	return metadata, nil
}
