// Package ports defines the hexagonal boundary between the ontology domain
// and its infrastructure: the store (transactional CRUD of type records),
// the edge reader (bulk traversal reads), the unit of work (transaction
// scope), and event publishing. The domain and application layers depend
// only on these interfaces; infrastructure/persistence/dynamodb supplies the
// concrete implementation.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

// TypeKind distinguishes entity types from property types for store calls
// that are otherwise identical in shape.
type TypeKind string

const (
	EntityType   TypeKind = "entity_type"
	PropertyType TypeKind = "property_type"
)

// CreateTypeResult is returned by CreateEntityType and CreatePropertyType;
// OntologyID is nil when the item was skipped under ConflictBehavior Skip.
type CreateTypeResult struct {
	OntologyID *valueobjects.OntologyID
	TxnTime    time.Time
}

// UpdateTypeResult is returned by UpdateEntityType and UpdatePropertyType.
// NewSchema is filled only by UpdateEntityType.
type UpdateTypeResult struct {
	OntologyID  valueobjects.OntologyID
	OwnedByID   valueobjects.BaseURL
	NewVersion  uint32
	TxnTime     time.Time
	NewSchema   schema.EntityTypeSchema
	NewMetadata schema.OntologyMetadata
}

// OntologyStore is the transactional CRUD surface over entity-type and
// property-type records and their outbound reference tables. Every method
// here runs inside whatever transaction scope the active UnitOfWork has
// opened; the store itself never opens or closes a transaction.
type OntologyStore interface {
	// CreateEntityType allocates a new version under schema.ID.BaseURL if
	// none exists; otherwise obeys onConflict. A nil result.OntologyID with
	// a nil error means the item was skipped.
	CreateEntityType(ctx context.Context, s schema.EntityTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*CreateTypeResult, error)

	// CreatePropertyType is the property-type analogue of CreateEntityType.
	CreatePropertyType(ctx context.Context, s schema.PropertyTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*CreateTypeResult, error)

	// UpdateEntityType allocates the next version for url.BaseURL.
	UpdateEntityType(ctx context.Context, s schema.EntityTypeSchema, actor uuid.UUID) (*UpdateTypeResult, error)

	// UpdatePropertyType is the property-type analogue of UpdateEntityType.
	UpdatePropertyType(ctx context.Context, s schema.PropertyTypeSchema, actor uuid.UUID) (*UpdateTypeResult, error)

	// InsertReferenceRows persists one edge kind's already-resolved
	// outbound reference rows for sourceID. Called by the Reference
	// Inserter once per kind after it has walked a schema and resolved
	// every VersionedURL to an OntologyID. Must run after all type rows for
	// the batch are inserted so mutually-referencing types resolve within
	// one transaction.
	InsertReferenceRows(ctx context.Context, kind valueobjects.ReferenceKind, sourceID valueobjects.OntologyID, rows []ReferenceRow) error

	// ResolveOntologyID looks up the OntologyID a VersionedURL currently
	// resolves to, used by the reference inserter to turn schema
	// references into store-internal ids.
	ResolveOntologyID(ctx context.Context, kind TypeKind, url valueobjects.VersionedURL) (valueobjects.OntologyID, bool, error)

	// Archive marks url's current version as archived; idempotent.
	Archive(ctx context.Context, kind TypeKind, url valueobjects.VersionedURL, actor uuid.UUID) (schema.OntologyMetadata, error)

	// Unarchive restores an archived version to active use; idempotent.
	Unarchive(ctx context.Context, kind TypeKind, url valueobjects.VersionedURL, actor uuid.UUID) (schema.OntologyMetadata, error)

	// ResolveFilter returns every (OntologyID, VertexID) matching a
	// structural query's filter, the Resolver's root-seeding call.
	ResolveFilter(ctx context.Context, kind TypeKind, filter Filter, axis valueobjects.TimeAxis) ([]FilterMatch, error)

	// DeleteAll is test-only: removes reference tables first, then
	// ontology tables, then orphaned ontology ids.
	DeleteAll(ctx context.Context) error
}

// ReferenceRow is one already-resolved outbound reference, ready to persist.
// InheritanceDepth is always 0 except for InheritsFrom rows the store
// materializes transitively; inheritance_depth = 0 denotes a direct
// reference.
type ReferenceRow struct {
	TargetOntologyID valueobjects.OntologyID
	InheritanceDepth int
}

// FilterMatch is one row ResolveFilter admits as a traversal root.
type FilterMatch struct {
	OntologyID valueobjects.OntologyID
	Endpoint   valueobjects.VertexID
}

// Filter is the opaque compiled predicate the out-of-scope filter compiler
// produces; the store only needs to evaluate it, never construct it.
type Filter interface {
	// Matches reports whether a candidate versioned url satisfies the
	// filter. The concrete filter-compiler collaborator supplies Filter
	// implementations; the core never inspects filter internals beyond
	// this call.
	Matches(url valueobjects.VersionedURL) bool
}
