package dynamodb

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/events"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// maxTransactItems is DynamoDB's hard cap on the number of items a single
// TransactWriteItems call may contain.
const maxTransactItems = 100

// UnitOfWork scopes one command's worth of ontology mutations. Begin opens
// a staging area rather than a DynamoDB transaction directly: every write
// Store() produces through the returned transactionalStore is held in
// memory, and Commit flushes all of it — type rows, LATEST pointers, and
// reference rows alike — as exactly one TransactWriteItems call, so a
// command that fails partway (a dangling reference, say) never leaves a new
// version live without its references, or live at all. Only once that
// single write lands does Commit move on to authorization and then event
// delivery, each run as its own phase after the one before has succeeded.
type UnitOfWork struct {
	store     *Store
	publisher ports.EventPublisher
	authz     ports.AuthorizationClient
	logger    *zap.Logger

	mu            sync.Mutex
	active        bool
	committed     bool
	pendingWrites []types.TransactWriteItem
	pendingEvents []events.DomainEvent
	pendingAuthz  []ports.AuthorizationRequest
}

func NewUnitOfWork(store *Store, publisher ports.EventPublisher, logger *zap.Logger) *UnitOfWork {
	return NewUnitOfWorkWithAuthorization(store, publisher, ports.NoopAuthorizationClient{}, logger)
}

// NewUnitOfWorkWithAuthorization wires a real authorization client as the
// unit of work's second commit phase.
func NewUnitOfWorkWithAuthorization(store *Store, publisher ports.EventPublisher, authz ports.AuthorizationClient, logger *zap.Logger) *UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	if authz == nil {
		authz = ports.NoopAuthorizationClient{}
	}
	return &UnitOfWork{store: store, publisher: publisher, authz: authz, logger: logger}
}

// Begin implements ports.UnitOfWork.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active {
		return appErrors.NewInternalError("unit of work already active")
	}
	u.active = true
	u.committed = false
	u.pendingWrites = nil
	u.pendingEvents = nil
	u.pendingAuthz = nil
	return nil
}

// Commit implements ports.UnitOfWork. It runs three phases in order: first
// every staged write lands in one TransactWriteItems call; only if that
// succeeds does the authorization client see every queued mutation exactly
// once; only if that succeeds does it flush the events queued against it.
// An authorization failure triggers a best-effort compensating archive of
// every record named by the queued requests, since the store and the
// authorization backend do not share a transaction coordinator — the write
// phase itself needs no such compensation, since it either lands completely
// or not at all.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	if !u.active {
		u.mu.Unlock()
		return appErrors.NewInternalError("commit called before begin")
	}
	writeBatch := u.pendingWrites
	eventBatch := u.pendingEvents
	authzBatch := u.pendingAuthz
	u.pendingWrites = nil
	u.pendingEvents = nil
	u.pendingAuthz = nil
	u.active = false
	u.committed = true
	u.mu.Unlock()

	if err := u.flushWrites(ctx, writeBatch); err != nil {
		return err
	}

	if err := u.authorize(ctx, authzBatch); err != nil {
		return err
	}

	if len(eventBatch) == 0 || u.publisher == nil {
		return nil
	}
	if err := u.publisher.PublishBatch(ctx, eventBatch); err != nil {
		u.logger.Warn("failed to publish events after commit", zap.Error(err), zap.Int("count", len(eventBatch)))
		return appErrors.Wrapf(err, "publishing %d committed events", len(eventBatch))
	}
	return nil
}

// flushWrites commits every staged type-row and reference-row write as one
// TransactWriteItems call. A command that stages more writes than DynamoDB
// allows in a single transaction fails outright rather than being split
// across several calls, which would reintroduce the partial-commit window
// this staging exists to close.
func (u *UnitOfWork) flushWrites(ctx context.Context, items []types.TransactWriteItem) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > maxTransactItems {
		return appErrors.NewInternalError(fmt.Sprintf("command stages %d writes, exceeding the %d-item TransactWriteItems limit", len(items), maxTransactItems))
	}
	if _, err := u.store.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return appErrors.NewDatabaseError("commit staged writes", err)
	}
	return nil
}

// authorize runs the second commit phase: surface every queued mutation to
// the authorization client, and on the first failure, compensate by
// archiving every record this transaction touched. The store has no hard
// delete outside of DeleteAll (test-only, whole-table), so the compensating
// action is the same archive the store already exposes for taking a version
// out of active use — a best-effort substitute for a true rollback, not a
// guarantee the window between commit and compensation is invisible to
// concurrent readers.
func (u *UnitOfWork) authorize(ctx context.Context, batch []ports.AuthorizationRequest) error {
	if len(batch) == 0 || u.authz == nil {
		return nil
	}
	for _, req := range batch {
		if err := u.authz.Authorize(ctx, req); err != nil {
			u.logger.Error("authorization write failed after commit, compensating",
				zap.String("url", req.URL.String()), zap.String("action", req.Action), zap.Error(err))
			u.compensate(ctx, batch)
			return appErrors.Wrapf(err, "authorizing %s %s", req.Action, req.URL.String())
		}
	}
	return nil
}

func (u *UnitOfWork) compensate(ctx context.Context, batch []ports.AuthorizationRequest) {
	for _, req := range batch {
		if _, err := u.store.Archive(ctx, req.Kind, req.URL, req.Actor); err != nil {
			u.logger.Error("compensating archive failed", zap.String("url", req.URL.String()), zap.Error(err))
		}
	}
}

// Rollback implements ports.UnitOfWork. Because every write Store()
// produced was only staged, not executed, discarding the pending write,
// event, and authorization queues is enough to undo the whole command:
// nothing DynamoDB-visible ever happened.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return nil
	}
	u.pendingWrites = nil
	u.pendingEvents = nil
	u.pendingAuthz = nil
	u.active = false
	return nil
}

// Store implements ports.UnitOfWork. The returned OntologyStore stages its
// writes on this unit of work instead of executing them; reads (conflict
// checks, reference resolution, filter scans) still run directly against
// DynamoDB.
func (u *UnitOfWork) Store() ports.OntologyStore {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		panic("dynamodb: Store() called before Begin")
	}
	return &transactionalStore{Store: u.store, pending: &u.pendingWrites, mu: &u.mu}
}

// transactionalStore adapts Store's mutating methods to append their
// prepared TransactWriteItems to the owning UnitOfWork's pending batch
// instead of executing them immediately. Every read method is inherited
// unchanged from the embedded *Store.
type transactionalStore struct {
	*Store
	pending *[]types.TransactWriteItem
	mu      *sync.Mutex
}

func (t *transactionalStore) stage(items []types.TransactWriteItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	*t.pending = append(*t.pending, items...)
}

// CreateEntityType implements ports.OntologyStore by staging, rather than
// executing, the write buildCreateEntityTypeItems prepares.
func (t *transactionalStore) CreateEntityType(ctx context.Context, sch schema.EntityTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	items, result, err := t.buildCreateEntityTypeItems(ctx, sch, metadata, actor, onConflict)
	if err != nil {
		return nil, err
	}
	t.stage(items)
	return result, nil
}

// CreatePropertyType implements ports.OntologyStore; see CreateEntityType.
func (t *transactionalStore) CreatePropertyType(ctx context.Context, sch schema.PropertyTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	items, result, err := t.buildCreatePropertyTypeItems(ctx, sch, metadata, actor, onConflict)
	if err != nil {
		return nil, err
	}
	t.stage(items)
	return result, nil
}

// UpdateEntityType implements ports.OntologyStore; see CreateEntityType.
func (t *transactionalStore) UpdateEntityType(ctx context.Context, sch schema.EntityTypeSchema, actor uuid.UUID) (*ports.UpdateTypeResult, error) {
	items, result, err := t.buildUpdateEntityTypeItems(ctx, sch, actor)
	if err != nil {
		return nil, err
	}
	t.stage(items)
	return result, nil
}

// UpdatePropertyType implements ports.OntologyStore; see CreateEntityType.
func (t *transactionalStore) UpdatePropertyType(ctx context.Context, sch schema.PropertyTypeSchema, actor uuid.UUID) (*ports.UpdateTypeResult, error) {
	items, result, err := t.buildUpdatePropertyTypeItems(ctx, sch, actor)
	if err != nil {
		return nil, err
	}
	t.stage(items)
	return result, nil
}

// InsertReferenceRows implements ports.OntologyStore by staging the
// reference rows alongside whatever type-row write this unit of work has
// already staged, so both land in the same TransactWriteItems call.
func (t *transactionalStore) InsertReferenceRows(ctx context.Context, kind valueobjects.ReferenceKind, sourceID valueobjects.OntologyID, rows []ports.ReferenceRow) error {
	items, err := t.buildReferenceRowItems(kind, sourceID, rows)
	if err != nil {
		return err
	}
	t.stage(items)
	return nil
}

// PublishOnCommit implements ports.UnitOfWork.
func (u *UnitOfWork) PublishOnCommit(event events.DomainEvent) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pendingEvents = append(u.pendingEvents, event)
}

// AuthorizeOnCommit implements ports.UnitOfWork.
func (u *UnitOfWork) AuthorizeOnCommit(req ports.AuthorizationRequest) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pendingAuthz = append(u.pendingAuthz, req)
}
