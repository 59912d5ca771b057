package commands

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/events"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

// fakeStore is an in-memory ports.OntologyStore substitute, grounded on the
// pack's mock_repository.go idiom: map-backed state plus a per-method error
// override for exercising failure paths without a real store.
type fakeStore struct {
	mu sync.Mutex

	createEntityResult *ports.CreateTypeResult
	createEntityErr    error
	createPropResult   *ports.CreateTypeResult
	createPropErr      error
	updateEntityResult *ports.UpdateTypeResult
	updateEntityErr    error
	updatePropResult   *ports.UpdateTypeResult
	updatePropErr      error
	insertRefsErr      error
	resolveID          valueobjects.OntologyID
	resolveFound       bool
	resolveErr         error
	archiveMetadata    schema.OntologyMetadata
	archiveErr         error
	unarchiveMetadata  schema.OntologyMetadata
	unarchiveErr       error

	archivedURLs   []valueobjects.VersionedURL
	insertedKinds  []valueobjects.ReferenceKind
	createEntityCalls int
}

func (s *fakeStore) CreateEntityType(ctx context.Context, sc schema.EntityTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createEntityCalls++
	if s.createEntityErr != nil {
		return nil, s.createEntityErr
	}
	return s.createEntityResult, nil
}

func (s *fakeStore) CreatePropertyType(ctx context.Context, sc schema.PropertyTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	if s.createPropErr != nil {
		return nil, s.createPropErr
	}
	return s.createPropResult, nil
}

func (s *fakeStore) UpdateEntityType(ctx context.Context, sc schema.EntityTypeSchema, actor uuid.UUID) (*ports.UpdateTypeResult, error) {
	if s.updateEntityErr != nil {
		return nil, s.updateEntityErr
	}
	return s.updateEntityResult, nil
}

func (s *fakeStore) UpdatePropertyType(ctx context.Context, sc schema.PropertyTypeSchema, actor uuid.UUID) (*ports.UpdateTypeResult, error) {
	if s.updatePropErr != nil {
		return nil, s.updatePropErr
	}
	return s.updatePropResult, nil
}

func (s *fakeStore) InsertReferenceRows(ctx context.Context, kind valueobjects.ReferenceKind, sourceID valueobjects.OntologyID, rows []ports.ReferenceRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertedKinds = append(s.insertedKinds, kind)
	return s.insertRefsErr
}

func (s *fakeStore) ResolveOntologyID(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL) (valueobjects.OntologyID, bool, error) {
	return s.resolveID, s.resolveFound, s.resolveErr
}

func (s *fakeStore) Archive(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL, actor uuid.UUID) (schema.OntologyMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archivedURLs = append(s.archivedURLs, url)
	if s.archiveErr != nil {
		return schema.OntologyMetadata{}, s.archiveErr
	}
	return s.archiveMetadata, nil
}

func (s *fakeStore) Unarchive(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL, actor uuid.UUID) (schema.OntologyMetadata, error) {
	if s.unarchiveErr != nil {
		return schema.OntologyMetadata{}, s.unarchiveErr
	}
	return s.unarchiveMetadata, nil
}

func (s *fakeStore) ResolveFilter(ctx context.Context, kind ports.TypeKind, filter ports.Filter, axis valueobjects.TimeAxis) ([]ports.FilterMatch, error) {
	return nil, nil
}

func (s *fakeStore) DeleteAll(ctx context.Context) error {
	return nil
}

// fakeAuthorizationClient is a ports.AuthorizationClient test double that
// records every request it sees and can be configured to fail on a
// specific action.
type fakeAuthorizationClient struct {
	mu        sync.Mutex
	failOn    string
	err       error
	requests  []ports.AuthorizationRequest
}

func (a *fakeAuthorizationClient) Authorize(ctx context.Context, req ports.AuthorizationRequest) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, req)
	if a.failOn != "" && a.failOn == req.Action {
		return a.err
	}
	return nil
}

// fakeUnitOfWork implements ports.UnitOfWork directly over a fakeStore and
// fakeAuthorizationClient, reproducing the two-phase commit-then-authorize
// behavior the dynamodb.UnitOfWork implements against a real transaction,
// so the command handlers can be unit tested at the port boundary.
type fakeUnitOfWork struct {
	store  *fakeStore
	authz  *fakeAuthorizationClient

	began          bool
	committed      bool
	rolledBack     bool
	beginErr       error
	commitErr      error

	pendingEvents []events.DomainEvent
	pendingAuthz  []ports.AuthorizationRequest
	published     []events.DomainEvent
}

func newFakeUnitOfWork(store *fakeStore, authz *fakeAuthorizationClient) *fakeUnitOfWork {
	return &fakeUnitOfWork{store: store, authz: authz}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	u.began = true
	u.pendingEvents = nil
	u.pendingAuthz = nil
	return nil
}

func (u *fakeUnitOfWork) Commit(ctx context.Context) error {
	if !u.began {
		return errNotBegun
	}
	eventBatch := u.pendingEvents
	authzBatch := u.pendingAuthz
	u.pendingEvents = nil
	u.pendingAuthz = nil
	u.began = false
	u.committed = true

	if u.commitErr != nil {
		return u.commitErr
	}

	for _, req := range authzBatch {
		if err := u.authz.Authorize(ctx, req); err != nil {
			u.store.Archive(ctx, req.Kind, req.URL, req.Actor)
			return err
		}
	}

	u.published = append(u.published, eventBatch...)
	return nil
}

func (u *fakeUnitOfWork) Rollback(ctx context.Context) error {
	if !u.began {
		return nil
	}
	u.began = false
	u.rolledBack = true
	u.pendingEvents = nil
	u.pendingAuthz = nil
	return nil
}

func (u *fakeUnitOfWork) Store() ports.OntologyStore {
	return u.store
}

func (u *fakeUnitOfWork) PublishOnCommit(event events.DomainEvent) {
	u.pendingEvents = append(u.pendingEvents, event)
}

func (u *fakeUnitOfWork) AuthorizeOnCommit(req ports.AuthorizationRequest) {
	u.pendingAuthz = append(u.pendingAuthz, req)
}

var errNotBegun = &fakeUoWError{"commit called before begin"}

type fakeUoWError struct{ msg string }

func (e *fakeUoWError) Error() string { return e.msg }
