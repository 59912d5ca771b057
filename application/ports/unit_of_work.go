package ports

import (
	"context"

	"ontology-resolver/domain/events"
)

// UnitOfWork defines a transaction boundary for ontology mutations. Begin
// opens the backing transaction (a DynamoDB TransactWriteItems batch in the
// concrete implementation); Commit flushes it atomically and, only then,
// publishes any pending domain events; Rollback discards everything queued
// without touching the store.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Store returns the transactional OntologyStore bound to this unit of
	// work; panics if called before Begin.
	Store() OntologyStore

	// PublishOnCommit queues a domain event to be published after Commit
	// succeeds. Events queued this way are never published if Rollback is
	// called instead.
	PublishOnCommit(event events.DomainEvent)

	// AuthorizeOnCommit queues a mutation to be surfaced to the
	// authorization client as the second phase of Commit, after the store
	// write has already landed. If the authorization write fails, Commit
	// issues a best-effort compensating archive of the record named by req
	// and returns the authorization error.
	AuthorizeOnCommit(req AuthorizationRequest)
}
