package ports

import (
	"context"

	"ontology-resolver/domain/events"
)

// EventPublisher delivers domain events to interested subscribers
// (EventBridge in the concrete implementation) after a successful commit.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, batch []events.DomainEvent) error
}
