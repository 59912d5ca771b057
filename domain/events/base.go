// Package events defines the domain events emitted by ontology mutations.
// Every event is an ambient provenance/audit signal published after a
// successful commit; nothing in the traversal or transaction algorithms
// depends on them being observed.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events. Events represent
// something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides the common event fields every concrete event embeds.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
	Actor       uuid.UUID `json:"actor"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, actor uuid.UUID, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
		Actor:       actor,
	}
}

// EntityTypeCreated is raised when a new entity-type version is committed.
type EntityTypeCreated struct {
	BaseEvent
	VersionedURL string `json:"versioned_url"`
}

func NewEntityTypeCreated(versionedURL string, actor uuid.UUID, timestamp time.Time) EntityTypeCreated {
	return EntityTypeCreated{
		BaseEvent:    newBase(versionedURL, "entity_type.created", actor, timestamp),
		VersionedURL: versionedURL,
	}
}

// EntityTypeUpdated is raised when a new version of an existing entity type
// is committed.
type EntityTypeUpdated struct {
	BaseEvent
	BaseURL    string `json:"base_url"`
	NewVersion uint32 `json:"new_version"`
}

func NewEntityTypeUpdated(baseURL string, newVersion uint32, actor uuid.UUID, timestamp time.Time) EntityTypeUpdated {
	return EntityTypeUpdated{
		BaseEvent:  newBase(baseURL, "entity_type.updated", actor, timestamp),
		BaseURL:    baseURL,
		NewVersion: newVersion,
	}
}

// EntityTypeArchived is raised when an entity type's current version is
// archived.
type EntityTypeArchived struct {
	BaseEvent
	VersionedURL string `json:"versioned_url"`
}

func NewEntityTypeArchived(versionedURL string, actor uuid.UUID, timestamp time.Time) EntityTypeArchived {
	return EntityTypeArchived{
		BaseEvent:    newBase(versionedURL, "entity_type.archived", actor, timestamp),
		VersionedURL: versionedURL,
	}
}

// EntityTypeUnarchived is raised when an archived entity type is restored
// to active use.
type EntityTypeUnarchived struct {
	BaseEvent
	VersionedURL string `json:"versioned_url"`
}

func NewEntityTypeUnarchived(versionedURL string, actor uuid.UUID, timestamp time.Time) EntityTypeUnarchived {
	return EntityTypeUnarchived{
		BaseEvent:    newBase(versionedURL, "entity_type.unarchived", actor, timestamp),
		VersionedURL: versionedURL,
	}
}

// PropertyTypeCreated mirrors EntityTypeCreated for property types.
type PropertyTypeCreated struct {
	BaseEvent
	VersionedURL string `json:"versioned_url"`
}

func NewPropertyTypeCreated(versionedURL string, actor uuid.UUID, timestamp time.Time) PropertyTypeCreated {
	return PropertyTypeCreated{
		BaseEvent:    newBase(versionedURL, "property_type.created", actor, timestamp),
		VersionedURL: versionedURL,
	}
}

// PropertyTypeUpdated mirrors EntityTypeUpdated for property types.
type PropertyTypeUpdated struct {
	BaseEvent
	BaseURL    string `json:"base_url"`
	NewVersion uint32 `json:"new_version"`
}

func NewPropertyTypeUpdated(baseURL string, newVersion uint32, actor uuid.UUID, timestamp time.Time) PropertyTypeUpdated {
	return PropertyTypeUpdated{
		BaseEvent:  newBase(baseURL, "property_type.updated", actor, timestamp),
		BaseURL:    baseURL,
		NewVersion: newVersion,
	}
}

// PropertyTypeArchived mirrors EntityTypeArchived for property types.
type PropertyTypeArchived struct {
	BaseEvent
	VersionedURL string `json:"versioned_url"`
}

func NewPropertyTypeArchived(versionedURL string, actor uuid.UUID, timestamp time.Time) PropertyTypeArchived {
	return PropertyTypeArchived{
		BaseEvent:    newBase(versionedURL, "property_type.archived", actor, timestamp),
		VersionedURL: versionedURL,
	}
}

// PropertyTypeUnarchived mirrors EntityTypeUnarchived for property types.
type PropertyTypeUnarchived struct {
	BaseEvent
	VersionedURL string `json:"versioned_url"`
}

func NewPropertyTypeUnarchived(versionedURL string, actor uuid.UUID, timestamp time.Time) PropertyTypeUnarchived {
	return PropertyTypeUnarchived{
		BaseEvent:    newBase(versionedURL, "property_type.unarchived", actor, timestamp),
		VersionedURL: versionedURL,
	}
}

// ReferencesInserted describes the outbound references of one kind stored
// for one type: the kind, the referring type and the count. No component of
// this module constructs or publishes it.
type ReferencesInserted struct {
	BaseEvent
	Kind        string `json:"kind"`
	ReferenceOf string `json:"reference_of"`
	Count       int    `json:"count"`
}

func NewReferencesInserted(referenceOf, kind string, count int, actor uuid.UUID, timestamp time.Time) ReferencesInserted {
	return ReferencesInserted{
		BaseEvent:   newBase(referenceOf, "references.inserted", actor, timestamp),
		Kind:        kind,
		ReferenceOf: referenceOf,
		Count:       count,
	}
}
