package schema

import (
	"github.com/google/uuid"

	"ontology-resolver/domain/ontology/valueobjects"
)

// TemporalVersioning carries both time axes a record's metadata is tracked
// on: the transaction-time axis (when the store learned the fact) and the
// decision-time axis (when the fact became valid in the world).
type TemporalVersioning struct {
	TransactionTime valueobjects.TemporalInterval
	DecisionTime    valueobjects.TemporalInterval
}

// OntologyMetadata is the non-schema half of an ontology record: its
// identity within the store, custom flag, provenance, and temporal
// versioning.
type OntologyMetadata struct {
	RecordID   uuid.UUID
	Custom     bool
	Provenance Provenance
	Temporal   TemporalVersioning
}

// PartialMetadata is supplied by a caller creating a type; the store fills
// in RecordID and Temporal.
type PartialMetadata struct {
	Custom bool
}
