// Package schema defines the self-describing type schemas (entity type,
// property type) and the metadata every ontology record carries, following
// an aggregate/entity-with-metadata shape adapted to versioned type records
// instead of user-authored nodes.
package schema

import "github.com/google/uuid"

// Provenance records who created a record and, once archived, who archived
// it. Every mutation carries an actor id through to here, the ontology
// analogue of per-event actor attribution.
type Provenance struct {
	CreatedBy  uuid.UUID
	ArchivedBy *uuid.UUID
}

func NewProvenance(actor uuid.UUID) Provenance {
	return Provenance{CreatedBy: actor}
}

func (p Provenance) WithArchivedBy(actor uuid.UUID) Provenance {
	archived := actor
	p.ArchivedBy = &archived
	return p
}

func (p Provenance) IsArchived() bool {
	return p.ArchivedBy != nil
}
