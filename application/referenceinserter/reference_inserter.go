// Package referenceinserter walks a just-created or just-updated type
// schema, extracts its outbound references, resolves each to a store
// OntologyID, and persists them grouped by ReferenceKind. It never commits
// anything itself; the rows it builds are staged on whatever UnitOfWork the
// command handler opened and land together with the type row they describe.
// A batch that creates several mutually-referencing types in one command
// supplies a PendingResolution so a reference to a batch-mate resolves
// in-memory instead of requiring that item's write to have landed first.
package referenceinserter

import (
	"context"

	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

type Inserter struct {
	store   ports.OntologyStore
	pending PendingResolution
	logger  *zap.Logger
}

func New(store ports.OntologyStore, logger *zap.Logger) *Inserter {
	return NewWithPending(store, nil, logger)
}

// NewWithPending is New plus a PendingResolution populated with ontology
// ids allocated earlier in the same command but not yet committed to the
// store. A multi-item create batch uses this so its items may reference
// each other in either direction without requiring an intermediate commit
// between writing type rows and resolving references.
func NewWithPending(store ports.OntologyStore, pending PendingResolution, logger *zap.Logger) *Inserter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inserter{store: store, pending: pending, logger: logger}
}

// PendingResolution maps a (kind, base url) pair to the ontology id it was
// just allocated, for references within a batch whose type rows have not
// yet committed.
type PendingResolution map[pendingKey]valueobjects.OntologyID

type pendingKey struct {
	kind    ports.TypeKind
	baseURL string
}

func NewPendingResolution() PendingResolution {
	return make(PendingResolution)
}

// Add records that kind/baseURL resolves to id for the remainder of the
// batch, regardless of whether the store has persisted it yet.
func (p PendingResolution) Add(kind ports.TypeKind, baseURL string, id valueobjects.OntologyID) {
	p[pendingKey{kind: kind, baseURL: baseURL}] = id
}

func (p PendingResolution) lookup(kind ports.TypeKind, baseURL string) (valueobjects.OntologyID, bool) {
	id, ok := p[pendingKey{kind: kind, baseURL: baseURL}]
	return id, ok
}

// InsertEntityTypeReferences emits one ConstrainsPropertiesOn edge per
// referenced property type (deduplicated by VersionedURL), plus
// InheritsFrom, ConstrainsLinksOn, and ConstrainsLinkDestinationsOn edges
// from the schema's link constraints.
func (ri *Inserter) InsertEntityTypeReferences(ctx context.Context, id valueobjects.OntologyID, s schema.EntityTypeSchema) error {
	groups := map[valueobjects.ReferenceKind][]valueobjects.VersionedURL{
		valueobjects.ConstrainsPropertiesOn:      dedupeURLs(s.PropertyReferences),
		valueobjects.InheritsFrom:                dedupeURLs(s.InheritsFrom),
		valueobjects.ConstrainsLinksOn:           linkTypeURLs(s.LinkConstraints),
		valueobjects.ConstrainsLinkDestinationsOn: linkDestinationURLs(s.LinkConstraints),
	}
	return ri.resolveAndInsert(ctx, id, groups)
}

// InsertPropertyTypeReferences emits ConstrainsValuesOn edges to data types
// and nested property types.
func (ri *Inserter) InsertPropertyTypeReferences(ctx context.Context, id valueobjects.OntologyID, s schema.PropertyTypeSchema) error {
	targets := dedupeURLs(append(append([]valueobjects.VersionedURL{}, s.DataTypeReferences...), s.PropertyTypeReferences...))
	groups := map[valueobjects.ReferenceKind][]valueobjects.VersionedURL{
		valueobjects.ConstrainsValuesOn: targets,
	}
	return ri.resolveAndInsert(ctx, id, groups)
}

// resolveAndInsert resolves every VersionedURL in each group to its
// OntologyID and persists the resulting rows. An unresolved reference fails
// the whole operation (and, by extension, the caller's transaction) with a
// DanglingReference error, per the fatal-insertion contract.
func (ri *Inserter) resolveAndInsert(ctx context.Context, sourceID valueobjects.OntologyID, groups map[valueobjects.ReferenceKind][]valueobjects.VersionedURL) error {
	for _, kind := range orderedKinds(groups) {
		urls := groups[kind]
		if len(urls) == 0 {
			continue
		}

		rows := make([]ports.ReferenceRow, 0, len(urls))
		for _, url := range urls {
			targetKind := targetKindFor(kind)
			if ri.pending != nil {
				if id, ok := ri.pending.lookup(targetKind, url.BaseURL.String()); ok {
					rows = append(rows, ports.ReferenceRow{TargetOntologyID: id})
					continue
				}
			}

			targetID, found, err := ri.store.ResolveOntologyID(ctx, targetKind, url)
			if err != nil {
				return appErrors.Wrapf(err, "resolving %s reference %s", kind, url.String())
			}
			if !found {
				return appErrors.NewDanglingReferenceError(string(kind), url.String())
			}
			rows = append(rows, ports.ReferenceRow{TargetOntologyID: targetID})
		}

		if err := ri.store.InsertReferenceRows(ctx, kind, sourceID, rows); err != nil {
			return appErrors.Wrapf(err, "inserting %s reference rows", kind)
		}
		ri.logger.Debug("inserted reference rows",
			zap.String("kind", string(kind)),
			zap.Int("count", len(rows)),
		)
	}
	return nil
}

// targetKindFor says which ontology table a reference kind's target lives
// in. ConstrainsPropertiesOn and ConstrainsValuesOn both resolve against the
// property-type ledger (the latter's data-type references share it too,
// since this store's single-table layout keeps data types alongside
// property types); every other kind resolves against entity types.
func targetKindFor(kind valueobjects.ReferenceKind) ports.TypeKind {
	switch kind {
	case valueobjects.ConstrainsPropertiesOn, valueobjects.ConstrainsValuesOn:
		return ports.PropertyType
	default:
		return ports.EntityType
	}
}

func dedupeURLs(urls []valueobjects.VersionedURL) []valueobjects.VersionedURL {
	seen := make(map[string]struct{}, len(urls))
	out := make([]valueobjects.VersionedURL, 0, len(urls))
	for _, u := range urls {
		key := u.String()
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}

func linkTypeURLs(constraints []schema.LinkConstraint) []valueobjects.VersionedURL {
	out := make([]valueobjects.VersionedURL, 0, len(constraints))
	for _, c := range constraints {
		out = append(out, c.LinkTypeID)
	}
	return dedupeURLs(out)
}

func linkDestinationURLs(constraints []schema.LinkConstraint) []valueobjects.VersionedURL {
	var out []valueobjects.VersionedURL
	for _, c := range constraints {
		out = append(out, c.Destinations...)
	}
	return dedupeURLs(out)
}

// orderedKinds gives a deterministic iteration order over a group map,
// matching the fixed kind order the rest of the resolver uses.
func orderedKinds(groups map[valueobjects.ReferenceKind][]valueobjects.VersionedURL) []valueobjects.ReferenceKind {
	fixed := []valueobjects.ReferenceKind{
		valueobjects.ConstrainsPropertiesOn,
		valueobjects.ConstrainsValuesOn,
		valueobjects.InheritsFrom,
		valueobjects.ConstrainsLinksOn,
		valueobjects.ConstrainsLinkDestinationsOn,
	}
	out := make([]valueobjects.ReferenceKind, 0, len(groups))
	for _, kind := range fixed {
		if _, ok := groups[kind]; ok {
			out = append(out, kind)
		}
	}
	return out
}
