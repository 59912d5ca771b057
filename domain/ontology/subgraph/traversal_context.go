package subgraph

import (
	"ontology-resolver/domain/ontology/edges"
	"ontology-resolver/domain/ontology/valueobjects"
)

type contextEntry struct {
	endpoint valueobjects.VertexID
	depths   valueobjects.GraphResolveDepths
	interval valueobjects.TemporalInterval
}

// dominates reports whether a dominates b: for every edge kind, a's budget
// is at least b's, and a's interval entirely contains b's.
func dominates(a, b contextEntry) bool {
	return a.depths.Dominates(b.depths) && a.interval.ContainsInterval(b.interval)
}

// TraversalContext is the per-query memo of already-scheduled
// (ontology-id, depths, interval) tuples, for the entity-type and
// property-type id spaces independently. It suppresses redundant traversal
// work while guaranteeing every (id, depth-frontier, interval) tuple the
// query could reach is explored at most once.
type TraversalContext struct {
	entityType   map[valueobjects.OntologyID]contextEntry
	propertyType map[valueobjects.OntologyID]contextEntry
}

func NewTraversalContext() *TraversalContext {
	return &TraversalContext{
		entityType:   make(map[valueobjects.OntologyID]contextEntry),
		propertyType: make(map[valueobjects.OntologyID]contextEntry),
	}
}

// AddEntityTypeID admits (id, depths, interval) into the entity-type id
// space and reports the residual work item still owed, if any.
func (c *TraversalContext) AddEntityTypeID(id valueobjects.OntologyID, endpoint valueobjects.VertexID, depths valueobjects.GraphResolveDepths, interval valueobjects.TemporalInterval) (edges.WorkItem, bool) {
	return add(c.entityType, id, endpoint, depths, interval)
}

// AddPropertyTypeID is the property-type id space analogue of AddEntityTypeID.
func (c *TraversalContext) AddPropertyTypeID(id valueobjects.OntologyID, endpoint valueobjects.VertexID, depths valueobjects.GraphResolveDepths, interval valueobjects.TemporalInterval) (edges.WorkItem, bool) {
	return add(c.propertyType, id, endpoint, depths, interval)
}

func add(table map[valueobjects.OntologyID]contextEntry, id valueobjects.OntologyID, endpoint valueobjects.VertexID, depths valueobjects.GraphResolveDepths, interval valueobjects.TemporalInterval) (edges.WorkItem, bool) {
	incoming := contextEntry{endpoint: endpoint, depths: depths, interval: interval}

	existing, present := table[id]
	if !present {
		table[id] = incoming
		return edges.WorkItem{OntologyID: id, Endpoint: endpoint, Depths: depths, Interval: interval}, true
	}

	if dominates(existing, incoming) {
		// The incoming tuple is fully subsumed by prior work; nothing new
		// to schedule.
		return edges.WorkItem{}, false
	}

	if dominates(incoming, existing) {
		table[id] = incoming
		return edges.WorkItem{OntologyID: id, Endpoint: endpoint, Depths: depths, Interval: interval}, true
	}

	// Neither dominates the other: retain the union (max depths per kind,
	// widest interval start) and schedule the union as the residual so the
	// traversal still covers both frontiers.
	mergedDepths := existing.depths.Max(incoming.depths)
	mergedInterval := widestInterval(existing.interval, incoming.interval)
	merged := contextEntry{endpoint: endpoint, depths: mergedDepths, interval: mergedInterval}
	table[id] = merged
	return edges.WorkItem{OntologyID: id, Endpoint: endpoint, Depths: mergedDepths, Interval: mergedInterval}, true
}

func widestInterval(a, b valueobjects.TemporalInterval) valueobjects.TemporalInterval {
	start := a.Start
	if b.Start.Before(start) {
		start = b.Start
	}
	if a.End == nil || b.End == nil {
		return valueobjects.NewUnboundedInterval(start)
	}
	end := a.End
	if b.End.After(*end) {
		end = b.End
	}
	return valueobjects.NewBoundedInterval(start, *end)
}

// ReadTraversedVertices (the bulk final-materialization read attaching
// records to every admitted id) is implemented in application/resolver,
// which holds the concrete store and record types; this package only owns
// the bookkeeping needed to enumerate admitted ids, via AdmittedEntityTypeIDs
// and AdmittedPropertyTypeIDs below.

// AdmittedEntityTypeIDs returns every (id, depths, interval) this context
// ever admitted for the entity-type id space, for the final materialization
// read.
func (c *TraversalContext) AdmittedEntityTypeIDs() []edges.WorkItem {
	return admitted(c.entityType)
}

// AdmittedPropertyTypeIDs is the property-type id space analogue.
func (c *TraversalContext) AdmittedPropertyTypeIDs() []edges.WorkItem {
	return admitted(c.propertyType)
}

func admitted(table map[valueobjects.OntologyID]contextEntry) []edges.WorkItem {
	out := make([]edges.WorkItem, 0, len(table))
	for id, entry := range table {
		out = append(out, edges.WorkItem{OntologyID: id, Endpoint: entry.endpoint, Depths: entry.depths, Interval: entry.interval})
	}
	return out
}
