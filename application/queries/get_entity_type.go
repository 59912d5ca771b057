package queries

import (
	"context"

	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/application/resolver"
	"ontology-resolver/domain/ontology/subgraph"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// GetEntityTypeQuery is the caller-facing GetEntityType operation: a
// structural query over a given kind of root (entity type or property
// type), resolved into a subgraph by the Resolver.
type GetEntityTypeQuery struct {
	Kind          ports.TypeKind
	Filter        ports.Filter
	ResolveDepths valueobjects.GraphResolveDepths
	Axis          valueobjects.TimeAxis
	Interval      valueobjects.TemporalInterval
}

// Validate implements bus.Query.
func (q GetEntityTypeQuery) Validate() error {
	if q.Filter == nil {
		return appErrors.NewFilterCompilationError("filter must not be nil")
	}
	if q.Axis != valueobjects.TransactionTime && q.Axis != valueobjects.DecisionTime {
		return appErrors.NewTemporalAxisMisuseError("axis must be transaction_time or decision_time")
	}
	return nil
}

// GetEntityTypeHandler handles GetEntityTypeQuery by delegating to the
// Resolver; it owns no state of its own.
type GetEntityTypeHandler struct {
	resolver *resolver.Resolver
	logger   *zap.Logger
}

func NewGetEntityTypeHandler(resolver *resolver.Resolver, logger *zap.Logger) *GetEntityTypeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GetEntityTypeHandler{resolver: resolver, logger: logger}
}

// Handle runs the query to completion and returns the materialized
// subgraph. Read-only: safe to retry at the caller's discretion.
func (h *GetEntityTypeHandler) Handle(ctx context.Context, query GetEntityTypeQuery) (*subgraph.Subgraph, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	sg, err := h.resolver.Resolve(ctx, resolver.StructuralQuery{
		Kind:          query.Kind,
		Filter:        query.Filter,
		ResolveDepths: query.ResolveDepths,
		Axis:          query.Axis,
		Interval:      query.Interval,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, "resolving entity type query")
	}
	return sg, nil
}
