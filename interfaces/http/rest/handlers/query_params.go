package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"ontology-resolver/application/filters"
	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// parseAxis reads the "axis" query param, defaulting to transaction_time.
func parseAxis(r *http.Request) (valueobjects.TimeAxis, error) {
	raw := r.URL.Query().Get("axis")
	switch raw {
	case "", string(valueobjects.TransactionTime):
		return valueobjects.TransactionTime, nil
	case string(valueobjects.DecisionTime):
		return valueobjects.DecisionTime, nil
	default:
		return "", appErrors.NewValidationError("axis must be transaction_time or decision_time")
	}
}

// parseInterval reads the "as_of" query param (RFC3339), defaulting to now,
// and returns the unbounded-open interval starting there: the visibility
// window a query's traversal is evaluated against.
func parseInterval(r *http.Request) (valueobjects.TemporalInterval, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return valueobjects.NewUnboundedInterval(time.Now().UTC()), nil
	}
	asOf, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return valueobjects.TemporalInterval{}, appErrors.NewValidationError("as_of must be RFC3339")
	}
	return valueobjects.NewUnboundedInterval(asOf), nil
}

// parseResolveDepths reads a single "resolve_depth" query param and applies
// it uniformly across every reference kind applicable to kind. A caller
// wanting asymmetric per-edge-kind budgets is out of reach of this simple
// query-string surface; that caller resolves iteratively instead.
func parseResolveDepths(r *http.Request, kind ports.TypeKind) (valueobjects.GraphResolveDepths, error) {
	raw := r.URL.Query().Get("resolve_depth")
	if raw == "" {
		return valueobjects.GraphResolveDepths{}, nil
	}
	depth, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return valueobjects.GraphResolveDepths{}, appErrors.NewValidationError("resolve_depth must be a small non-negative integer")
	}
	edgeKinds := valueobjects.EntityTypeEdgeKinds()
	if kind == ports.PropertyType {
		edgeKinds = valueobjects.PropertyTypeEdgeKinds()
	}
	values := make(map[valueobjects.ReferenceKind]uint8, len(edgeKinds))
	for _, k := range edgeKinds {
		values[k] = uint8(depth)
	}
	return valueobjects.NewGraphResolveDepths(values), nil
}

// parseFilter builds a ports.Filter from the "base_url" and "version" query
// params: a single base_url with no version matches every version of that
// type; base_url plus version narrows to one exact VersionedURL; a
// comma-separated "base_urls" list matches any of them. The full filter
// compiler (arbitrary predicates over title, property references, …) is not
// reachable from this surface.
func parseFilter(r *http.Request) (ports.Filter, error) {
	q := r.URL.Query()

	if raw := q.Get("base_urls"); raw != "" {
		parts := strings.Split(raw, ",")
		targets := make([]valueobjects.BaseURL, 0, len(parts))
		for _, p := range parts {
			base, err := valueobjects.NewBaseURL(strings.TrimSpace(p))
			if err != nil {
				return nil, appErrors.NewValidationError("invalid base_urls entry: " + err.Error())
			}
			targets = append(targets, base)
		}
		return filters.AnyOfBaseURLs{Targets: targets}, nil
	}

	raw := q.Get("base_url")
	if raw == "" {
		return nil, appErrors.NewValidationError("base_url or base_urls is required")
	}
	base, err := valueobjects.NewBaseURL(raw)
	if err != nil {
		return nil, appErrors.NewValidationError("invalid base_url: " + err.Error())
	}

	versionRaw := q.Get("version")
	if versionRaw == "" {
		return filters.ExactBaseURL{Target: base}, nil
	}
	version, err := strconv.ParseUint(versionRaw, 10, 32)
	if err != nil {
		return nil, appErrors.NewValidationError("version must be a positive integer")
	}
	versionedURL, err := valueobjects.NewVersionedURL(base, uint32(version))
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}
	return filters.ExactVersionedURL{Target: versionedURL}, nil
}
