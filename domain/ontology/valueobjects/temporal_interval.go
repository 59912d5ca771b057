package valueobjects

import "time"

// TimeAxis selects which of the two time dimensions an interval or a query
// is expressed against.
type TimeAxis string

const (
	// TransactionTime is the axis recording when a fact became known to the
	// store, regardless of when it was true in the world.
	TransactionTime TimeAxis = "transaction_time"
	// DecisionTime (the "valid time" axis) records when a fact was true in
	// the world as asserted by the actor.
	DecisionTime TimeAxis = "decision_time"
)

// TemporalInterval is a right-bounded, closed-open interval: a point in time
// t belongs to the interval iff Start <= t < End. A nil End denotes an
// unbounded-open interval extending to "now and forever".
//
// Boundary convention (closed-open) is a deliberate choice: it matches the
// ambient idiom of "valid from this instant, superseded by the next row's
// own start instant" with no instant shared by two adjacent versions.
type TemporalInterval struct {
	Start time.Time
	End   *time.Time
}

// NewUnboundedInterval returns an interval open on the right, starting at start.
func NewUnboundedInterval(start time.Time) TemporalInterval {
	return TemporalInterval{Start: start}
}

// NewBoundedInterval returns a closed-open interval [start, end).
func NewBoundedInterval(start, end time.Time) TemporalInterval {
	e := end
	return TemporalInterval{Start: start, End: &e}
}

// Contains reports whether instant t falls within the interval.
func (t TemporalInterval) Contains(instant time.Time) bool {
	if instant.Before(t.Start) {
		return false
	}
	return t.End == nil || instant.Before(*t.End)
}

// ContainsInterval reports whether t entirely subsumes other (t ⊇ other),
// used by traversal-context dominance checks.
func (t TemporalInterval) ContainsInterval(other TemporalInterval) bool {
	if other.Start.Before(t.Start) {
		return false
	}
	if t.End == nil {
		return true
	}
	if other.End == nil {
		return false
	}
	return !other.End.After(*t.End)
}

// Intersect composes two intervals by intersection: the visible window of an
// edge traversed from a vertex whose window is t, constrained further by the
// edge's own validity window other. ok is false when the intersection is empty.
func (t TemporalInterval) Intersect(other TemporalInterval) (result TemporalInterval, ok bool) {
	start := t.Start
	if other.Start.After(start) {
		start = other.Start
	}

	var end *time.Time
	switch {
	case t.End == nil:
		end = other.End
	case other.End == nil:
		end = t.End
	case t.End.Before(*other.End):
		end = t.End
	default:
		end = other.End
	}

	if end != nil && !start.Before(*end) {
		return TemporalInterval{}, false
	}
	return TemporalInterval{Start: start, End: end}, true
}
