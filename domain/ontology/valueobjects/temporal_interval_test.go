package valueobjects_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ontology-resolver/domain/ontology/valueobjects"
)

func TestTemporalInterval_Contains(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	bounded := valueobjects.NewBoundedInterval(start, end)
	assert.True(t, bounded.Contains(start))
	assert.False(t, bounded.Contains(end), "end is exclusive under closed-open convention")
	assert.True(t, bounded.Contains(start.Add(time.Hour)))
	assert.False(t, bounded.Contains(start.Add(-time.Hour)))

	unbounded := valueobjects.NewUnboundedInterval(start)
	assert.True(t, unbounded.Contains(end.AddDate(10, 0, 0)))
	assert.False(t, unbounded.Contains(start.Add(-time.Second)))
}

func TestTemporalInterval_ContainsInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	outer := valueobjects.NewBoundedInterval(start, end)
	inner := valueobjects.NewBoundedInterval(start, mid)
	assert.True(t, outer.ContainsInterval(inner))
	assert.False(t, inner.ContainsInterval(outer))

	unboundedOuter := valueobjects.NewUnboundedInterval(start)
	assert.True(t, unboundedOuter.ContainsInterval(inner))
	assert.False(t, inner.ContainsInterval(unboundedOuter))
}

func TestTemporalInterval_Intersect(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	a := valueobjects.NewBoundedInterval(start, later)
	b := valueobjects.NewBoundedInterval(mid, end)

	result, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.True(t, result.Start.Equal(mid))
	assert.True(t, result.End.Equal(later))

	disjointA := valueobjects.NewBoundedInterval(start, mid)
	disjointB := valueobjects.NewBoundedInterval(later, end)
	_, ok = disjointA.Intersect(disjointB)
	assert.False(t, ok)
}

func TestTemporalInterval_Intersect_BothUnbounded(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	a := valueobjects.NewUnboundedInterval(start)
	b := valueobjects.NewUnboundedInterval(later)

	result, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.True(t, result.Start.Equal(later))
	assert.Nil(t, result.End)
}
