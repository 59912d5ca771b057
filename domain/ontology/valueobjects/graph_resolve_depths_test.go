package valueobjects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ontology-resolver/domain/ontology/valueobjects"
)

func TestGraphResolveDepths_GetDefaultsToZero(t *testing.T) {
	d := valueobjects.NewGraphResolveDepths(nil)
	assert.Equal(t, uint8(0), d.Get(valueobjects.InheritsFrom))
	assert.True(t, d.IsEmpty())
}

func TestGraphResolveDepths_Decrement(t *testing.T) {
	d := valueobjects.NewGraphResolveDepths(map[valueobjects.ReferenceKind]uint8{
		valueobjects.InheritsFrom: 2,
	})

	next, ok := d.Decrement(valueobjects.InheritsFrom)
	assert.True(t, ok)
	assert.Equal(t, uint8(1), next.Get(valueobjects.InheritsFrom))

	next, ok = next.Decrement(valueobjects.InheritsFrom)
	assert.True(t, ok)
	assert.Equal(t, uint8(0), next.Get(valueobjects.InheritsFrom))

	_, ok = next.Decrement(valueobjects.InheritsFrom)
	assert.False(t, ok, "decrementing an exhausted budget must fail, not wrap")
}

func TestGraphResolveDepths_DecrementDoesNotMutateOriginal(t *testing.T) {
	d := valueobjects.NewGraphResolveDepths(map[valueobjects.ReferenceKind]uint8{
		valueobjects.InheritsFrom: 2,
	})
	_, _ = d.Decrement(valueobjects.InheritsFrom)
	assert.Equal(t, uint8(2), d.Get(valueobjects.InheritsFrom))
}

func TestGraphResolveDepths_Dominates(t *testing.T) {
	big := valueobjects.NewGraphResolveDepths(map[valueobjects.ReferenceKind]uint8{
		valueobjects.InheritsFrom:      3,
		valueobjects.ConstrainsLinksOn: 1,
	})
	small := valueobjects.NewGraphResolveDepths(map[valueobjects.ReferenceKind]uint8{
		valueobjects.InheritsFrom: 1,
	})

	assert.True(t, big.Dominates(small))
	assert.False(t, small.Dominates(big))
}

func TestGraphResolveDepths_Max(t *testing.T) {
	a := valueobjects.NewGraphResolveDepths(map[valueobjects.ReferenceKind]uint8{
		valueobjects.InheritsFrom:      3,
		valueobjects.ConstrainsLinksOn: 0,
	})
	b := valueobjects.NewGraphResolveDepths(map[valueobjects.ReferenceKind]uint8{
		valueobjects.InheritsFrom:      1,
		valueobjects.ConstrainsLinksOn: 2,
	})

	merged := a.Max(b)
	assert.Equal(t, uint8(3), merged.Get(valueobjects.InheritsFrom))
	assert.Equal(t, uint8(2), merged.Get(valueobjects.ConstrainsLinksOn))
	assert.True(t, merged.Dominates(a))
	assert.True(t, merged.Dominates(b))
}
