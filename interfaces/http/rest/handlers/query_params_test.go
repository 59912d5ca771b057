package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontology-resolver/application/filters"
	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/valueobjects"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    valueobjects.TimeAxis
		wantErr bool
	}{
		{"default is transaction_time", "", valueobjects.TransactionTime, false},
		{"explicit transaction_time", "axis=transaction_time", valueobjects.TransactionTime, false},
		{"explicit decision_time", "axis=decision_time", valueobjects.DecisionTime, false},
		{"unknown value errors", "axis=nonsense", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			got, err := parseAxis(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInterval_DefaultsToNowUnbounded(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	interval, err := parseInterval(r)
	require.NoError(t, err)
	assert.Nil(t, interval.End)
}

func TestParseInterval_ParsesRFC3339(t *testing.T) {
	r := httptest.NewRequest("GET", "/?as_of=2026-01-01T00:00:00Z", nil)
	interval, err := parseInterval(r)
	require.NoError(t, err)
	assert.Equal(t, 2026, interval.Start.Year())
}

func TestParseInterval_InvalidFormatErrors(t *testing.T) {
	r := httptest.NewRequest("GET", "/?as_of=not-a-date", nil)
	_, err := parseInterval(r)
	assert.Error(t, err)
}

func TestParseResolveDepths_EmptyYieldsZeroBudget(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	depths, err := parseResolveDepths(r, ports.EntityType)
	require.NoError(t, err)
	assert.True(t, depths.IsEmpty())
}

func TestParseResolveDepths_AppliesUniformlyAcrossEntityTypeKinds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?resolve_depth=2", nil)
	depths, err := parseResolveDepths(r, ports.EntityType)
	require.NoError(t, err)
	for _, kind := range valueobjects.EntityTypeEdgeKinds() {
		assert.Equal(t, uint8(2), depths.Get(kind))
	}
}

func TestParseResolveDepths_AppliesToPropertyTypeKinds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?resolve_depth=1", nil)
	depths, err := parseResolveDepths(r, ports.PropertyType)
	require.NoError(t, err)
	for _, kind := range valueobjects.PropertyTypeEdgeKinds() {
		assert.Equal(t, uint8(1), depths.Get(kind))
	}
}

func TestParseResolveDepths_InvalidErrors(t *testing.T) {
	r := httptest.NewRequest("GET", "/?resolve_depth=not-a-number", nil)
	_, err := parseResolveDepths(r, ports.EntityType)
	assert.Error(t, err)
}

func TestParseFilter_RequiresBaseURLOrBaseURLs(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := parseFilter(r)
	assert.Error(t, err)
}

func TestParseFilter_BaseURLOnlyYieldsExactBaseURL(t *testing.T) {
	r := httptest.NewRequest("GET", "/?base_url=https://example.com/types/entity-type/person", nil)
	f, err := parseFilter(r)
	require.NoError(t, err)
	_, ok := f.(filters.ExactBaseURL)
	assert.True(t, ok)
}

func TestParseFilter_BaseURLAndVersionYieldsExactVersionedURL(t *testing.T) {
	r := httptest.NewRequest("GET", "/?base_url=https://example.com/types/entity-type/person&version=2", nil)
	f, err := parseFilter(r)
	require.NoError(t, err)
	exact, ok := f.(filters.ExactVersionedURL)
	require.True(t, ok)
	assert.Equal(t, uint32(2), exact.Target.Version)
}

func TestParseFilter_BaseURLsYieldsAnyOfBaseURLs(t *testing.T) {
	r := httptest.NewRequest("GET", "/?base_urls=https://example.com/a,https://example.com/b", nil)
	f, err := parseFilter(r)
	require.NoError(t, err)
	anyOf, ok := f.(filters.AnyOfBaseURLs)
	require.True(t, ok)
	assert.Len(t, anyOf.Targets, 2)
}

func TestParseFilter_InvalidBaseURLErrors(t *testing.T) {
	r := httptest.NewRequest("GET", "/?base_url=not-a-url", nil)
	_, err := parseFilter(r)
	assert.Error(t, err)
}

func TestParseFilter_InvalidVersionErrors(t *testing.T) {
	r := httptest.NewRequest("GET", "/?base_url=https://example.com/types/entity-type/person&version=abc", nil)
	_, err := parseFilter(r)
	assert.Error(t, err)
}
