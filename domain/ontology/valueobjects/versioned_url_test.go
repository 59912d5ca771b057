package valueobjects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontology-resolver/domain/ontology/valueobjects"
)

func TestNewBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid absolute url", "https://example.com/types/entity-type/person", false},
		{"empty", "", true},
		{"relative", "/types/entity-type/person", true},
		{"with fragment", "https://example.com/types/entity-type/person#v1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := valueobjects.NewBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseURL_Equals(t *testing.T) {
	a := valueobjects.MustBaseURL("https://example.com/types/entity-type/person")
	b := valueobjects.MustBaseURL("https://example.com/types/entity-type/person")
	c := valueobjects.MustBaseURL("https://example.com/types/entity-type/dog")
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestNewVersionedURL_RejectsZeroVersion(t *testing.T) {
	base := valueobjects.MustBaseURL("https://example.com/types/entity-type/person")
	_, err := valueobjects.NewVersionedURL(base, 0)
	assert.Error(t, err)
}

func TestVersionedURL_String(t *testing.T) {
	base := valueobjects.MustBaseURL("https://example.com/types/entity-type/person")
	v, err := valueobjects.NewVersionedURL(base, 3)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/types/entity-type/person/v/3", v.String())
}

func TestVersionedURL_Equals(t *testing.T) {
	base := valueobjects.MustBaseURL("https://example.com/types/entity-type/person")
	v1, _ := valueobjects.NewVersionedURL(base, 1)
	v2, _ := valueobjects.NewVersionedURL(base, 1)
	v3, _ := valueobjects.NewVersionedURL(base, 2)
	assert.True(t, v1.Equals(v2))
	assert.False(t, v1.Equals(v3))
}

func TestVersionedURL_IsZero(t *testing.T) {
	var zero valueobjects.VersionedURL
	assert.True(t, zero.IsZero())

	base := valueobjects.MustBaseURL("https://example.com/types/entity-type/person")
	v, _ := valueobjects.NewVersionedURL(base, 1)
	assert.False(t, v.IsZero())
}
