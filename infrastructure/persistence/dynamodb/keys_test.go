package dynamodb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/valueobjects"
)

func TestTypePK(t *testing.T) {
	assert.Equal(t, "TYPE#entity_type#https://example.com/person", typePK(ports.EntityType, "https://example.com/person"))
	assert.Equal(t, "TYPE#property_type#https://example.com/name", typePK(ports.PropertyType, "https://example.com/name"))
}

func TestVersionSK(t *testing.T) {
	assert.Equal(t, "V#1", versionSK(1))
	assert.Equal(t, "V#42", versionSK(42))
}

func TestReferencePK_AndSK(t *testing.T) {
	assert.Equal(t, "REF#INHERITS_FROM#7", referencePK(valueobjects.InheritsFrom, 7))
	assert.Equal(t, "TARGET#3", referenceSK(3))
}

func TestKindGSI1PK(t *testing.T) {
	assert.Equal(t, "KIND#entity_type", kindGSI1PK(ports.EntityType))
}

func TestReferenceKindGSIPK_AndSK(t *testing.T) {
	assert.Equal(t, "REFKIND#INHERITS_FROM", referenceKindGSIPK(valueobjects.InheritsFrom))
	assert.Equal(t, "SOURCE#0000000000000000007", referenceKindGSISK(7))
}

func TestParseOntologyID(t *testing.T) {
	id, err := parseOntologyID("123")
	assert.NoError(t, err)
	assert.Equal(t, valueobjects.OntologyID(123), id)

	_, err = parseOntologyID("not-a-number")
	assert.Error(t, err)
}
