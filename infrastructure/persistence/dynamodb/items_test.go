package dynamodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

func TestEncodeDecodeEntitySchema_RoundTrips(t *testing.T) {
	base := valueobjects.MustBaseURL("https://example.com/types/entity-type/person")
	id, err := valueobjects.NewVersionedURL(base, 1)
	require.NoError(t, err)
	original := schema.EntityTypeSchema{ID: id, Title: "Person"}

	raw, err := encodeEntitySchema(original)
	require.NoError(t, err)

	decoded, err := decodeEntitySchema(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestEncodeDecodePropertySchema_RoundTrips(t *testing.T) {
	base := valueobjects.MustBaseURL("https://example.com/types/property-type/name")
	id, err := valueobjects.NewVersionedURL(base, 1)
	require.NoError(t, err)
	original := schema.PropertyTypeSchema{ID: id, Title: "Name"}

	raw, err := encodePropertySchema(original)
	require.NoError(t, err)

	decoded, err := decodePropertySchema(raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestFormatAndParseTime_RoundTrips(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 30, 0, 0, time.UTC)
	formatted := formatTime(now)

	parsed, err := parseTime(formatted)
	require.NoError(t, err)
	assert.True(t, now.Equal(parsed))
}

func TestFormatTimePtr_NilYieldsEmptyString(t *testing.T) {
	assert.Equal(t, "", formatTimePtr(nil))
}

func TestParseTimePtr_EmptyStringYieldsNil(t *testing.T) {
	parsed, err := parseTimePtr("")
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseTimePtr_NonEmptyRoundTrips(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 30, 0, 0, time.UTC)
	formatted := formatTimePtr(&now)

	parsed, err := parseTimePtr(formatted)
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, now.Equal(*parsed))
}

func TestTemporalVersioningFromItem_UnboundedTxnTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	item := typeItem{
		TxnTimeStart:  formatTime(start),
		DecisionStart: formatTime(start),
	}

	tv, err := temporalVersioningFromItem(item)
	require.NoError(t, err)
	assert.True(t, tv.TransactionTime.Start.Equal(start))
	assert.Nil(t, tv.TransactionTime.End)
	assert.True(t, tv.DecisionTime.Start.Equal(start))
}

func TestTemporalVersioningFromItem_BoundedTxnTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	item := typeItem{
		TxnTimeStart:  formatTime(start),
		TxnTimeEnd:    formatTime(end),
		DecisionStart: formatTime(start),
	}

	tv, err := temporalVersioningFromItem(item)
	require.NoError(t, err)
	require.NotNil(t, tv.TransactionTime.End)
	assert.True(t, tv.TransactionTime.End.Equal(end))
}

func TestTemporalVersioningFromItem_InvalidTimeErrors(t *testing.T) {
	item := typeItem{TxnTimeStart: "not-a-time", DecisionStart: "not-a-time"}
	_, err := temporalVersioningFromItem(item)
	assert.Error(t, err)
}

func TestOntologyIDPointerPK(t *testing.T) {
	assert.Equal(t, "ONTOLOGYID#42", ontologyIDPointerPK(valueobjects.OntologyID(42)))
}
