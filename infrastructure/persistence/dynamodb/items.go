package dynamodb

import (
	"encoding/json"
	"fmt"
	"time"

	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
)

// typeItem is the DynamoDB row for one version of one entity or property
// type. SchemaJSON carries the self-describing schema as an opaque blob,
// the same "arbitrary nested payload as a marshaled blob" idiom used
// elsewhere in this store for its own Metadata map.
type typeItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	GSI1PK         string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK         string `dynamodbav:"GSI1SK,omitempty"`
	Kind           string `dynamodbav:"Kind"`
	BaseURL        string `dynamodbav:"BaseURL"`
	Version        uint32 `dynamodbav:"Version"`
	OntologyID     int64  `dynamodbav:"OntologyID"`
	SchemaJSON     string `dynamodbav:"SchemaJSON"`
	RecordID       string `dynamodbav:"RecordID"`
	Custom         bool   `dynamodbav:"Custom"`
	CreatedBy      string `dynamodbav:"CreatedBy"`
	ArchivedBy     string `dynamodbav:"ArchivedBy,omitempty"`
	Archived       bool   `dynamodbav:"Archived"`
	TxnTimeStart   string `dynamodbav:"TxnTimeStart"`
	TxnTimeEnd     string `dynamodbav:"TxnTimeEnd,omitempty"`
	DecisionStart  string `dynamodbav:"DecisionStart"`
	DecisionEnd    string `dynamodbav:"DecisionEnd,omitempty"`
}

// latestPointerItem records, per base url, which version is currently live.
// It is the row ResolveOntologyID and the kind-scoped GSI Query both read.
type latestPointerItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	Kind       string `dynamodbav:"Kind"`
	BaseURL    string `dynamodbav:"BaseURL"`
	Version    uint32 `dynamodbav:"Version"`
	OntologyID int64  `dynamodbav:"OntologyID"`
	Archived   bool   `dynamodbav:"Archived"`
}

// ontologyIDPointerItem is the reverse index from a surrogate OntologyID
// back to the (kind, base url, version) it names. The Edge Reader uses it to
// resolve a reference row's TargetOntologyID into a VertexID and the
// temporal interval needed to intersect against the traversing edge.
type ontologyIDPointerItem struct {
	PK      string `dynamodbav:"PK"`
	SK      string `dynamodbav:"SK"`
	Kind    string `dynamodbav:"Kind"`
	BaseURL string `dynamodbav:"BaseURL"`
	Version uint32 `dynamodbav:"Version"`
}

func ontologyIDPointerPK(id valueobjects.OntologyID) string {
	return fmt.Sprintf("ONTOLOGYID#%d", int64(id))
}

const ontologyIDPointerSK = "POINTER"

// referenceItem is one outbound reference row. GSI2PK/GSI2SK project it onto
// referenceKindIndex (GSI2), keyed by kind with source ontology id as sort
// key, so the edge reader can pull every row of a kind in one Query.
type referenceItem struct {
	PK               string `dynamodbav:"PK"`
	SK               string `dynamodbav:"SK"`
	GSI2PK           string `dynamodbav:"GSI2PK"`
	GSI2SK           string `dynamodbav:"GSI2SK"`
	Kind             string `dynamodbav:"Kind"`
	SourceOntologyID int64  `dynamodbav:"SourceOntologyID"`
	TargetOntologyID int64  `dynamodbav:"TargetOntologyID"`
	InheritanceDepth int    `dynamodbav:"InheritanceDepth"`
}

func encodeEntitySchema(s schema.EntityTypeSchema) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

func decodeEntitySchema(raw string) (schema.EntityTypeSchema, error) {
	var s schema.EntityTypeSchema
	err := json.Unmarshal([]byte(raw), &s)
	return s, err
}

func encodePropertySchema(s schema.PropertyTypeSchema) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

func decodePropertySchema(raw string) (schema.PropertyTypeSchema, error) {
	var s schema.PropertyTypeSchema
	err := json.Unmarshal([]byte(raw), &s)
	return s, err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func temporalVersioningFromItem(item typeItem) (schema.TemporalVersioning, error) {
	txnStart, err := parseTime(item.TxnTimeStart)
	if err != nil {
		return schema.TemporalVersioning{}, err
	}
	txnEnd, err := parseTimePtr(item.TxnTimeEnd)
	if err != nil {
		return schema.TemporalVersioning{}, err
	}
	decisionStart, err := parseTime(item.DecisionStart)
	if err != nil {
		return schema.TemporalVersioning{}, err
	}
	decisionEnd, err := parseTimePtr(item.DecisionEnd)
	if err != nil {
		return schema.TemporalVersioning{}, err
	}
	return schema.TemporalVersioning{
		TransactionTime: intervalFrom(txnStart, txnEnd),
		DecisionTime:    intervalFrom(decisionStart, decisionEnd),
	}, nil
}

func intervalFrom(start time.Time, end *time.Time) valueobjects.TemporalInterval {
	if end == nil {
		return valueobjects.NewUnboundedInterval(start)
	}
	return valueobjects.NewBoundedInterval(start, *end)
}
