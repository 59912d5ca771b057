package dynamodb

import (
	"context"
	"iter"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/edges"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// EdgeReader implements ports.EdgeReader. ReadEdges issues exactly one
// Query per edge kind — against referenceKindIndex (GSI2), which projects
// reference rows by kind with source ontology id as sort key — and filters
// the result in process to the sources admitted for that iteration, rather
// than issuing a Query per source. A kind with more matching rows than fit
// in one DynamoDB response page still costs one logical bulk read: the
// pagination loop follows LastEvaluatedKey, it does not branch per source.
type EdgeReader struct {
	client    *dynamodb.Client
	tableName string
	kindIndex string
	logger    *zap.Logger
}

func NewEdgeReader(client *dynamodb.Client, tableName, kindIndex string, logger *zap.Logger) *EdgeReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EdgeReader{client: client, tableName: tableName, kindIndex: kindIndex, logger: logger}
}

// ReadEdges implements ports.EdgeReader.
func (r *EdgeReader) ReadEdges(ctx context.Context, kind valueobjects.ReferenceKind, sources []edges.WorkItem, axis valueobjects.TimeAxis) (iter.Seq[edges.Edge], error) {
	bySource := make(map[valueobjects.OntologyID][]edges.WorkItem, len(sources))
	for _, source := range sources {
		bySource[source.OntologyID] = append(bySource[source.OntologyID], source)
	}

	rows, err := r.queryReferencesByKind(ctx, kind, bySource)
	if err != nil {
		return nil, appErrors.Wrapf(err, "querying %s references", kind)
	}

	seq := func(yield func(edges.Edge) bool) {
		for _, row := range rows {
			targetID := valueobjects.OntologyID(row.TargetOntologyID)
			pointer, err := r.resolveReverse(ctx, targetID)
			if err != nil {
				r.logger.Warn("failed to resolve reference target", zap.Int64("targetOntologyID", int64(targetID)), zap.Error(err))
				continue
			}
			if pointer == nil {
				continue
			}
			targetInterval, err := r.versionInterval(ctx, ports.TypeKind(pointer.Kind), pointer.BaseURL, pointer.Version, axis)
			if err != nil {
				r.logger.Warn("failed to read target version interval", zap.Error(err))
				continue
			}
			base, err := valueobjects.NewBaseURL(pointer.BaseURL)
			if err != nil {
				continue
			}

			for _, source := range bySource[valueobjects.OntologyID(row.SourceOntologyID)] {
				intersected, ok := source.Interval.Intersect(targetInterval)
				if !ok {
					continue
				}
				edge := edges.Edge{
					Kind:              kind,
					LeftEndpoint:      source.Endpoint,
					LeftOntologyID:    source.OntologyID,
					RightEndpoint:     valueobjects.NewVertexID(base, intersected.Start),
					RightOntologyID:   targetID,
					ResolveDepths:     source.Depths,
					TraversalInterval: intersected,
				}
				if !yield(edge) {
					return
				}
			}
		}
	}
	return seq, nil
}

// queryReferencesByKind pages through every reference row of kind via
// referenceKindIndex and keeps only the rows whose source ontology id this
// iteration actually admitted. One kind costs one paginated Query sequence
// regardless of how many sources are in play, not one Query per source.
func (r *EdgeReader) queryReferencesByKind(ctx context.Context, kind valueobjects.ReferenceKind, bySource map[valueobjects.OntologyID][]edges.WorkItem) ([]referenceItem, error) {
	var rows []referenceItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(r.kindIndex),
			KeyConditionExpression: aws.String("GSI2PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: referenceKindGSIPK(kind)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, appErrors.NewDatabaseError("query reference rows by kind", err)
		}
		for _, rawItem := range out.Items {
			var item referenceItem
			if err := attributevalue.UnmarshalMap(rawItem, &item); err != nil {
				continue
			}
			if _, admitted := bySource[valueobjects.OntologyID(item.SourceOntologyID)]; !admitted {
				continue
			}
			rows = append(rows, item)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return rows, nil
}

func (r *EdgeReader) resolveReverse(ctx context.Context, id valueobjects.OntologyID) (*ontologyIDPointerItem, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ontologyIDPointerPK(id)},
			"SK": &types.AttributeValueMemberS{Value: ontologyIDPointerSK},
		},
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("get ontology id pointer", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var item ontologyIDPointerItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.NewInternalError("unmarshal ontology id pointer").WithCause(err)
	}
	return &item, nil
}

func (r *EdgeReader) versionInterval(ctx context.Context, kind ports.TypeKind, baseURL string, version uint32, axis valueobjects.TimeAxis) (valueobjects.TemporalInterval, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: typePK(kind, baseURL)},
			"SK": &types.AttributeValueMemberS{Value: versionSK(version)},
		},
	})
	if err != nil {
		return valueobjects.TemporalInterval{}, appErrors.NewDatabaseError("get version row for interval", err)
	}
	if out.Item == nil {
		return valueobjects.TemporalInterval{}, appErrors.NewNotFoundError("version row")
	}
	var item typeItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return valueobjects.TemporalInterval{}, appErrors.NewInternalError("unmarshal version row").WithCause(err)
	}
	versioning, err := temporalVersioningFromItem(item)
	if err != nil {
		return valueobjects.TemporalInterval{}, err
	}
	if axis == valueobjects.DecisionTime {
		return versioning.DecisionTime, nil
	}
	return versioning.TransactionTime, nil
}

// VertexReader implements ports.VertexReader by chunking the admitted work
// items into DynamoDB BatchGetItem calls of at most 100 keys, the SDK's
// per-call limit.
type VertexReader struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

func NewVertexReader(client *dynamodb.Client, tableName string, logger *zap.Logger) *VertexReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VertexReader{client: client, tableName: tableName, logger: logger}
}

// ReadEntityTypeVertices implements ports.VertexReader.
func (r *VertexReader) ReadEntityTypeVertices(ctx context.Context, work []edges.WorkItem, axis valueobjects.TimeAxis) (map[valueobjects.VertexID]ports.VertexRecord, error) {
	pointers, err := r.resolvePointers(ctx, work)
	if err != nil {
		return nil, err
	}
	out := make(map[valueobjects.VertexID]ports.VertexRecord, len(work))
	items, err := r.batchGetVersions(ctx, pointers)
	if err != nil {
		return nil, err
	}
	for key, item := range items {
		sch, err := decodeEntitySchema(item.SchemaJSON)
		if err != nil {
			r.logger.Warn("failed to decode entity type schema", zap.Error(err))
			continue
		}
		metadata, err := metadataFromItem(item)
		if err != nil {
			r.logger.Warn("failed to decode entity type metadata", zap.Error(err))
			continue
		}
		record := &schema.EntityTypeRecord{OntologyID: valueobjects.OntologyID(item.OntologyID), Schema: sch, Metadata: metadata}
		out[vertexIDFor(key, axis, metadata)] = ports.VertexRecord{OntologyID: record.OntologyID, Record: record}
	}
	return out, nil
}

// ReadPropertyTypeVertices implements ports.VertexReader.
func (r *VertexReader) ReadPropertyTypeVertices(ctx context.Context, work []edges.WorkItem, axis valueobjects.TimeAxis) (map[valueobjects.VertexID]ports.VertexRecord, error) {
	pointers, err := r.resolvePointers(ctx, work)
	if err != nil {
		return nil, err
	}
	items, err := r.batchGetVersions(ctx, pointers)
	if err != nil {
		return nil, err
	}
	out := make(map[valueobjects.VertexID]ports.VertexRecord, len(work))
	for key, item := range items {
		sch, err := decodePropertySchema(item.SchemaJSON)
		if err != nil {
			r.logger.Warn("failed to decode property type schema", zap.Error(err))
			continue
		}
		metadata, err := metadataFromItem(item)
		if err != nil {
			r.logger.Warn("failed to decode property type metadata", zap.Error(err))
			continue
		}
		record := &schema.PropertyTypeRecord{OntologyID: valueobjects.OntologyID(item.OntologyID), Schema: sch, Metadata: metadata}
		out[vertexIDFor(key, axis, metadata)] = ports.VertexRecord{OntologyID: record.OntologyID, Record: record}
	}
	return out, nil
}

func vertexIDFor(pointer ontologyIDPointerItem, axis valueobjects.TimeAxis, metadata schema.OntologyMetadata) valueobjects.VertexID {
	base := valueobjects.MustBaseURL(pointer.BaseURL)
	interval := metadata.Temporal.TransactionTime
	if axis == valueobjects.DecisionTime {
		interval = metadata.Temporal.DecisionTime
	}
	return valueobjects.NewVertexID(base, interval.Start)
}

// resolvePointers resolves every admitted work item's OntologyID into its
// (kind, base url, version) reverse pointer, in parallel.
func (r *VertexReader) resolvePointers(ctx context.Context, work []edges.WorkItem) ([]ontologyIDPointerItem, error) {
	type result struct {
		pointer ontologyIDPointerItem
		found   bool
		err     error
	}
	results := make(chan result, len(work))
	var wg sync.WaitGroup
	for _, item := range work {
		wg.Add(1)
		go func(id valueobjects.OntologyID) {
			defer wg.Done()
			out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
				TableName: aws.String(r.tableName),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: ontologyIDPointerPK(id)},
					"SK": &types.AttributeValueMemberS{Value: ontologyIDPointerSK},
				},
			})
			if err != nil {
				results <- result{err: appErrors.NewDatabaseError("get ontology id pointer", err)}
				return
			}
			if out.Item == nil {
				results <- result{found: false}
				return
			}
			var pointer ontologyIDPointerItem
			if err := attributevalue.UnmarshalMap(out.Item, &pointer); err != nil {
				results <- result{err: appErrors.NewInternalError("unmarshal ontology id pointer").WithCause(err)}
				return
			}
			results <- result{pointer: pointer, found: true}
		}(item.OntologyID)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	pointers := make([]ontologyIDPointerItem, 0, len(work))
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if res.found {
			pointers = append(pointers, res.pointer)
		}
	}
	return pointers, nil
}

// batchGetVersions fetches every pointer's version row via BatchGetItem,
// chunked at 100 keys per call.
func (r *VertexReader) batchGetVersions(ctx context.Context, pointers []ontologyIDPointerItem) (map[ontologyIDPointerItem]typeItem, error) {
	out := make(map[ontologyIDPointerItem]typeItem, len(pointers))
	for start := 0; start < len(pointers); start += 100 {
		end := start + 100
		if end > len(pointers) {
			end = len(pointers)
		}
		chunk := pointers[start:end]

		keys := make([]map[string]types.AttributeValue, 0, len(chunk))
		for _, p := range chunk {
			keys = append(keys, map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: typePK(ports.TypeKind(p.Kind), p.BaseURL)},
				"SK": &types.AttributeValueMemberS{Value: versionSK(p.Version)},
			})
		}

		resp, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tableName: {Keys: keys},
			},
		})
		if err != nil {
			return nil, appErrors.NewDatabaseError("batch get version rows", err)
		}
		for _, rawItem := range resp.Responses[r.tableName] {
			var item typeItem
			if err := attributevalue.UnmarshalMap(rawItem, &item); err != nil {
				continue
			}
			for _, p := range chunk {
				if p.BaseURL == item.BaseURL && p.Version == item.Version && p.Kind == item.Kind {
					out[p] = item
					break
				}
			}
		}
	}
	return out, nil
}
