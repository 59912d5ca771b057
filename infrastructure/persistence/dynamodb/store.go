package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/schema"
	"ontology-resolver/domain/ontology/valueobjects"
	appErrors "ontology-resolver/pkg/errors"
)

// Store implements ports.OntologyStore directly against DynamoDB: every
// mutating call executes its own write set immediately. transactionalStore
// (unit_of_work.go) wraps this to queue writes into a UnitOfWork
// instead of executing them immediately.
type Store struct {
	client         *dynamodb.Client
	tableName      string
	latestIndex    string
	logger         *zap.Logger
}

func NewStore(client *dynamodb.Client, tableName, latestIndex string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, tableName: tableName, latestIndex: latestIndex, logger: logger}
}

// allocateOntologyID uses DynamoDB's atomic ADD update expression against a
// single counter row as a dense surrogate-key sequence. This runs outside
// whatever TransactWriteItems batch a caller is assembling: it is a
// documented relaxation (see the grounding ledger) of full atomicity, since
// DynamoDB transactions cannot both allocate-and-return a value and commit
// conditionally in one round trip.
func (s *Store) allocateOntologyID(ctx context.Context) (valueobjects.OntologyID, error) {
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "COUNTER"},
			"SK": &types.AttributeValueMemberS{Value: "ONTOLOGY_ID"},
		},
		UpdateExpression: aws.String("ADD Seq :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, appErrors.NewDatabaseError("allocate ontology id", err)
	}
	seqAttr, ok := out.Attributes["Seq"]
	if !ok {
		return 0, appErrors.NewInternalError("counter update returned no Seq attribute")
	}
	var seq int64
	if err := attributevalue.Unmarshal(seqAttr, &seq); err != nil {
		return 0, appErrors.NewInternalError("unmarshal counter value").WithCause(err)
	}
	return valueobjects.OntologyID(seq), nil
}

func (s *Store) getLatestPointer(ctx context.Context, kind ports.TypeKind, baseURL string) (*latestPointerItem, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: typePK(kind, baseURL)},
			"SK": &types.AttributeValueMemberS{Value: latestSK},
		},
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("get latest pointer", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var item latestPointerItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, appErrors.NewInternalError("unmarshal latest pointer").WithCause(err)
	}
	return &item, nil
}

// CreateEntityType implements ports.OntologyStore. It builds the new
// version's write set and executes it as its own TransactWriteItems call;
// transactionalStore.CreateEntityType builds the identical write set but
// stages it on the owning UnitOfWork instead, so it lands together with the
// item's reference rows.
func (s *Store) CreateEntityType(ctx context.Context, sch schema.EntityTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	items, result, err := s.buildCreateEntityTypeItems(ctx, sch, metadata, actor, onConflict)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return result, nil
	}
	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return nil, appErrors.NewDatabaseError("create entity type", err)
	}
	return result, nil
}

// buildCreateEntityTypeItems prepares the version row, LATEST pointer, and
// reverse ontology-id pointer for a new entity type without writing them.
// An empty item slice with a non-nil result means the base url already
// exists and onConflict is Skip.
func (s *Store) buildCreateEntityTypeItems(ctx context.Context, sch schema.EntityTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) ([]types.TransactWriteItem, *ports.CreateTypeResult, error) {
	baseURL := sch.ID.BaseURL.String()
	existing, err := s.getLatestPointer(ctx, ports.EntityType, baseURL)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		if onConflict == valueobjects.Fail {
			return nil, nil, appErrors.NewAlreadyExistsError(baseURL)
		}
		return nil, &ports.CreateTypeResult{}, nil
	}

	id, err := s.allocateOntologyID(ctx)
	if err != nil {
		return nil, nil, err
	}
	schemaJSON, err := encodeEntitySchema(sch)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal entity type schema").WithCause(err)
	}

	now := txnNow()
	item := typeItem{
		PK:            typePK(ports.EntityType, baseURL),
		SK:            versionSK(sch.ID.Version),
		Kind:          string(ports.EntityType),
		BaseURL:       baseURL,
		Version:       sch.ID.Version,
		OntologyID:    int64(id),
		SchemaJSON:    schemaJSON,
		RecordID:      uuid.New().String(),
		Custom:        metadata.Custom,
		CreatedBy:     actor.String(),
		TxnTimeStart:  formatTime(now),
		DecisionStart: formatTime(now),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal entity type item").WithCause(err)
	}

	pointer := latestPointerItem{
		PK: typePK(ports.EntityType, baseURL), SK: latestSK,
		GSI1PK: kindGSI1PK(ports.EntityType), GSI1SK: baseURL,
		Kind: string(ports.EntityType), BaseURL: baseURL,
		Version: sch.ID.Version, OntologyID: int64(id),
	}
	pointerAV, err := attributevalue.MarshalMap(pointer)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal latest pointer").WithCause(err)
	}
	reversePointer, err := reverseOntologyIDPointer(s.tableName, ports.EntityType, baseURL, sch.ID.Version, id)
	if err != nil {
		return nil, nil, err
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: av}},
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: pointerAV}},
		reversePointer,
	}
	return items, &ports.CreateTypeResult{OntologyID: &id, TxnTime: now}, nil
}

// CreatePropertyType implements ports.OntologyStore. See CreateEntityType's
// comment for the split between executing directly and staging on a
// transactionalStore.
func (s *Store) CreatePropertyType(ctx context.Context, sch schema.PropertyTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) (*ports.CreateTypeResult, error) {
	items, result, err := s.buildCreatePropertyTypeItems(ctx, sch, metadata, actor, onConflict)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return result, nil
	}
	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return nil, appErrors.NewDatabaseError("create property type", err)
	}
	return result, nil
}

func (s *Store) buildCreatePropertyTypeItems(ctx context.Context, sch schema.PropertyTypeSchema, metadata schema.PartialMetadata, actor uuid.UUID, onConflict valueobjects.ConflictBehavior) ([]types.TransactWriteItem, *ports.CreateTypeResult, error) {
	baseURL := sch.ID.BaseURL.String()
	existing, err := s.getLatestPointer(ctx, ports.PropertyType, baseURL)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		if onConflict == valueobjects.Fail {
			return nil, nil, appErrors.NewAlreadyExistsError(baseURL)
		}
		return nil, &ports.CreateTypeResult{}, nil
	}

	id, err := s.allocateOntologyID(ctx)
	if err != nil {
		return nil, nil, err
	}
	schemaJSON, err := encodePropertySchema(sch)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal property type schema").WithCause(err)
	}

	now := txnNow()
	item := typeItem{
		PK:            typePK(ports.PropertyType, baseURL),
		SK:            versionSK(sch.ID.Version),
		Kind:          string(ports.PropertyType),
		BaseURL:       baseURL,
		Version:       sch.ID.Version,
		OntologyID:    int64(id),
		SchemaJSON:    schemaJSON,
		RecordID:      uuid.New().String(),
		Custom:        metadata.Custom,
		CreatedBy:     actor.String(),
		TxnTimeStart:  formatTime(now),
		DecisionStart: formatTime(now),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal property type item").WithCause(err)
	}

	pointer := latestPointerItem{
		PK: typePK(ports.PropertyType, baseURL), SK: latestSK,
		GSI1PK: kindGSI1PK(ports.PropertyType), GSI1SK: baseURL,
		Kind: string(ports.PropertyType), BaseURL: baseURL,
		Version: sch.ID.Version, OntologyID: int64(id),
	}
	pointerAV, err := attributevalue.MarshalMap(pointer)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal latest pointer").WithCause(err)
	}
	reversePointer, err := reverseOntologyIDPointer(s.tableName, ports.PropertyType, baseURL, sch.ID.Version, id)
	if err != nil {
		return nil, nil, err
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: av}},
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: pointerAV}},
		reversePointer,
	}
	return items, &ports.CreateTypeResult{OntologyID: &id, TxnTime: now}, nil
}

// UpdateEntityType implements ports.OntologyStore. See CreateEntityType's
// comment for the split between executing directly and staging on a
// transactionalStore.
func (s *Store) UpdateEntityType(ctx context.Context, sch schema.EntityTypeSchema, actor uuid.UUID) (*ports.UpdateTypeResult, error) {
	items, result, err := s.buildUpdateEntityTypeItems(ctx, sch, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return nil, appErrors.NewDatabaseError("update entity type", err)
	}
	return result, nil
}

func (s *Store) buildUpdateEntityTypeItems(ctx context.Context, sch schema.EntityTypeSchema, actor uuid.UUID) ([]types.TransactWriteItem, *ports.UpdateTypeResult, error) {
	baseURL := sch.ID.BaseURL.String()
	existing, err := s.getLatestPointer(ctx, ports.EntityType, baseURL)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil {
		return nil, nil, appErrors.NewNotFoundError(fmt.Sprintf("entity type %s", baseURL))
	}

	newVersion := existing.Version + 1
	id, err := s.allocateOntologyID(ctx)
	if err != nil {
		return nil, nil, err
	}
	versionedID, err := valueobjects.NewVersionedURL(sch.ID.BaseURL, newVersion)
	if err != nil {
		return nil, nil, err
	}
	sch.ID = versionedID

	schemaJSON, err := encodeEntitySchema(sch)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal entity type schema").WithCause(err)
	}

	now := txnNow()
	item := typeItem{
		PK: typePK(ports.EntityType, baseURL), SK: versionSK(newVersion),
		Kind: string(ports.EntityType), BaseURL: baseURL, Version: newVersion,
		OntologyID: int64(id), SchemaJSON: schemaJSON, RecordID: uuid.New().String(),
		CreatedBy: actor.String(), TxnTimeStart: formatTime(now), DecisionStart: formatTime(now),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal entity type item").WithCause(err)
	}

	pointer := latestPointerItem{
		PK: typePK(ports.EntityType, baseURL), SK: latestSK,
		GSI1PK: kindGSI1PK(ports.EntityType), GSI1SK: baseURL,
		Kind: string(ports.EntityType), BaseURL: baseURL,
		Version: newVersion, OntologyID: int64(id),
	}
	pointerAV, err := attributevalue.MarshalMap(pointer)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal latest pointer").WithCause(err)
	}
	reversePointer, err := reverseOntologyIDPointer(s.tableName, ports.EntityType, baseURL, newVersion, id)
	if err != nil {
		return nil, nil, err
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: av}},
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: pointerAV}},
		reversePointer,
	}
	result := &ports.UpdateTypeResult{
		OntologyID: id, OwnedByID: sch.ID.BaseURL, NewVersion: newVersion, TxnTime: now,
		NewSchema: sch,
		NewMetadata: schema.OntologyMetadata{
			RecordID:   uuid.MustParse(item.RecordID),
			Provenance: schema.NewProvenance(actor),
			Temporal: schema.TemporalVersioning{
				TransactionTime: valueobjects.NewUnboundedInterval(now),
				DecisionTime:    valueobjects.NewUnboundedInterval(now),
			},
		},
	}
	return items, result, nil
}

// UpdatePropertyType implements ports.OntologyStore. See CreateEntityType's
// comment for the split between executing directly and staging on a
// transactionalStore.
func (s *Store) UpdatePropertyType(ctx context.Context, sch schema.PropertyTypeSchema, actor uuid.UUID) (*ports.UpdateTypeResult, error) {
	items, result, err := s.buildUpdatePropertyTypeItems(ctx, sch, actor)
	if err != nil {
		return nil, err
	}
	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return nil, appErrors.NewDatabaseError("update property type", err)
	}
	return result, nil
}

func (s *Store) buildUpdatePropertyTypeItems(ctx context.Context, sch schema.PropertyTypeSchema, actor uuid.UUID) ([]types.TransactWriteItem, *ports.UpdateTypeResult, error) {
	baseURL := sch.ID.BaseURL.String()
	existing, err := s.getLatestPointer(ctx, ports.PropertyType, baseURL)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil {
		return nil, nil, appErrors.NewNotFoundError(fmt.Sprintf("property type %s", baseURL))
	}

	newVersion := existing.Version + 1
	id, err := s.allocateOntologyID(ctx)
	if err != nil {
		return nil, nil, err
	}
	versionedID, err := valueobjects.NewVersionedURL(sch.ID.BaseURL, newVersion)
	if err != nil {
		return nil, nil, err
	}
	sch.ID = versionedID

	schemaJSON, err := encodePropertySchema(sch)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal property type schema").WithCause(err)
	}

	now := txnNow()
	item := typeItem{
		PK: typePK(ports.PropertyType, baseURL), SK: versionSK(newVersion),
		Kind: string(ports.PropertyType), BaseURL: baseURL, Version: newVersion,
		OntologyID: int64(id), SchemaJSON: schemaJSON, RecordID: uuid.New().String(),
		CreatedBy: actor.String(), TxnTimeStart: formatTime(now), DecisionStart: formatTime(now),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal property type item").WithCause(err)
	}

	pointer := latestPointerItem{
		PK: typePK(ports.PropertyType, baseURL), SK: latestSK,
		GSI1PK: kindGSI1PK(ports.PropertyType), GSI1SK: baseURL,
		Kind: string(ports.PropertyType), BaseURL: baseURL,
		Version: newVersion, OntologyID: int64(id),
	}
	pointerAV, err := attributevalue.MarshalMap(pointer)
	if err != nil {
		return nil, nil, appErrors.NewInternalError("marshal latest pointer").WithCause(err)
	}
	reversePointer, err := reverseOntologyIDPointer(s.tableName, ports.PropertyType, baseURL, newVersion, id)
	if err != nil {
		return nil, nil, err
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: av}},
		{Put: &types.Put{TableName: aws.String(s.tableName), Item: pointerAV}},
		reversePointer,
	}
	result := &ports.UpdateTypeResult{
		OntologyID: id, OwnedByID: sch.ID.BaseURL, NewVersion: newVersion, TxnTime: now,
		NewMetadata: schema.OntologyMetadata{
			RecordID:   uuid.MustParse(item.RecordID),
			Provenance: schema.NewProvenance(actor),
			Temporal: schema.TemporalVersioning{
				TransactionTime: valueobjects.NewUnboundedInterval(now),
				DecisionTime:    valueobjects.NewUnboundedInterval(now),
			},
		},
	}
	return items, result, nil
}

// InsertReferenceRows implements ports.OntologyStore. See CreateEntityType's
// comment for the split between executing directly and staging on a
// transactionalStore. Called standalone, a reference batch larger than the
// 100-item TransactWriteItems cap is chunked across several calls, since
// there is no accompanying type-row write to stay atomic with; staged via
// transactionalStore it instead joins the single combined commit and is
// subject to that commit's hard 100-item ceiling.
func (s *Store) InsertReferenceRows(ctx context.Context, kind valueobjects.ReferenceKind, sourceID valueobjects.OntologyID, rows []ports.ReferenceRow) error {
	items, err := s.buildReferenceRowItems(kind, sourceID, rows)
	if err != nil {
		return err
	}
	for _, chunk := range chunkTransactItems(items, 100) {
		if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: chunk}); err != nil {
			return appErrors.NewDatabaseError("insert reference rows", err)
		}
	}
	return nil
}

func (s *Store) buildReferenceRowItems(kind valueobjects.ReferenceKind, sourceID valueobjects.OntologyID, rows []ports.ReferenceRow) ([]types.TransactWriteItem, error) {
	items := make([]types.TransactWriteItem, 0, len(rows))
	for _, row := range rows {
		item := referenceItem{
			PK: referencePK(kind, sourceID), SK: referenceSK(row.TargetOntologyID),
			GSI2PK: referenceKindGSIPK(kind), GSI2SK: referenceKindGSISK(sourceID),
			Kind: string(kind), SourceOntologyID: int64(sourceID),
			TargetOntologyID: int64(row.TargetOntologyID), InheritanceDepth: row.InheritanceDepth,
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return nil, appErrors.NewInternalError("marshal reference row").WithCause(err)
		}
		items = append(items, types.TransactWriteItem{Put: &types.Put{TableName: aws.String(s.tableName), Item: av}})
	}
	return items, nil
}

// ResolveOntologyID implements ports.OntologyStore.
func (s *Store) ResolveOntologyID(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL) (valueobjects.OntologyID, bool, error) {
	pointer, err := s.getLatestPointer(ctx, kind, url.BaseURL.String())
	if err != nil {
		return 0, false, err
	}
	if pointer == nil {
		return 0, false, nil
	}
	return valueobjects.OntologyID(pointer.OntologyID), true, nil
}

// Archive implements ports.OntologyStore.
func (s *Store) Archive(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL, actor uuid.UUID) (schema.OntologyMetadata, error) {
	return s.setArchived(ctx, kind, url, actor, true)
}

// Unarchive implements ports.OntologyStore.
func (s *Store) Unarchive(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL, actor uuid.UUID) (schema.OntologyMetadata, error) {
	return s.setArchived(ctx, kind, url, actor, false)
}

func (s *Store) setArchived(ctx context.Context, kind ports.TypeKind, url valueobjects.VersionedURL, actor uuid.UUID, archived bool) (schema.OntologyMetadata, error) {
	baseURL := url.BaseURL.String()
	updateExpr := "SET Archived = :archived"
	values := map[string]types.AttributeValue{
		":archived": &types.AttributeValueMemberBOOL{Value: archived},
	}
	if archived {
		updateExpr += ", ArchivedBy = :actor"
		values[":actor"] = &types.AttributeValueMemberS{Value: actor.String()}
	}

	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: typePK(kind, baseURL)},
			"SK": &types.AttributeValueMemberS{Value: versionSK(url.Version)},
		},
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
	}); err != nil {
		return schema.OntologyMetadata{}, appErrors.NewDatabaseError("set archived flag on version row", err)
	}
	if _, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: typePK(kind, baseURL)},
			"SK": &types.AttributeValueMemberS{Value: latestSK},
		},
		UpdateExpression:          aws.String("SET Archived = :archived"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":archived": &types.AttributeValueMemberBOOL{Value: archived}},
	}); err != nil {
		return schema.OntologyMetadata{}, appErrors.NewDatabaseError("set archived flag on latest pointer", err)
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: typePK(kind, baseURL)},
			"SK": &types.AttributeValueMemberS{Value: versionSK(url.Version)},
		},
	})
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.NewDatabaseError("read back version row", err)
	}
	if out.Item == nil {
		return schema.OntologyMetadata{}, appErrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, url.String()))
	}
	var item typeItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return schema.OntologyMetadata{}, appErrors.NewInternalError("unmarshal version row").WithCause(err)
	}
	return metadataFromItem(item)
}

func metadataFromItem(item typeItem) (schema.OntologyMetadata, error) {
	recordID, err := uuid.Parse(item.RecordID)
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.NewInternalError("parse record id").WithCause(err)
	}
	createdBy, err := uuid.Parse(item.CreatedBy)
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.NewInternalError("parse created-by actor").WithCause(err)
	}
	provenance := schema.NewProvenance(createdBy)
	if item.ArchivedBy != "" {
		archivedBy, err := uuid.Parse(item.ArchivedBy)
		if err != nil {
			return schema.OntologyMetadata{}, appErrors.NewInternalError("parse archived-by actor").WithCause(err)
		}
		provenance = provenance.WithArchivedBy(archivedBy)
	}
	temporal, err := temporalVersioningFromItem(item)
	if err != nil {
		return schema.OntologyMetadata{}, appErrors.NewInternalError("parse temporal versioning").WithCause(err)
	}
	return schema.OntologyMetadata{
		RecordID: recordID, Custom: item.Custom, Provenance: provenance, Temporal: temporal,
	}, nil
}

// ResolveFilter implements ports.OntologyStore. It queries every live base
// url for kind via the latest-version GSI, then evaluates filter in process;
// the store never inspects filter internals.
func (s *Store) ResolveFilter(ctx context.Context, kind ports.TypeKind, filter ports.Filter, axis valueobjects.TimeAxis) ([]ports.FilterMatch, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(kindGSI1PK(kind)))
	proj := expression.NamesList(
		expression.Name("BaseURL"),
		expression.Name("Version"),
		expression.Name("Archived"),
	)
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return nil, appErrors.NewInternalError("building latest-pointer query expression: " + err.Error())
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		IndexName:                 aws.String(s.latestIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("query latest pointers by kind", err)
	}

	matches := make([]ports.FilterMatch, 0, len(out.Items))
	for _, rawItem := range out.Items {
		var pointer latestPointerItem
		if err := attributevalue.UnmarshalMap(rawItem, &pointer); err != nil {
			s.logger.Warn("failed to unmarshal latest pointer during filter scan", zap.Error(err))
			continue
		}
		if pointer.Archived {
			continue
		}
		base, err := valueobjects.NewBaseURL(pointer.BaseURL)
		if err != nil {
			continue
		}
		versionedURL, err := valueobjects.NewVersionedURL(base, pointer.Version)
		if err != nil {
			continue
		}
		if !filter.Matches(versionedURL) {
			continue
		}

		versionOut, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: typePK(kind, pointer.BaseURL)},
				"SK": &types.AttributeValueMemberS{Value: versionSK(pointer.Version)},
			},
		})
		if err != nil || versionOut.Item == nil {
			continue
		}
		var item typeItem
		if err := attributevalue.UnmarshalMap(versionOut.Item, &item); err != nil {
			continue
		}
		timestamp, err := timestampForAxis(item, axis)
		if err != nil {
			continue
		}
		matches = append(matches, ports.FilterMatch{
			OntologyID: valueobjects.OntologyID(pointer.OntologyID),
			Endpoint:   valueobjects.NewVertexID(base, timestamp),
		})
	}
	return matches, nil
}

// timestampForAxis picks the instant a version row became visible on axis:
// TxnTimeStart for transaction time, DecisionStart for decision time.
func timestampForAxis(item typeItem, axis valueobjects.TimeAxis) (time.Time, error) {
	if axis == valueobjects.DecisionTime {
		return parseTime(item.DecisionStart)
	}
	return parseTime(item.TxnTimeStart)
}

// txnNow returns the current instant used to stamp a newly written version
// row's temporal axes.
func txnNow() time.Time {
	return time.Now().UTC()
}

// DeleteAll implements ports.OntologyStore; test-only full wipe.
func (s *Store) DeleteAll(ctx context.Context) error {
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return appErrors.NewDatabaseError("scan for delete all", err)
		}
		for _, rawItem := range out.Items {
			pk, sk := rawItem["PK"], rawItem["SK"]
			if pk == nil || sk == nil {
				continue
			}
			if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(s.tableName),
				Key:       map[string]types.AttributeValue{"PK": pk, "SK": sk},
			}); err != nil {
				return appErrors.NewDatabaseError("delete item during delete all", err)
			}
		}
		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}
	return nil
}

func reverseOntologyIDPointer(tableName string, kind ports.TypeKind, baseURL string, version uint32, id valueobjects.OntologyID) (types.TransactWriteItem, error) {
	item := ontologyIDPointerItem{
		PK: ontologyIDPointerPK(id), SK: ontologyIDPointerSK,
		Kind: string(kind), BaseURL: baseURL, Version: version,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return types.TransactWriteItem{}, appErrors.NewInternalError("marshal ontology id pointer").WithCause(err)
	}
	return types.TransactWriteItem{Put: &types.Put{TableName: aws.String(tableName), Item: av}}, nil
}

func chunkTransactItems(items []types.TransactWriteItem, size int) [][]types.TransactWriteItem {
	if len(items) == 0 {
		return nil
	}
	var chunks [][]types.TransactWriteItem
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
