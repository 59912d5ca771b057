package di

import (
	"context"
	"fmt"
	"time"

	"ontology-resolver/application/commands"
	"ontology-resolver/application/commands/bus"
	"ontology-resolver/application/ports"
	"ontology-resolver/application/queries"
	querybus "ontology-resolver/application/queries/bus"
	"ontology-resolver/application/referenceinserter"
	"ontology-resolver/application/resolver"
	"ontology-resolver/infrastructure/authorization"
	"ontology-resolver/infrastructure/config"
	"ontology-resolver/infrastructure/messaging/eventbridge"
	"ontology-resolver/infrastructure/persistence/dynamodb"
	"ontology-resolver/pkg/auth"
	"ontology-resolver/pkg/extensions"
	"ontology-resolver/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideStore creates the DynamoDB-backed ontology store.
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.Store {
	return dynamodb.NewStore(client, cfg.DynamoDBTable, cfg.LatestIndexName, logger)
}

// ProvideEdgeReader creates the reference-row edge reader.
func ProvideEdgeReader(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.EdgeReader {
	return dynamodb.NewEdgeReader(client, cfg.DynamoDBTable, cfg.ReferenceKindIndexName, logger)
}

// ProvideVertexReader creates the vertex materializer.
func ProvideVertexReader(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.VertexReader {
	return dynamodb.NewVertexReader(client, cfg.DynamoDBTable, logger)
}

// ProvideResolver creates the structural query resolver.
func ProvideResolver(store *dynamodb.Store, edgeReader *dynamodb.EdgeReader, vertexReader *dynamodb.VertexReader, logger *zap.Logger) *resolver.Resolver {
	return resolver.New(store, edgeReader, vertexReader, logger)
}

// ProvideReferenceInserter creates the reference-row writer shared by the
// create and update command handlers.
func ProvideReferenceInserter(store *dynamodb.Store, logger *zap.Logger) *referenceinserter.Inserter {
	return referenceinserter.New(store, logger)
}

// ProvideEventBus creates the EventBridge-backed event bus. It satisfies
// both ports.EventBus and ports.EventPublisher, so no adapter wrapper is
// needed between the two.
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideEventPublisher narrows the event bus to the publisher surface the
// unit of work and outbox processor need.
func ProvideEventPublisher(eventBus ports.EventBus) ports.EventPublisher {
	return eventBus
}

// ProvideHookManager creates the extension registry's hook manager, the
// home of the reserved authorization hook (and any other before/after
// lifecycle hook a deployment wants to register).
func ProvideHookManager() *extensions.HookManager {
	return extensions.NewHookManager()
}

// ProvideAuthorizationClient creates the authorization client every
// mutating command commits through as its second transaction phase.
func ProvideAuthorizationClient(hooks *extensions.HookManager, logger *zap.Logger) ports.AuthorizationClient {
	return authorization.NewHookClient(hooks, logger)
}

// ProvideUnitOfWork creates the unit of work wrapping Store with deferred
// event publication and the authorization hook as its second commit phase.
func ProvideUnitOfWork(store *dynamodb.Store, publisher ports.EventPublisher, authz ports.AuthorizationClient, logger *zap.Logger) ports.UnitOfWork {
	return dynamodb.NewUnitOfWorkWithAuthorization(store, publisher, authz, logger)
}

// ProvideEventStore creates the outbox event store.
func ProvideEventStore(client *awsdynamodb.Client, cfg *config.Config) *dynamodb.DynamoDBEventStore {
	return dynamodb.NewDynamoDBEventStore(client, cfg.DynamoDBTable)
}

// ProvideOutboxProcessor creates the background outbox-delivery worker.
func ProvideOutboxProcessor(eventStore *dynamodb.DynamoDBEventStore, publisher ports.EventPublisher, logger *zap.Logger) *dynamodb.OutboxProcessor {
	return dynamodb.NewOutboxProcessor(eventStore, publisher, logger)
}

// ProvideMetrics creates the CloudWatch metrics recorder.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("OntologyResolver/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideDistributedRateLimiter creates a distributed rate limiter
func ProvideDistributedRateLimiter(client *awsdynamodb.Client, cfg *config.Config) *auth.DistributedRateLimiter {
	return auth.NewDistributedRateLimiter(
		client,
		cfg.DynamoDBTable,
		100,           // 100 requests
		1*time.Minute, // per minute
		"API",         // key prefix for API rate limiting
	)
}

// ProvideDistributedLock creates a distributed lock instance
func ProvideDistributedLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.DistributedLock {
	return dynamodb.NewDistributedLock(client, cfg.DynamoDBTable, logger)
}

// CommandHandlerAdapter adapts one of the concrete, strongly-typed command
// handlers (which return their own result type alongside error) to the
// generic bus.CommandHandler interface.
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) (interface{}, error)
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with every ontology command
// handler registered.
func ProvideCommandBus(
	uow ports.UnitOfWork,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBusWithDependencies(uow, metrics)

	createEntityTypes := commands.NewCreateEntityTypesHandler(uow, logger)
	commandBus.Register(commands.CreateEntityTypesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.CreateEntityTypesCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return createEntityTypes.Handle(ctx, c)
		},
	})

	createPropertyTypes := commands.NewCreatePropertyTypesHandler(uow, logger)
	commandBus.Register(commands.CreatePropertyTypesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.CreatePropertyTypesCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return createPropertyTypes.Handle(ctx, c)
		},
	})

	updateEntityType := commands.NewUpdateEntityTypeHandler(uow, logger)
	commandBus.Register(commands.UpdateEntityTypeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.UpdateEntityTypeCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return updateEntityType.Handle(ctx, c)
		},
	})

	updatePropertyType := commands.NewUpdatePropertyTypeHandler(uow, logger)
	commandBus.Register(commands.UpdatePropertyTypeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.UpdatePropertyTypeCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return updatePropertyType.Handle(ctx, c)
		},
	})

	archiveHandler := commands.NewArchiveTypeHandler(uow, logger)
	commandBus.Register(commands.ArchiveTypeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.ArchiveTypeCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return archiveHandler.HandleArchive(ctx, c)
		},
	})
	commandBus.Register(commands.UnarchiveTypeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.UnarchiveTypeCommand)
			if !ok {
				return nil, fmt.Errorf("invalid command type")
			}
			return archiveHandler.HandleUnarchive(ctx, c)
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts a specific query handler to the generic
// interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with the entity-type/property-type
// resolve query registered.
func ProvideQueryBus(res *resolver.Resolver, logger *zap.Logger) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	getEntityType := queries.NewGetEntityTypeHandler(res, logger)
	queryBus.Register(queries.GetEntityTypeQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetEntityTypeQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getEntityType.Handle(ctx, q)
		},
	})

	return queryBus
}

// ProvideInMemoryCache creates a simple in-memory cache
// In production, this would be Redis or similar
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// zapLoggerAdapter adapts zap.Logger to the bus.Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Debug(msg string, fields ...interface{}) {
	a.logger.Debug(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, _ := fields[i].(string)
			zapFields = append(zapFields, zap.Any(key, fields[i+1]))
		}
	}
	return zapFields
}
