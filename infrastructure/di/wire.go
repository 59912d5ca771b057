package di

import (
	"context"

	"ontology-resolver/application/commands/bus"
	"ontology-resolver/application/ports"
	querybus "ontology-resolver/application/queries/bus"
	"ontology-resolver/application/referenceinserter"
	"ontology-resolver/application/resolver"
	"ontology-resolver/infrastructure/config"
	"ontology-resolver/infrastructure/persistence/dynamodb"
	"ontology-resolver/pkg/auth"
	"ontology-resolver/pkg/extensions"
	"ontology-resolver/pkg/observability"

	"go.uber.org/zap"
)

// Container holds every wired application dependency. Fields are exported
// so cmd/api and cmd/lambda can reach into it without the DI package having
// to know anything about HTTP routing.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Store            *dynamodb.Store
	EdgeReader       *dynamodb.EdgeReader
	VertexReader     *dynamodb.VertexReader
	Resolver         *resolver.Resolver
	ReferenceInserter *referenceinserter.Inserter

	EventBus        ports.EventBus
	EventPublisher  ports.EventPublisher
	EventStore      *dynamodb.DynamoDBEventStore
	OutboxProcessor *dynamodb.OutboxProcessor
	UnitOfWork      ports.UnitOfWork

	Hooks        *extensions.HookManager
	Authorization ports.AuthorizationClient

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus

	Cache       ports.Cache
	Metrics     *observability.Metrics
	RateLimiter *auth.DistributedRateLimiter
	Lock        *dynamodb.DistributedLock
}

// InitializeContainer wires every dependency by hand, in dependency order.
// This plays the role a generated wire_gen.go would play in a repo that
// actually ran the wire codegen step; there is no codegen step here, so the
// wiring is spelled out explicitly instead.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dynamoClient := ProvideDynamoDBClient(awsCfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg)
	cloudWatchClient := ProvideCloudWatchClient(awsCfg)

	store := ProvideStore(dynamoClient, cfg, logger)
	edgeReader := ProvideEdgeReader(dynamoClient, cfg, logger)
	vertexReader := ProvideVertexReader(dynamoClient, cfg, logger)
	res := ProvideResolver(store, edgeReader, vertexReader, logger)
	inserter := ProvideReferenceInserter(store, logger)

	eventBus := ProvideEventBus(eventBridgeClient, cfg, logger)
	eventPublisher := ProvideEventPublisher(eventBus)
	eventStore := ProvideEventStore(dynamoClient, cfg)
	outboxProcessor := ProvideOutboxProcessor(eventStore, eventPublisher, logger)

	hooks := ProvideHookManager()
	authz := ProvideAuthorizationClient(hooks, logger)
	uow := ProvideUnitOfWork(store, eventPublisher, authz, logger)

	metrics := ProvideMetrics(cloudWatchClient, cfg)
	commandBus := ProvideCommandBus(uow, metrics, logger)
	queryBus := ProvideQueryBus(res, logger)

	cache := ProvideInMemoryCache()
	rateLimiter := ProvideDistributedRateLimiter(dynamoClient, cfg)
	lock := ProvideDistributedLock(dynamoClient, cfg, logger)

	return &Container{
		Config: cfg,
		Logger: logger,

		Store:             store,
		EdgeReader:        edgeReader,
		VertexReader:      vertexReader,
		Resolver:          res,
		ReferenceInserter: inserter,

		EventBus:        eventBus,
		EventPublisher:  eventPublisher,
		EventStore:      eventStore,
		OutboxProcessor: outboxProcessor,
		UnitOfWork:      uow,

		Hooks:         hooks,
		Authorization: authz,

		CommandBus: commandBus,
		QueryBus:   queryBus,

		Cache:       cache,
		Metrics:     metrics,
		RateLimiter: rateLimiter,
		Lock:        lock,
	}, nil
}
