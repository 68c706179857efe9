// Package app wires the DailyEase services from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	"github.com/Animesh0711/DailyEase/internal/catalog/infrastructure/seed"
	deliveryApplication "github.com/Animesh0711/DailyEase/internal/delivery/application"
	deliveryDomain "github.com/Animesh0711/DailyEase/internal/delivery/domain"
	paymentsApplication "github.com/Animesh0711/DailyEase/internal/payments/application"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	"github.com/Animesh0711/DailyEase/internal/payments/infrastructure/gateway"
	sharedApplication "github.com/Animesh0711/DailyEase/internal/shared/application"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/convert"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/database"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/eventbus"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/lock"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/migrations"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	subscriptionsApplication "github.com/Animesh0711/DailyEase/internal/subscriptions/application"
	subscriptionsDomain "github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
	"github.com/Animesh0711/DailyEase/pkg/config"
	"github.com/Animesh0711/DailyEase/pkg/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  sharedDomain.Clock

	// Storage
	Driver      database.Driver
	SQLite      *sql.DB
	Pool        *pgxpool.Pool
	RedisClient *redis.Client

	// Repositories
	SubscriptionRepo subscriptionsDomain.Repository
	AttemptRepo      paymentsDomain.Repository
	OverrideRepo     deliveryDomain.Repository
	OutboxRepo       outbox.Repository
	UnitOfWork       sharedApplication.UnitOfWork
	Locker           lock.Locker

	// Catalog and gateways. A gateway is nil when its provider has no
	// credentials.
	Catalog         catalogDomain.Catalog
	CardGateway     *gateway.BreakerCard
	RedirectGateway *gateway.BreakerRedirect

	// Services
	Activator     *subscriptionsApplication.Activator
	Payments      *paymentsApplication.Orchestrator
	Subscriptions *subscriptionsApplication.Service
	Deliveries    *deliveryApplication.Ledger
	Sweeper       *paymentsApplication.Sweeper

	// Event relay, created on demand by the worker.
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	Health *observability.HealthRegistry
}

// NewContainer opens the configured store, applies migrations and wires every
// service. An empty DATABASE_URL selects SQLite at cfg.SQLitePath.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  sharedDomain.SystemClock{},
		Health: observability.NewHealthRegistry(),
	}

	factory, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.createRepositories(factory); err != nil {
		c.Close()
		return nil, err
	}

	providerOrder, err := providerOrderOf(cfg.PaymentProviderOrder)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Catalog = seed.NewCatalog()
	gateways := c.createGateways()

	c.Activator = subscriptionsApplication.NewActivator(c.SubscriptionRepo, c.OutboxRepo, logger)
	c.Payments = paymentsApplication.NewOrchestrator(
		c.AttemptRepo, c.OutboxRepo, c.UnitOfWork, c.Locker, c.Activator, gateways,
		paymentsApplication.Config{
			ProviderOrder:  providerOrder,
			ManualFallback: cfg.PaymentManualFallback,
			Currency:       cfg.PaymentCurrency,
		},
		c.Clock, logger,
	)
	c.Subscriptions = subscriptionsApplication.NewService(
		c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, c.Locker, c.Payments, c.Catalog, c.Clock, logger,
	)
	c.Deliveries = deliveryApplication.NewLedger(
		c.OverrideRepo, c.Subscriptions, c.Payments, c.OutboxRepo, c.UnitOfWork, c.Locker, c.Clock, logger,
	)
	c.Sweeper = paymentsApplication.NewSweeper(
		c.AttemptRepo, c.OutboxRepo, c.UnitOfWork, c.Locker,
		paymentsApplication.SweeperConfig{TTL: cfg.PaymentAttemptTTL},
		c.Clock, logger,
	)

	logger.Info("container initialized",
		"driver", c.Driver,
		"payment_provider", c.Payments.SelectProvider(),
		"distributed_lock", c.RedisClient != nil,
	)
	return c, nil
}

// openStore connects to the database and runs its migrations.
func (c *Container) openStore(ctx context.Context) (*RepositoryFactory, error) {
	cfg := c.Config
	c.Driver = database.DetectDriver(cfg.DatabaseURL)

	switch c.Driver {
	case database.DriverSQLite:
		path := cfg.SQLitePath
		if cfg.DatabaseURL != "" {
			path = database.SQLitePathFromURL(cfg.DatabaseURL)
		}
		db, err := database.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		if err := migrations.RunSQLite(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		c.SQLite = db
		c.Health.Register("database", observability.PingChecker("sqlite", observability.HealthStatusUnhealthy, db.PingContext))
		c.Logger.Info("using SQLite", "path", path)
		return NewSQLiteRepositoryFactory(db), nil

	default:
		maxConns, err := convert.IntToInt32(cfg.DatabaseMaxConns)
		if err != nil {
			return nil, fmt.Errorf("DATABASE_MAX_CONNS: %w", err)
		}
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL, maxConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migrations.RunPostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		c.Pool = pool
		c.Health.Register("database", observability.PingChecker("postgres", observability.HealthStatusUnhealthy, pool.Ping))
		c.Logger.Info("connected to database")
		return NewPostgresRepositoryFactory(pool), nil
	}
}

// connectRedis sets up the per-subscription lock. Without REDIS_URL the lock
// is process-local. In development an unreachable Redis falls back to it too.
func (c *Container) connectRedis(ctx context.Context) error {
	cfg := c.Config
	c.Locker = lock.NewKeyedLocker()
	if cfg.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, using in-process lock", "error", err)
		return nil
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, using in-process lock", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Locker = lock.NewRedisLocker(client, lock.RedisLockerConfig{
		TTL:  cfg.LockTTL,
		Wait: cfg.LockWaitTime,
	}, c.Logger)
	c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) createRepositories(factory *RepositoryFactory) error {
	var err error
	if c.SubscriptionRepo, err = factory.SubscriptionRepository(); err != nil {
		return fmt.Errorf("failed to create subscription repository: %w", err)
	}
	if c.AttemptRepo, err = factory.AttemptRepository(); err != nil {
		return fmt.Errorf("failed to create attempt repository: %w", err)
	}
	if c.OverrideRepo, err = factory.OverrideRepository(); err != nil {
		return fmt.Errorf("failed to create override repository: %w", err)
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return fmt.Errorf("failed to create outbox repository: %w", err)
	}
	if c.UnitOfWork, err = factory.UnitOfWork(); err != nil {
		return fmt.Errorf("failed to create unit of work: %w", err)
	}
	return nil
}

// createGateways wraps every configured provider in its circuit breaker.
func (c *Container) createGateways() paymentsApplication.Gateways {
	cfg := c.Config
	breaker := gateway.BreakerConfig{
		FailureThreshold: convert.IntToUint32Clamped(cfg.GatewayBreakerThreshold),
		Timeout:          cfg.GatewayBreakerTimeout,
	}

	var gateways paymentsApplication.Gateways
	if card := gateway.NewStripeGateway(gateway.StripeConfig{
		SecretKey: cfg.StripeSecretKey,
		Timeout:   cfg.GatewayTimeout,
	}, c.Logger); card != nil {
		c.CardGateway = gateway.NewBreakerCard(card, breaker, c.Logger)
		gateways.Card = c.CardGateway
	}
	if redirect := gateway.NewRazorpayGateway(gateway.RazorpayConfig{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
	}, c.Logger); redirect != nil {
		c.RedirectGateway = gateway.NewBreakerRedirect(redirect, breaker, c.Logger)
		gateways.Redirect = c.RedirectGateway
	}
	return gateways
}

func providerOrderOf(names []string) ([]paymentsDomain.ProviderKind, error) {
	order := make([]paymentsDomain.ProviderKind, 0, len(names))
	for _, name := range names {
		kind, err := paymentsDomain.ParseProviderKind(name)
		if err != nil {
			return nil, fmt.Errorf("PAYMENT_PROVIDER_ORDER: %w", err)
		}
		order = append(order, kind)
	}
	return order, nil
}

// SubscriberID is the identity the CLI acts as.
func (c *Container) SubscriberID() uuid.UUID {
	id, err := uuid.Parse(c.Config.SubscriberID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// StartEventRelay creates the outbox processor and its publisher. It
// publishes to RabbitMQ when RABBITMQ_URL is reachable and otherwise to an
// in-process bus that logs every event.
func (c *Container) StartEventRelay(ctx context.Context) *outbox.Processor {
	cfg := c.Config
	if c.EventPublisher == nil {
		c.EventPublisher = c.newPublisher()
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
		RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
	}, c.Logger)
	c.OutboxProcessor.Start(ctx)
	return c.OutboxProcessor
}

func (c *Container) newPublisher() eventbus.Publisher {
	if url := c.Config.RabbitMQURL; url != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(url, c.Logger)
		if err == nil {
			c.Health.Register("broker", observability.PingChecker("rabbitmq", observability.HealthStatusDegraded, publisher.Ping))
			return publisher
		}
		c.Logger.Warn("RabbitMQ not available, using in-process bus", "error", err)
	}
	bus := eventbus.NewInProcessBus(c.Logger)
	bus.Subscribe(eventbus.NewLogHandler(c.Logger))
	return bus
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.Pool != nil {
		c.Pool.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}
