package app

import (
	"database/sql"
	"fmt"

	deliveryDomain "github.com/Animesh0711/DailyEase/internal/delivery/domain"
	deliveryPersistence "github.com/Animesh0711/DailyEase/internal/delivery/infrastructure/persistence"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	paymentsPersistence "github.com/Animesh0711/DailyEase/internal/payments/infrastructure/persistence"
	sharedApplication "github.com/Animesh0711/DailyEase/internal/shared/application"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/database"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	subscriptionsDomain "github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
	subscriptionsPersistence "github.com/Animesh0711/DailyEase/internal/subscriptions/infrastructure/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryFactory creates repositories for the configured driver.
type RepositoryFactory struct {
	driver database.Driver
	db     *sql.DB
	pool   *pgxpool.Pool
}

// NewSQLiteRepositoryFactory creates a factory over a SQLite handle.
func NewSQLiteRepositoryFactory(db *sql.DB) *RepositoryFactory {
	return &RepositoryFactory{driver: database.DriverSQLite, db: db}
}

// NewPostgresRepositoryFactory creates a factory over a pgx pool.
func NewPostgresRepositoryFactory(pool *pgxpool.Pool) *RepositoryFactory {
	return &RepositoryFactory{driver: database.DriverPostgres, pool: pool}
}

// Driver returns the backend the factory builds for.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// SubscriptionRepository creates a subscription repository for the configured driver.
func (f *RepositoryFactory) SubscriptionRepository() (subscriptionsDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return subscriptionsPersistence.NewPostgresSubscriptionRepository(f.pool), nil
	case database.DriverSQLite:
		return subscriptionsPersistence.NewSQLiteSubscriptionRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// AttemptRepository creates a payment attempt repository for the configured driver.
func (f *RepositoryFactory) AttemptRepository() (paymentsDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return paymentsPersistence.NewPostgresAttemptRepository(f.pool), nil
	case database.DriverSQLite:
		return paymentsPersistence.NewSQLiteAttemptRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OverrideRepository creates a delivery override repository for the configured driver.
func (f *RepositoryFactory) OverrideRepository() (deliveryDomain.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return deliveryPersistence.NewPostgresOverrideRepository(f.pool), nil
	case database.DriverSQLite:
		return deliveryPersistence.NewSQLiteOverrideRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return outbox.NewPostgresRepository(f.pool), nil
	case database.DriverSQLite:
		return outbox.NewSQLiteRepository(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// UnitOfWork creates the transaction boundary for the configured driver.
func (f *RepositoryFactory) UnitOfWork() (sharedApplication.UnitOfWork, error) {
	switch f.driver {
	case database.DriverPostgres:
		return sharedPersistence.NewPostgresUnitOfWork(f.pool), nil
	case database.DriverSQLite:
		return sharedPersistence.NewSQLiteUnitOfWork(f.db), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}
