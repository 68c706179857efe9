package persistence

import (
	"context"
	"time"

	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	sharedPersistence "github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOverrideRepository implements domain.Repository using PostgreSQL.
type PostgresOverrideRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOverrideRepository creates a new PostgreSQL override repository.
func NewPostgresOverrideRepository(pool *pgxpool.Pool) *PostgresOverrideRepository {
	return &PostgresOverrideRepository{pool: pool}
}

func (r *PostgresOverrideRepository) Exists(ctx context.Context, subscriptionID uuid.UUID, date domain.Date) (bool, error) {
	var exists bool
	err := sharedPersistence.PgConn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM delivery_overrides
			WHERE subscription_id = $1 AND delivery_date = $2
		)`, subscriptionID, date.Time()).Scan(&exists)
	if err != nil {
		return false, sharedDomain.Wrap(sharedDomain.KindPersistence, "check override", err)
	}
	return exists, nil
}

func (r *PostgresOverrideRepository) Add(ctx context.Context, o domain.Override) error {
	_, err := sharedPersistence.PgConn(ctx, r.pool).Exec(ctx, `
		INSERT INTO delivery_overrides (subscription_id, delivery_date, created_at)
		VALUES ($1, $2, $3)`,
		o.SubscriptionID, o.Date.Time(), o.CreatedAt)
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "add override", err)
}

func (r *PostgresOverrideRepository) Remove(ctx context.Context, subscriptionID uuid.UUID, date domain.Date) error {
	_, err := sharedPersistence.PgConn(ctx, r.pool).Exec(ctx, `
		DELETE FROM delivery_overrides WHERE subscription_id = $1 AND delivery_date = $2`,
		subscriptionID, date.Time())
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "remove override", err)
}

func (r *PostgresOverrideRepository) ListBetween(ctx context.Context, subscriptionID uuid.UUID, from, to domain.Date) ([]domain.Date, error) {
	const op = "list overrides"
	rows, err := sharedPersistence.PgConn(ctx, r.pool).Query(ctx, `
		SELECT delivery_date FROM delivery_overrides
		WHERE subscription_id = $1 AND delivery_date BETWEEN $2 AND $3
		ORDER BY delivery_date`,
		subscriptionID, from.Time(), to.Time())
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	defer rows.Close()

	var dates []domain.Date
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
		}
		dates = append(dates, domain.DateOf(t))
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	return dates, nil
}

var _ domain.Repository = (*PostgresOverrideRepository)(nil)
