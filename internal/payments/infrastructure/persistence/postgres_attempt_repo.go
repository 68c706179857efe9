package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/database"
	sharedPersistence "github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSelectAttempt = `
	SELECT id, subscription_id, subscriber_id, amount, currency, provider,
	       provider_reference, client_secret, status, failure_reason, retry_of,
	       draft, created_at, updated_at, completed_at
	FROM payment_attempts`

// PostgresAttemptRepository implements domain.Repository using PostgreSQL.
type PostgresAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAttemptRepository creates a new PostgreSQL attempt repository.
func NewPostgresAttemptRepository(pool *pgxpool.Pool) *PostgresAttemptRepository {
	return &PostgresAttemptRepository{pool: pool}
}

// Save inserts or updates an attempt.
func (r *PostgresAttemptRepository) Save(ctx context.Context, attempt *domain.Attempt) error {
	s := attempt.Snapshot()
	draft, err := json.Marshal(s.Draft)
	if err != nil {
		return sharedDomain.Wrap(sharedDomain.KindPersistence, "save attempt", err)
	}

	_, err = sharedPersistence.PgConn(ctx, r.pool).Exec(ctx, `
		INSERT INTO payment_attempts (
			id, subscription_id, subscriber_id, amount, currency, provider,
			provider_reference, client_secret, status, failure_reason, retry_of,
			draft, created_at, updated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			provider = EXCLUDED.provider,
			provider_reference = EXCLUDED.provider_reference,
			client_secret = EXCLUDED.client_secret,
			status = EXCLUDED.status,
			failure_reason = EXCLUDED.failure_reason,
			updated_at = EXCLUDED.updated_at,
			completed_at = EXCLUDED.completed_at`,
		s.ID,
		s.SubscriptionID,
		s.SubscriberID,
		s.Amount.Amount,
		s.Amount.Currency,
		string(s.Provider),
		s.ProviderReference,
		s.ClientSecret,
		string(s.Status),
		string(s.FailureReason),
		s.RetryOf,
		draft,
		s.CreatedAt,
		s.UpdatedAt,
		s.CompletedAt,
	)
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "save attempt", err)
}

// FindByID loads an attempt.
func (r *PostgresAttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error) {
	row := sharedPersistence.PgConn(ctx, r.pool).QueryRow(ctx, pgSelectAttempt+` WHERE id = $1`, id)
	attempt, err := scanPgAttempt(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.Errorf(sharedDomain.KindNotFound, "find attempt", "attempt %s not found", id)
	}
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, "find attempt", err)
	}
	return attempt, nil
}

// ListBySubscriber returns a subscriber's attempts, newest first.
func (r *PostgresAttemptRepository) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]*domain.Attempt, error) {
	return r.query(ctx, "list attempts", pgSelectAttempt+`
		WHERE subscriber_id = $1
		ORDER BY created_at DESC, id`, subscriberID)
}

// ListBySubscription returns a subscription's attempts, oldest first.
func (r *PostgresAttemptRepository) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*domain.Attempt, error) {
	return r.query(ctx, "list attempts", pgSelectAttempt+`
		WHERE subscription_id = $1
		ORDER BY created_at, id`, subscriptionID)
}

// ListStale returns created or pending attempts idle since before.
func (r *PostgresAttemptRepository) ListStale(ctx context.Context, before time.Time, limit int) ([]*domain.Attempt, error) {
	return r.query(ctx, "list stale attempts", pgSelectAttempt+`
		WHERE status IN ('created', 'pending') AND updated_at < $1
		ORDER BY updated_at
		LIMIT $2`, before, limit)
}

// ExistsWithStatus reports whether the subscription has an attempt in any of
// the statuses.
func (r *PostgresAttemptRepository) ExistsWithStatus(ctx context.Context, subscriptionID uuid.UUID, statuses ...domain.AttemptStatus) (bool, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	var exists bool
	err := sharedPersistence.PgConn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM payment_attempts
			WHERE subscription_id = $1 AND status = ANY($2)
		)`, subscriptionID, names).Scan(&exists)
	if err != nil {
		return false, sharedDomain.Wrap(sharedDomain.KindPersistence, "check attempts", err)
	}
	return exists, nil
}

func (r *PostgresAttemptRepository) query(ctx context.Context, op, sql string, args ...any) ([]*domain.Attempt, error) {
	rows, err := sharedPersistence.PgConn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	defer rows.Close()

	var attempts []*domain.Attempt
	for rows.Next() {
		a, err := scanPgAttempt(rows)
		if err != nil {
			return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	return attempts, nil
}

func scanPgAttempt(row pgx.Row) (*domain.Attempt, error) {
	var (
		s        domain.AttemptSnapshot
		amount   int64
		currency string
		provider string
		status   string
		reason   string
		draft    []byte
	)
	err := row.Scan(
		&s.ID,
		&s.SubscriptionID,
		&s.SubscriberID,
		&amount,
		&currency,
		&provider,
		&s.ProviderReference,
		&s.ClientSecret,
		&status,
		&reason,
		&s.RetryOf,
		&draft,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(draft, &s.Draft); err != nil {
		return nil, err
	}
	s.Amount = pricingDomain.Money{Amount: amount, Currency: currency}
	s.Provider = domain.ProviderKind(provider)
	s.Status = domain.AttemptStatus(status)
	s.FailureReason = domain.FailureReason(reason)
	return domain.RehydrateAttempt(s), nil
}

var _ domain.Repository = (*PostgresAttemptRepository)(nil)
