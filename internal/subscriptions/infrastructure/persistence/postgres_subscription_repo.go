package persistence

import (
	"context"
	"encoding/json"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/database"
	sharedPersistence "github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSelectSubscription = `
	SELECT id, subscriber_id, selection, frequency, total_amount, currency,
	       is_paused, paused_from, paused_until, payment_state, activated_at,
	       created_at, updated_at
	FROM subscriptions`

// PostgresSubscriptionRepository implements domain.Repository using PostgreSQL.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates a new PostgreSQL subscription repository.
func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Save inserts or updates a subscription.
func (r *PostgresSubscriptionRepository) Save(ctx context.Context, s *domain.Subscription) error {
	snap := s.Snapshot()
	selection, err := json.Marshal(snap.Selection)
	if err != nil {
		return sharedDomain.Wrap(sharedDomain.KindPersistence, "save subscription", err)
	}

	_, err = sharedPersistence.PgConn(ctx, r.pool).Exec(ctx, `
		INSERT INTO subscriptions (
			id, subscriber_id, selection, frequency, total_amount, currency,
			is_paused, paused_from, paused_until, payment_state, activated_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			is_paused = EXCLUDED.is_paused,
			paused_from = EXCLUDED.paused_from,
			paused_until = EXCLUDED.paused_until,
			payment_state = EXCLUDED.payment_state,
			activated_at = EXCLUDED.activated_at,
			updated_at = EXCLUDED.updated_at`,
		snap.ID,
		snap.SubscriberID,
		selection,
		string(snap.Frequency),
		snap.Total.Amount,
		snap.Total.Currency,
		snap.IsPaused,
		snap.PausedFrom,
		snap.PausedUntil,
		string(snap.PaymentState),
		snap.ActivatedAt,
		snap.CreatedAt,
		snap.UpdatedAt,
	)
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "save subscription", err)
}

// FindByID loads a subscription.
func (r *PostgresSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	row := sharedPersistence.PgConn(ctx, r.pool).QueryRow(ctx, pgSelectSubscription+` WHERE id = $1`, id)
	s, err := scanPgSubscription(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.Errorf(sharedDomain.KindNotFound, "find subscription", "subscription %s not found", id)
	}
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, "find subscription", err)
	}
	return s, nil
}

// ListBySubscriber returns a subscriber's subscriptions, oldest first.
func (r *PostgresSubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]*domain.Subscription, error) {
	const op = "list subscriptions"
	rows, err := sharedPersistence.PgConn(ctx, r.pool).Query(ctx, pgSelectSubscription+`
		WHERE subscriber_id = $1
		ORDER BY created_at, id`, subscriberID)
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		s, err := scanPgSubscription(rows)
		if err != nil {
			return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	return subs, nil
}

func scanPgSubscription(row pgx.Row) (*domain.Subscription, error) {
	var (
		snap         domain.Snapshot
		selection    []byte
		frequency    string
		amount       int64
		currency     string
		paymentState string
	)
	err := row.Scan(
		&snap.ID,
		&snap.SubscriberID,
		&selection,
		&frequency,
		&amount,
		&currency,
		&snap.IsPaused,
		&snap.PausedFrom,
		&snap.PausedUntil,
		&paymentState,
		&snap.ActivatedAt,
		&snap.CreatedAt,
		&snap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(selection, &snap.Selection); err != nil {
		return nil, err
	}
	snap.Frequency = pricingDomain.Frequency(frequency)
	snap.Total = pricingDomain.Money{Amount: amount, Currency: currency}
	snap.PaymentState = domain.PaymentState(paymentState)
	return domain.Rehydrate(snap), nil
}

var _ domain.Repository = (*PostgresSubscriptionRepository)(nil)
