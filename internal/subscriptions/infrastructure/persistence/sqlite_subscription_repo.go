package persistence

import (
	"context"
	"database/sql"
	"encoding/json"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/database"
	sharedPersistence "github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
	"github.com/google/uuid"
)

const sqliteSelectSubscription = `
	SELECT id, subscriber_id, selection, frequency, total_amount, currency,
	       is_paused, paused_from, paused_until, payment_state, activated_at,
	       created_at, updated_at
	FROM subscriptions`

// SQLiteSubscriptionRepository implements domain.Repository using SQLite.
type SQLiteSubscriptionRepository struct {
	db *sql.DB
}

// NewSQLiteSubscriptionRepository creates a new SQLite subscription repository.
func NewSQLiteSubscriptionRepository(db *sql.DB) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{db: db}
}

// Save inserts or updates a subscription. The selection, frequency and total
// are frozen at creation and never updated.
func (r *SQLiteSubscriptionRepository) Save(ctx context.Context, s *domain.Subscription) error {
	snap := s.Snapshot()
	selection, err := json.Marshal(snap.Selection)
	if err != nil {
		return sharedDomain.Wrap(sharedDomain.KindPersistence, "save subscription", err)
	}

	paused := 0
	if snap.IsPaused {
		paused = 1
	}
	_, err = sharedPersistence.SQLiteConn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO subscriptions (
			id, subscriber_id, selection, frequency, total_amount, currency,
			is_paused, paused_from, paused_until, payment_state, activated_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			is_paused = excluded.is_paused,
			paused_from = excluded.paused_from,
			paused_until = excluded.paused_until,
			payment_state = excluded.payment_state,
			activated_at = excluded.activated_at,
			updated_at = excluded.updated_at`,
		snap.ID.String(),
		snap.SubscriberID.String(),
		string(selection),
		string(snap.Frequency),
		snap.Total.Amount,
		snap.Total.Currency,
		paused,
		sharedPersistence.FormatNullTime(snap.PausedFrom),
		sharedPersistence.FormatNullTime(snap.PausedUntil),
		string(snap.PaymentState),
		sharedPersistence.FormatNullTime(snap.ActivatedAt),
		sharedPersistence.FormatTime(snap.CreatedAt),
		sharedPersistence.FormatTime(snap.UpdatedAt),
	)
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "save subscription", err)
}

// FindByID loads a subscription.
func (r *SQLiteSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	row := sharedPersistence.SQLiteConn(ctx, r.db).QueryRowContext(ctx, sqliteSelectSubscription+` WHERE id = ?`, id.String())
	s, err := scanSQLiteSubscription(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.Errorf(sharedDomain.KindNotFound, "find subscription", "subscription %s not found", id)
	}
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, "find subscription", err)
	}
	return s, nil
}

// ListBySubscriber returns a subscriber's subscriptions, oldest first.
func (r *SQLiteSubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]*domain.Subscription, error) {
	const op = "list subscriptions"
	rows, err := sharedPersistence.SQLiteConn(ctx, r.db).QueryContext(ctx, sqliteSelectSubscription+`
		WHERE subscriber_id = ?
		ORDER BY created_at, rowid`, subscriberID.String())
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		s, err := scanSQLiteSubscription(rows)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteSubscription(row rowScanner) (*domain.Subscription, error) {
	var (
		id, subscriberID, selection, frequency string
		amount                                 int64
		currency                               string
		paused                                 int
		pausedFrom, pausedUntil, activatedAt   sql.NullString
		paymentState                           string
		createdAt, updatedAt                   string
	)
	err := row.Scan(
		&id,
		&subscriberID,
		&selection,
		&frequency,
		&amount,
		&currency,
		&paused,
		&pausedFrom,
		&pausedUntil,
		&paymentState,
		&activatedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	snap := domain.Snapshot{
		Frequency:    pricingDomain.Frequency(frequency),
		Total:        pricingDomain.Money{Amount: amount, Currency: currency},
		IsPaused:     paused != 0,
		PaymentState: domain.PaymentState(paymentState),
	}
	if snap.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if snap.SubscriberID, err = uuid.Parse(subscriberID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(selection), &snap.Selection); err != nil {
		return nil, err
	}
	if snap.PausedFrom, err = sharedPersistence.ParseNullTime(pausedFrom); err != nil {
		return nil, err
	}
	if snap.PausedUntil, err = sharedPersistence.ParseNullTime(pausedUntil); err != nil {
		return nil, err
	}
	if snap.ActivatedAt, err = sharedPersistence.ParseNullTime(activatedAt); err != nil {
		return nil, err
	}
	if snap.CreatedAt, err = sharedPersistence.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if snap.UpdatedAt, err = sharedPersistence.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return domain.Rehydrate(snap), nil
}

var _ domain.Repository = (*SQLiteSubscriptionRepository)(nil)
