package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/database"
	sharedPersistence "github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

const sqliteSelectAttempt = `
	SELECT id, subscription_id, subscriber_id, amount, currency, provider,
	       provider_reference, client_secret, status, failure_reason, retry_of,
	       draft, created_at, updated_at, completed_at
	FROM payment_attempts`

// SQLiteAttemptRepository implements domain.Repository using SQLite.
type SQLiteAttemptRepository struct {
	db *sql.DB
}

// NewSQLiteAttemptRepository creates a new SQLite attempt repository.
func NewSQLiteAttemptRepository(db *sql.DB) *SQLiteAttemptRepository {
	return &SQLiteAttemptRepository{db: db}
}

// Save inserts or updates an attempt.
func (r *SQLiteAttemptRepository) Save(ctx context.Context, attempt *domain.Attempt) error {
	s := attempt.Snapshot()
	draft, err := json.Marshal(s.Draft)
	if err != nil {
		return sharedDomain.Wrap(sharedDomain.KindPersistence, "save attempt", err)
	}

	var retryOf sql.NullString
	if s.RetryOf != nil {
		retryOf = sql.NullString{String: s.RetryOf.String(), Valid: true}
	}

	_, err = sharedPersistence.SQLiteConn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO payment_attempts (
			id, subscription_id, subscriber_id, amount, currency, provider,
			provider_reference, client_secret, status, failure_reason, retry_of,
			draft, created_at, updated_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			provider = excluded.provider,
			provider_reference = excluded.provider_reference,
			client_secret = excluded.client_secret,
			status = excluded.status,
			failure_reason = excluded.failure_reason,
			updated_at = excluded.updated_at,
			completed_at = excluded.completed_at`,
		s.ID.String(),
		s.SubscriptionID.String(),
		s.SubscriberID.String(),
		s.Amount.Amount,
		s.Amount.Currency,
		string(s.Provider),
		s.ProviderReference,
		s.ClientSecret,
		string(s.Status),
		string(s.FailureReason),
		retryOf,
		string(draft),
		sharedPersistence.FormatTime(s.CreatedAt),
		sharedPersistence.FormatTime(s.UpdatedAt),
		sharedPersistence.FormatNullTime(s.CompletedAt),
	)
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "save attempt", err)
}

// FindByID loads an attempt.
func (r *SQLiteAttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error) {
	row := sharedPersistence.SQLiteConn(ctx, r.db).QueryRowContext(ctx, sqliteSelectAttempt+` WHERE id = ?`, id.String())
	attempt, err := scanSQLiteAttempt(row)
	if database.IsNoRows(err) {
		return nil, sharedDomain.Errorf(sharedDomain.KindNotFound, "find attempt", "attempt %s not found", id)
	}
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, "find attempt", err)
	}
	return attempt, nil
}

// ListBySubscriber returns a subscriber's attempts, newest first.
func (r *SQLiteAttemptRepository) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]*domain.Attempt, error) {
	return r.query(ctx, "list attempts", sqliteSelectAttempt+`
		WHERE subscriber_id = ?
		ORDER BY created_at DESC, rowid DESC`, subscriberID.String())
}

// ListBySubscription returns a subscription's attempts, oldest first.
func (r *SQLiteAttemptRepository) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*domain.Attempt, error) {
	return r.query(ctx, "list attempts", sqliteSelectAttempt+`
		WHERE subscription_id = ?
		ORDER BY created_at, rowid`, subscriptionID.String())
}

// ListStale returns created or pending attempts idle since before.
func (r *SQLiteAttemptRepository) ListStale(ctx context.Context, before time.Time, limit int) ([]*domain.Attempt, error) {
	return r.query(ctx, "list stale attempts", sqliteSelectAttempt+`
		WHERE status IN ('created', 'pending') AND updated_at < ?
		ORDER BY updated_at
		LIMIT ?`, sharedPersistence.FormatTime(before), limit)
}

// ExistsWithStatus reports whether the subscription has an attempt in any of
// the statuses.
func (r *SQLiteAttemptRepository) ExistsWithStatus(ctx context.Context, subscriptionID uuid.UUID, statuses ...domain.AttemptStatus) (bool, error) {
	if len(statuses) == 0 {
		return false, nil
	}
	args := make([]any, 0, len(statuses)+1)
	args = append(args, subscriptionID.String())
	for _, s := range statuses {
		args = append(args, string(s))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(statuses)), ", ")

	var exists int
	err := sharedPersistence.SQLiteConn(ctx, r.db).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM payment_attempts
			WHERE subscription_id = ? AND status IN (`+placeholders+`)
		)`, args...).Scan(&exists)
	if err != nil {
		return false, sharedDomain.Wrap(sharedDomain.KindPersistence, "check attempts", err)
	}
	return exists == 1, nil
}

func (r *SQLiteAttemptRepository) query(ctx context.Context, op, query string, args ...any) ([]*domain.Attempt, error) {
	rows, err := sharedPersistence.SQLiteConn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	defer rows.Close()

	var attempts []*domain.Attempt
	for rows.Next() {
		a, err := scanSQLiteAttempt(rows)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteAttempt(row rowScanner) (*domain.Attempt, error) {
	var (
		id, subscriptionID, subscriberID string
		amount                           int64
		currency, provider, reference    string
		clientSecret, status, reason     string
		retryOf                          sql.NullString
		draft                            string
		createdAt, updatedAt             string
		completedAt                      sql.NullString
	)
	err := row.Scan(
		&id,
		&subscriptionID,
		&subscriberID,
		&amount,
		&currency,
		&provider,
		&reference,
		&clientSecret,
		&status,
		&reason,
		&retryOf,
		&draft,
		&createdAt,
		&updatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	s := domain.AttemptSnapshot{
		Amount:            pricingDomain.Money{Amount: amount, Currency: currency},
		Provider:          domain.ProviderKind(provider),
		ProviderReference: reference,
		ClientSecret:      clientSecret,
		Status:            domain.AttemptStatus(status),
		FailureReason:     domain.FailureReason(reason),
	}
	if s.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if s.SubscriptionID, err = uuid.Parse(subscriptionID); err != nil {
		return nil, err
	}
	if s.SubscriberID, err = uuid.Parse(subscriberID); err != nil {
		return nil, err
	}
	if retryOf.Valid {
		prior, err := uuid.Parse(retryOf.String)
		if err != nil {
			return nil, err
		}
		s.RetryOf = &prior
	}
	if err := json.Unmarshal([]byte(draft), &s.Draft); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = sharedPersistence.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = sharedPersistence.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	if s.CompletedAt, err = sharedPersistence.ParseNullTime(completedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateAttempt(s), nil
}

var _ domain.Repository = (*SQLiteAttemptRepository)(nil)
