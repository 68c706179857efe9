package persistence

import (
	"context"
	"database/sql"

	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	sharedPersistence "github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteOverrideRepository implements domain.Repository using SQLite.
// Dates are stored as YYYY-MM-DD text, which sorts chronologically.
type SQLiteOverrideRepository struct {
	db *sql.DB
}

// NewSQLiteOverrideRepository creates a new SQLite override repository.
func NewSQLiteOverrideRepository(db *sql.DB) *SQLiteOverrideRepository {
	return &SQLiteOverrideRepository{db: db}
}

func (r *SQLiteOverrideRepository) Exists(ctx context.Context, subscriptionID uuid.UUID, date domain.Date) (bool, error) {
	var exists int
	err := sharedPersistence.SQLiteConn(ctx, r.db).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM delivery_overrides
			WHERE subscription_id = ? AND delivery_date = ?
		)`, subscriptionID.String(), date.String()).Scan(&exists)
	if err != nil {
		return false, sharedDomain.Wrap(sharedDomain.KindPersistence, "check override", err)
	}
	return exists == 1, nil
}

func (r *SQLiteOverrideRepository) Add(ctx context.Context, o domain.Override) error {
	_, err := sharedPersistence.SQLiteConn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO delivery_overrides (subscription_id, delivery_date, created_at)
		VALUES (?, ?, ?)`,
		o.SubscriptionID.String(), o.Date.String(), sharedPersistence.FormatTime(o.CreatedAt))
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "add override", err)
}

func (r *SQLiteOverrideRepository) Remove(ctx context.Context, subscriptionID uuid.UUID, date domain.Date) error {
	_, err := sharedPersistence.SQLiteConn(ctx, r.db).ExecContext(ctx, `
		DELETE FROM delivery_overrides WHERE subscription_id = ? AND delivery_date = ?`,
		subscriptionID.String(), date.String())
	return sharedDomain.Wrap(sharedDomain.KindPersistence, "remove override", err)
}

func (r *SQLiteOverrideRepository) ListBetween(ctx context.Context, subscriptionID uuid.UUID, from, to domain.Date) ([]domain.Date, error) {
	const op = "list overrides"
	rows, err := sharedPersistence.SQLiteConn(ctx, r.db).QueryContext(ctx, `
		SELECT delivery_date FROM delivery_overrides
		WHERE subscription_id = ? AND delivery_date BETWEEN ? AND ?
		ORDER BY delivery_date`,
		subscriptionID.String(), from.String(), to.String())
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	defer rows.Close()

	var dates []domain.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
		}
		d, err := domain.ParseDate(raw)
		if err != nil {
			return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	return dates, nil
}

var _ domain.Repository = (*SQLiteOverrideRepository)(nil)
