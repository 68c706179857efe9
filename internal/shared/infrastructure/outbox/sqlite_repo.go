package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

const sqliteSelectOutbox = `
	SELECT id, event_id, aggregate_type, aggregate_id, routing_key,
	       payload, metadata, created_at, published_at, next_retry_at,
	       retry_count, last_error, dead_lettered_at, dead_letter_reason
	FROM outbox`

// SQLiteRepository stores the outbox in SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if _, ok := persistence.SQLiteTxFromContext(ctx); ok {
		return r.insertAll(ctx, persistence.SQLiteConn(ctx, r.db), msgs)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := r.insertAll(ctx, tx, msgs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) insertAll(ctx context.Context, exec persistence.SQLiteExecutor, msgs []*Message) error {
	for _, msg := range msgs {
		res, err := exec.ExecContext(ctx, `
			INSERT INTO outbox (
				event_id, aggregate_type, aggregate_id, routing_key, payload, metadata, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			msg.EventID.String(),
			msg.AggregateType,
			msg.AggregateID.String(),
			msg.RoutingKey,
			string(msg.Payload),
			sql.NullString{String: string(msg.Metadata), Valid: len(msg.Metadata) > 0},
			persistence.FormatTime(msg.CreatedAt),
		)
		if err != nil {
			return err
		}
		if msg.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelectOutbox+`
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at, id
		LIMIT ?`, persistence.FormatTime(r.now()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSQLiteMessages(rows)
}

func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`,
		persistence.FormatTime(r.now()), id)
	return err
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?`, errMsg, persistence.FormatTime(nextRetryAt), id)
	return err
}

func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1, dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?`, persistence.FormatTime(r.now()), reason, id)
	return err
}

func (r *SQLiteRepository) DeleteOld(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		persistence.FormatTime(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSQLiteMessages(rows *sql.Rows) ([]*Message, error) {
	var msgs []*Message
	for rows.Next() {
		var (
			msg                                  Message
			eventID, aggregateID, createdAt      string
			payload                              string
			metadata, lastError, deadReason      sql.NullString
			publishedAt, nextRetryAt, deadLetter sql.NullString
		)
		err := rows.Scan(
			&msg.ID,
			&eventID,
			&msg.AggregateType,
			&aggregateID,
			&msg.RoutingKey,
			&payload,
			&metadata,
			&createdAt,
			&publishedAt,
			&nextRetryAt,
			&msg.RetryCount,
			&lastError,
			&deadLetter,
			&deadReason,
		)
		if err != nil {
			return nil, err
		}

		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("outbox %d event id: %w", msg.ID, err)
		}
		if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
			return nil, fmt.Errorf("outbox %d aggregate id: %w", msg.ID, err)
		}
		if msg.CreatedAt, err = persistence.ParseTime(createdAt); err != nil {
			return nil, err
		}
		if msg.PublishedAt, err = persistence.ParseNullTime(publishedAt); err != nil {
			return nil, err
		}
		if msg.NextRetryAt, err = persistence.ParseNullTime(nextRetryAt); err != nil {
			return nil, err
		}
		if msg.DeadLetteredAt, err = persistence.ParseNullTime(deadLetter); err != nil {
			return nil, err
		}
		msg.Payload = []byte(payload)
		if metadata.Valid {
			msg.Metadata = []byte(metadata.String)
		}
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		if deadReason.Valid {
			msg.DeadLetterReason = &deadReason.String
		}
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

var _ Repository = (*SQLiteRepository)(nil)
